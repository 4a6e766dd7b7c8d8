package config

import (
	"time"

	"github.com/docveil/docveil/internal/store"
)

// Config represents the main configuration structure
type Config struct {
	Logging LoggingConfig `yaml:"logging" mapstructure:"logging"`
	Storage StorageConfig `yaml:"storage" mapstructure:"storage"`
	Metrics MetricsConfig `yaml:"metrics" mapstructure:"metrics"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string         `yaml:"level" mapstructure:"level"`
	Format string         `yaml:"format" mapstructure:"format"` // json or console
	File   FileLogsConfig `yaml:"file" mapstructure:"file"`
}

// FileLogsConfig contains file logging configuration
type FileLogsConfig struct {
	Enabled  bool   `yaml:"enabled" mapstructure:"enabled"`
	Path     string `yaml:"path" mapstructure:"path"`
	MaxSize  int    `yaml:"max_size" mapstructure:"max_size"`
	MaxAge   int    `yaml:"max_age" mapstructure:"max_age"`
	Compress bool   `yaml:"compress" mapstructure:"compress"`
}

// StorageConfig selects and configures the rule store backend.
type StorageConfig struct {
	Backend  string               `yaml:"backend" mapstructure:"backend"` // memory, file, redis, or postgres
	File     FileStoreConfig      `yaml:"file" mapstructure:"file"`
	Redis    store.RedisConfig    `yaml:"redis" mapstructure:"redis"`
	Postgres store.PostgresConfig `yaml:"postgres" mapstructure:"postgres"`
}

// FileStoreConfig contains file store configuration
type FileStoreConfig struct {
	DataDir string `yaml:"data_dir" mapstructure:"data_dir"`
}

// MetricsConfig contains Prometheus metrics configuration
type MetricsConfig struct {
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
}

// GetDefaults returns a configuration with sensible defaults
func GetDefaults() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			File: FileLogsConfig{
				Enabled:  false,
				Path:     "logs/docveil.log",
				MaxSize:  100, // MB
				MaxAge:   30,  // days
				Compress: true,
			},
		},
		Storage: StorageConfig{
			Backend: "file",
			File: FileStoreConfig{
				DataDir: "data",
			},
			Redis: store.RedisConfig{
				URL:            "redis://localhost:6379/0",
				MaxConnections: 10,
				MinIdleConns:   2,
			},
			Postgres: store.PostgresConfig{
				DatabaseURL:     "postgres://localhost:5432/docveil?sslmode=disable",
				MaxOpenConns:    10,
				MaxIdleConns:    5,
				ConnMaxLifetime: time.Hour,
			},
		},
		Metrics: MetricsConfig{
			Enabled: false,
		},
	}
}
