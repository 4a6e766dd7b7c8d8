package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/docveil/docveil/internal/config"
	"github.com/docveil/docveil/internal/document"
	"github.com/docveil/docveil/internal/engine"
	"github.com/docveil/docveil/internal/logger"
	"github.com/docveil/docveil/internal/metrics"
	"github.com/docveil/docveil/internal/rules"
	"github.com/docveil/docveil/internal/store"
)

var (
	version = "0.1.0"
	commit  = "dev"
	date    = "unknown"
)

func main() {
	// Parse command line flags
	var (
		configPath  = flag.String("config", "", "Path to configuration file")
		showVersion = flag.Bool("version", false, "Show version information")
		inPath      = flag.String("in", "", "File to redact")
		outPath     = flag.String("out", "", "Where to write redacted output (default: stdout)")
		importPath  = flag.String("import", "", "Rule file to import before redacting")
		exportPath  = flag.String("export", "", "Export the rule collection to this file")
		templates   = flag.String("templates", "", "Comma-separated template keys to instantiate (e.g. EMAIL,SSN)")
		watchDir    = flag.String("watch", "", "Watch a directory and redact files as they appear")
		watchOut    = flag.String("watch-out", "", "Output directory for watch mode")
	)
	flag.Parse()

	// Show version and exit
	if *showVersion {
		fmt.Printf("docveil %s (commit: %s, built: %s)\n", version, commit, date)
		os.Exit(0)
	}

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	loggerConfig := logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	}
	if cfg.Logging.File.Enabled {
		loggerConfig.File = &logger.FileConfig{
			Enabled:  cfg.Logging.File.Enabled,
			Path:     cfg.Logging.File.Path,
			MaxSize:  cfg.Logging.File.MaxSize,
			MaxAge:   cfg.Logging.File.MaxAge,
			Compress: cfg.Logging.File.Compress,
		}
	}

	log, err := logger.New(loggerConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("Starting docveil",
		zap.String("version", version),
		zap.String("commit", commit),
		zap.String("storage_backend", cfg.Storage.Backend),
	)

	ctx := context.Background()

	st, err := buildStore(cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize rule store", zap.Error(err))
	}

	manager, err := rules.NewManager(ctx, st, log)
	if err != nil {
		log.Fatal("Failed to initialize rule manager", zap.Error(err))
	}

	var collector *metrics.Collector
	if cfg.Metrics.Enabled {
		collector = metrics.NewCollector()
		manager.SetMetrics(collector)
	}

	eng := engine.New(log, collector)

	if *importPath != "" {
		data, err := os.ReadFile(*importPath)
		if err != nil {
			log.Fatal("Failed to read rule import file", zap.Error(err))
		}
		result, err := manager.Import(ctx, data)
		if err != nil {
			log.Fatal("Failed to import rules", zap.Error(err))
		}
		log.Info("Rule import complete",
			zap.Int("imported", result.Imported),
			zap.Int("skipped", result.Skipped),
		)
	}

	if *templates != "" {
		for _, key := range strings.Split(*templates, ",") {
			key = strings.TrimSpace(key)
			if key == "" {
				continue
			}
			if _, err := manager.CreateFromTemplate(ctx, key); err != nil {
				log.Fatal("Failed to instantiate template", zap.String("template", key), zap.Error(err))
			}
		}
	}

	if *exportPath != "" {
		data, err := manager.Export()
		if err != nil {
			log.Fatal("Failed to export rules", zap.Error(err))
		}
		if err := os.WriteFile(*exportPath, data, 0644); err != nil {
			log.Fatal("Failed to write rule export file", zap.Error(err))
		}
		log.Info("Rules exported", zap.String("path", *exportPath))
	}

	if *inPath != "" {
		if err := redactFile(ctx, eng, manager, *inPath, *outPath); err != nil {
			log.Fatal("Redaction failed", zap.String("file", *inPath), zap.Error(err))
		}
	}

	if *watchDir != "" {
		if err := runWatch(ctx, eng, manager, log, *watchDir, *watchOut); err != nil {
			log.Fatal("Watch mode failed", zap.Error(err))
		}
	}
}

// buildStore selects the rule store backend from configuration.
func buildStore(cfg *config.Config, log *logger.Logger) (store.Store, error) {
	switch cfg.Storage.Backend {
	case "memory":
		return store.NewMemory(), nil
	case "file":
		return store.NewFile(cfg.Storage.File.DataDir)
	case "redis":
		return store.NewRedis(cfg.Storage.Redis, log)
	case "postgres":
		return store.NewPostgres(cfg.Storage.Postgres, log)
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", cfg.Storage.Backend)
	}
}

// redactFile reads a local file, redacts it with the resident rule set, and
// writes the result to outPath or stdout.
func redactFile(ctx context.Context, eng *engine.Engine, manager *rules.Manager, path, outPath string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	doc := &document.Document{
		ID: uuid.NewString(),
		Metadata: document.Metadata{
			Name:      filepath.Base(path),
			Extension: strings.TrimPrefix(filepath.Ext(path), "."),
		},
		Content: document.NewText(string(data)),
	}

	result, err := eng.Redact(ctx, doc, manager.Rules(), nil)
	if err != nil {
		return err
	}

	text := result.RedactedContent.(document.Text).Text
	if outPath == "" {
		fmt.Print(text)
		return nil
	}
	return os.WriteFile(outPath, []byte(text), 0644)
}

// runWatch redacts files as they appear in a directory. Only extensions the
// engine handles as plain text are picked up.
func runWatch(ctx context.Context, eng *engine.Engine, manager *rules.Manager, log *logger.Logger, dir, outDir string) error {
	if outDir == "" {
		return fmt.Errorf("watch mode requires -watch-out")
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	log.Info("Watching for documents", zap.String("dir", dir), zap.String("out", outDir))

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			ext := strings.TrimPrefix(filepath.Ext(event.Name), ".")
			if shape, ok := document.ShapeForExtension(ext); !ok || shape != document.ShapeText {
				continue
			}
			out := filepath.Join(outDir, filepath.Base(event.Name))
			if err := redactFile(ctx, eng, manager, event.Name, out); err != nil {
				log.Error("Failed to redact file", zap.String("file", event.Name), zap.Error(err))
				continue
			}
			log.Info("File redacted", zap.String("file", event.Name), zap.String("out", out))

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Error("Watcher error", zap.Error(err))

		case sig := <-sigCh:
			log.Info("Shutting down", zap.String("signal", sig.String()))
			return nil
		}
	}
}
