// Package metrics exposes Prometheus instrumentation for the redaction core.
// The collector only registers and records; it never listens on the network.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector aggregates redaction metrics on its own registry. A nil Collector
// is valid; all record methods are no-ops on nil.
type Collector struct {
	registry          *prometheus.Registry
	documentsRedacted prometheus.Counter
	documentsFailed   prometheus.Counter
	redactionsApplied *prometheus.CounterVec
	redactionDuration prometheus.Histogram
	activeRules       prometheus.Gauge
}

// NewCollector creates a collector with a fresh registry.
func NewCollector() *Collector {
	registry := prometheus.NewRegistry()

	return &Collector{
		registry: registry,
		documentsRedacted: promauto.With(registry).NewCounter(prometheus.CounterOpts{
			Name: "docveil_documents_redacted_total",
			Help: "Total number of documents redacted successfully",
		}),
		documentsFailed: promauto.With(registry).NewCounter(prometheus.CounterOpts{
			Name: "docveil_documents_failed_total",
			Help: "Total number of redaction calls that failed",
		}),
		redactionsApplied: promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
			Name: "docveil_redactions_applied_total",
			Help: "Total number of matches replaced, per rule",
		}, []string{"rule"}),
		redactionDuration: promauto.With(registry).NewHistogram(prometheus.HistogramOpts{
			Name:    "docveil_redaction_duration_seconds",
			Help:    "Time taken to redact a document",
			Buckets: prometheus.DefBuckets,
		}),
		activeRules: promauto.With(registry).NewGauge(prometheus.GaugeOpts{
			Name: "docveil_rules_active",
			Help: "Number of rules currently held by the rule manager",
		}),
	}
}

// RecordRedaction records the outcome of one redaction call.
func (c *Collector) RecordRedaction(duration time.Duration, success bool) {
	if c == nil {
		return
	}
	if success {
		c.documentsRedacted.Inc()
	} else {
		c.documentsFailed.Inc()
	}
	c.redactionDuration.Observe(duration.Seconds())
}

// RecordRuleMatches adds the match count produced by a single rule.
func (c *Collector) RecordRuleMatches(ruleName string, matches int) {
	if c == nil || matches <= 0 {
		return
	}
	c.redactionsApplied.WithLabelValues(ruleName).Add(float64(matches))
}

// SetActiveRules updates the resident rule count gauge.
func (c *Collector) SetActiveRules(n int) {
	if c == nil {
		return
	}
	c.activeRules.Set(float64(n))
}

// Handler returns an HTTP handler serving the collector's registry. Hosting
// it is the caller's concern.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
