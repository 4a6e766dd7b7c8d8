// Package engine applies a prioritized rule set to a normalized document and
// produces redacted content plus per-rule statistics.
package engine

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/docveil/docveil/internal/document"
	"github.com/docveil/docveil/internal/logger"
	"github.com/docveil/docveil/internal/metrics"
	"github.com/docveil/docveil/internal/rules"
)

// Engine redacts documents. It holds no mutable state between calls; any
// number of Redact calls may run concurrently against different documents.
type Engine struct {
	logger  *logger.Logger
	metrics *metrics.Collector
}

// New creates an engine. The collector may be nil.
func New(log *logger.Logger, collector *metrics.Collector) *Engine {
	return &Engine{
		logger:  log.WithComponent("engine"),
		metrics: collector,
	}
}

// Redact applies the rule set to the document and returns the redacted
// content with statistics. The document is read-only; a new content value is
// returned in the same variant shape.
//
// Text and paged documents are rewritten in-process. Binary shapes are
// delegated to the supplied processing engine; delegate must be non-nil for
// such documents, which is a caller obligation rather than a checked error.
// The delegation await is the only suspension point; ctx cancels the wait but
// does not abort the external engine.
func (e *Engine) Redact(ctx context.Context, doc *document.Document, ruleSet []rules.Rule, delegate ProcessingEngine) (*Result, error) {
	start := time.Now()

	compiled, err := e.prepare(doc, ruleSet)
	if err != nil {
		e.metrics.RecordRedaction(time.Since(start), false)
		return nil, err
	}

	var (
		redacted document.Content
		stats    Statistics
	)

	switch content := doc.Content.(type) {
	case document.Text:
		text := redactUnit(content.Text, compiled)
		redacted = document.Text{Text: text, Lines: strings.Split(text, "\n")}
		stats = summarize(compiled)

	case document.Paged:
		pages := make([]document.Page, len(content.Pages))
		for i, page := range content.Pages {
			pages[i] = document.Page{
				PageNumber: page.PageNumber,
				Text:       redactUnit(page.Text, compiled),
			}
		}
		redacted = document.Paged{Pages: pages, Metadata: content.Metadata}
		stats = summarize(compiled)

	case document.Binary:
		resp, err := delegate.Process(ctx, ProcessRequest{
			Content: doc.Content,
			Rules:   orderedRules(compiled),
		})
		if err != nil {
			e.metrics.RecordRedaction(time.Since(start), false)
			return nil, err
		}
		redacted = resp.Redacted
		// The external engine's summary is authoritative; nothing is
		// recomputed here.
		stats = Statistics{
			RedactionCount: resp.TotalRedactions,
			AppliedRules:   resp.AppliedRules,
		}
	}

	stats.ProcessingTime = time.Since(start)

	for _, applied := range stats.AppliedRules {
		e.logger.LogRedaction(doc.ID, applied.RuleName, applied.Matches)
		e.metrics.RecordRuleMatches(applied.RuleName, applied.Matches)
	}
	e.metrics.RecordRedaction(stats.ProcessingTime, true)

	e.logger.Info("Document redacted",
		zap.String("document_id", doc.ID),
		zap.Int("redactions", stats.RedactionCount),
		zap.Int("rules_applied", len(stats.AppliedRules)),
		zap.Duration("duration", stats.ProcessingTime),
	)

	return &Result{
		DocumentID:      doc.ID,
		Document:        doc,
		RedactedContent: redacted,
		Statistics:      stats,
		Timestamp:       time.Now().UTC(),
	}, nil
}

// Analyze counts rule matches over the document without rewriting it. Each
// rule scans the original text, so counts are independent of rule order.
// Binary shapes cannot be analyzed in-process.
func (e *Engine) Analyze(_ context.Context, doc *document.Document, ruleSet []rules.Rule) ([]RuleApplication, error) {
	compiled, err := e.prepare(doc, ruleSet)
	if err != nil {
		return nil, err
	}

	switch content := doc.Content.(type) {
	case document.Text:
		for _, cr := range compiled {
			cr.count(content.Text)
		}
	case document.Paged:
		for _, page := range content.Pages {
			for _, cr := range compiled {
				cr.count(page.Text)
			}
		}
	case document.Binary:
		return nil, &UnsupportedDocumentTypeError{Extension: doc.Metadata.Extension}
	}

	return summarize(compiled).AppliedRules, nil
}

// prepare runs the precondition checks in contract order and compiles the
// enabled rules.
func (e *Engine) prepare(doc *document.Document, ruleSet []rules.Rule) ([]*compiledRule, error) {
	if len(ruleSet) == 0 {
		return nil, ErrNoRules
	}
	for _, r := range ruleSet {
		if err := rules.Validate(r.Definition()); err != nil {
			return nil, &InvalidRulesError{RuleName: r.Name, Err: err}
		}
	}
	if doc.Content == nil {
		return nil, ErrMissingContent
	}
	if _, ok := document.ShapeForExtension(doc.Metadata.Extension); !ok {
		return nil, &UnsupportedDocumentTypeError{Extension: doc.Metadata.Extension}
	}
	return compileRules(ruleSet)
}

// summarize collects per-rule counts in application order, dropping rules
// that never matched.
func summarize(compiled []*compiledRule) Statistics {
	var stats Statistics
	for _, cr := range compiled {
		if cr.matches == 0 {
			continue
		}
		stats.AppliedRules = append(stats.AppliedRules, RuleApplication{
			RuleID:   cr.rule.ID,
			RuleName: cr.rule.Name,
			Matches:  cr.matches,
		})
		stats.RedactionCount += cr.matches
	}
	return stats
}

func orderedRules(compiled []*compiledRule) []rules.Rule {
	out := make([]rules.Rule, len(compiled))
	for i, cr := range compiled {
		out[i] = cr.rule
	}
	return out
}
