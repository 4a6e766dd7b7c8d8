package engine

import (
	"context"
	"time"

	"github.com/docveil/docveil/internal/document"
	"github.com/docveil/docveil/internal/rules"
)

// RuleApplication reports how often one rule matched during a redaction call.
type RuleApplication struct {
	RuleID   string `json:"ruleId"`
	RuleName string `json:"ruleName"`
	Matches  int    `json:"matches"`
}

// Statistics summarizes a redaction call. Rules that matched zero times are
// omitted from AppliedRules on the in-process path; for delegated documents
// the summary is whatever the external engine reported.
type Statistics struct {
	RedactionCount int               `json:"redactionCount"`
	AppliedRules   []RuleApplication `json:"appliedRules"`
	ProcessingTime time.Duration     `json:"processingTime"`
}

// Result is the outcome of one redaction call. It is owned by the caller; the
// engine retains no reference past the call.
type Result struct {
	DocumentID      string             `json:"documentId"`
	Document        *document.Document `json:"-"`
	RedactedContent document.Content   `json:"redactedContent"`
	Statistics      Statistics         `json:"statistics"`
	Timestamp       time.Time          `json:"timestamp"`
}

// ProcessingEngine redacts document shapes the core cannot rewrite in-process
// (scanned images and other binary formats). The core treats it as a black
// box and copies its reported statistics verbatim.
type ProcessingEngine interface {
	Process(ctx context.Context, req ProcessRequest) (*ProcessResponse, error)
}

// ProcessRequest carries the content and the validated, ordered rule set.
type ProcessRequest struct {
	Content document.Content `json:"content"`
	Rules   []rules.Rule     `json:"rules"`
}

// ProcessResponse is the contracted response shape of an external processing
// engine.
type ProcessResponse struct {
	Redacted        document.Content  `json:"redacted"`
	AppliedRules    []RuleApplication `json:"appliedRules"`
	TotalRedactions int               `json:"totalRedactions"`
}
