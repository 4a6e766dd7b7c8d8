package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrNoRules is returned when Redact is called with an empty rule set.
	ErrNoRules = errors.New("no redaction rules provided")

	// ErrMissingContent is returned when the document carries no content.
	ErrMissingContent = errors.New("document has no content")
)

// InvalidRulesError aborts a redaction call when any supplied rule fails
// validation. Unlike import, partial application is not permitted here.
type InvalidRulesError struct {
	RuleName string
	Err      error
}

func (e *InvalidRulesError) Error() string {
	return fmt.Sprintf("rule %q failed validation: %v", e.RuleName, e.Err)
}

func (e *InvalidRulesError) Unwrap() error { return e.Err }

// UnsupportedDocumentTypeError is returned for extensions the engine does not
// recognize.
type UnsupportedDocumentTypeError struct {
	Extension string
}

func (e *UnsupportedDocumentTypeError) Error() string {
	return fmt.Sprintf("unsupported document type: %q", e.Extension)
}
