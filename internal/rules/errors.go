package rules

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateRuleName is returned when a rule name collides with an
	// existing rule. Name comparison is case-sensitive.
	ErrDuplicateRuleName = errors.New("rule name already exists")

	// ErrRuleNotFound is returned when no rule carries the requested ID.
	ErrRuleNotFound = errors.New("rule not found")

	// ErrTemplateNotFound is returned for an unknown template key.
	ErrTemplateNotFound = errors.New("template not found")
)

// ValidationError reports why a candidate rule definition was rejected. The
// reason is human-readable; for bad regular expressions it embeds the
// underlying compile error.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid rule: %s", e.Reason)
}

func validationErrorf(format string, args ...any) *ValidationError {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}
