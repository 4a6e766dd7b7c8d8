// Package rules holds the redaction rule model, validation, the built-in
// template registry, and the Manager that owns the persisted rule collection.
package rules

import (
	"regexp"
	"time"
)

// ReplacementType selects the replacement strategy of a rule.
type ReplacementType string

const (
	// ReplacementFixed substitutes a literal replacement string.
	ReplacementFixed ReplacementType = "fixed"
	// ReplacementCharacter overwrites every matched character with a single
	// mask character, preserving the matched length.
	ReplacementCharacter ReplacementType = "character"
	// ReplacementFormatPreserving substitutes same-length text that keeps the
	// character class of each position (digit, letter, other).
	ReplacementFormatPreserving ReplacementType = "format-preserving"
)

// Rule is a single redaction instruction. Rules are created and mutated only
// through the Manager; ID and Created are system-assigned and immutable.
type Rule struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Pattern         string          `json:"pattern,omitempty"`
	Regex           string          `json:"regex,omitempty"`
	ReplacementType ReplacementType `json:"replacementType"`
	Replacement     string          `json:"replacement,omitempty"`
	ReplacementChar string          `json:"replacementChar,omitempty"`
	Priority        int             `json:"priority"`
	Enabled         bool            `json:"enabled"`
	Created         time.Time       `json:"created"`
}

// Definition is a candidate rule as supplied by callers and import files,
// before the Manager assigns an ID and creation timestamp. Priority and
// Enabled are pointers so an update can leave them untouched.
type Definition struct {
	Name            string          `json:"name"`
	Pattern         string          `json:"pattern,omitempty"`
	Regex           string          `json:"regex,omitempty"`
	ReplacementType ReplacementType `json:"replacementType"`
	Replacement     string          `json:"replacement,omitempty"`
	ReplacementChar string          `json:"replacementChar,omitempty"`
	Priority        *int            `json:"priority,omitempty"`
	Enabled         *bool           `json:"enabled,omitempty"`
}

// Definition returns the rule's fields as a candidate definition, used when a
// rule has to be re-validated (engine precondition checks, updates).
func (r Rule) Definition() Definition {
	priority := r.Priority
	enabled := r.Enabled
	return Definition{
		Name:            r.Name,
		Pattern:         r.Pattern,
		Regex:           r.Regex,
		ReplacementType: r.ReplacementType,
		Replacement:     r.Replacement,
		ReplacementChar: r.ReplacementChar,
		Priority:        &priority,
		Enabled:         &enabled,
	}
}

// Matcher is the authoritative matching form of a rule: either a literal
// substring or a regular expression. When both pattern and regex are present
// the regex wins.
type Matcher struct {
	literal bool
	expr    string
}

// Matcher derives the rule's matcher. Call only on validated rules.
func (r Rule) Matcher() Matcher {
	if r.Regex != "" {
		return Matcher{expr: r.Regex}
	}
	return Matcher{literal: true, expr: r.Pattern}
}

func (d Definition) matcher() Matcher {
	if d.Regex != "" {
		return Matcher{expr: d.Regex}
	}
	return Matcher{literal: true, expr: d.Pattern}
}

// Compile compiles the matcher. Literal matchers are escaped and matched as
// exact text.
func (m Matcher) Compile() (*regexp.Regexp, error) {
	if m.literal {
		return regexp.Compile(regexp.QuoteMeta(m.expr))
	}
	return regexp.Compile(m.expr)
}

// IsLiteral reports whether the matcher is an escaped literal rather than a
// user-supplied regular expression.
func (m Matcher) IsLiteral() bool { return m.literal }
