package engine

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/docveil/docveil/internal/rules"
)

// compiledRule is one rule prepared for a single redaction call. Matches
// accumulate across all text units of the document.
type compiledRule struct {
	rule    rules.Rule
	re      *regexp.Regexp
	matches int
}

// compileRules prepares the enabled subset of the rule set, ordered by
// ascending priority with ties broken by input order. Each rule is compiled
// exactly once per call.
func compileRules(ruleSet []rules.Rule) ([]*compiledRule, error) {
	ordered := make([]rules.Rule, 0, len(ruleSet))
	for _, r := range ruleSet {
		if r.Enabled {
			ordered = append(ordered, r)
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Priority < ordered[j].Priority
	})

	compiled := make([]*compiledRule, 0, len(ordered))
	for _, r := range ordered {
		re, err := r.Matcher().Compile()
		if err != nil {
			return nil, fmt.Errorf("failed to compile rule %q: %w", r.Name, err)
		}
		compiled = append(compiled, &compiledRule{rule: r, re: re})
	}
	return compiled, nil
}

// apply runs one rule over a text unit with standard global-scan semantics:
// left to right, non-overlapping, each match's right edge anchoring the next
// search start.
func (cr *compiledRule) apply(text string) string {
	return cr.re.ReplaceAllStringFunc(text, func(match string) string {
		cr.matches++
		return replacementFor(cr.rule, match)
	})
}

// count scans a text unit without rewriting it.
func (cr *compiledRule) count(text string) {
	cr.matches += len(cr.re.FindAllStringIndex(text, -1))
}

// redactUnit folds the ordered rule list over one text unit. Each rule
// rescans the output of the previous rule, so earlier replacements are
// visible to later rules.
func redactUnit(text string, compiled []*compiledRule) string {
	for _, cr := range compiled {
		text = cr.apply(text)
	}
	return text
}

func replacementFor(r rules.Rule, match string) string {
	switch r.ReplacementType {
	case rules.ReplacementCharacter:
		return maskCharacter(match, r.ReplacementChar)
	case rules.ReplacementFormatPreserving:
		return maskFormat(match)
	default:
		return r.Replacement
	}
}

// maskCharacter overwrites every matched character with the mask character,
// preserving the matched length in runes. Only the first rune of the
// configured mask is used.
func maskCharacter(match, char string) string {
	mask, _ := utf8.DecodeRuneInString(char)
	return strings.Repeat(string(mask), utf8.RuneCountInString(match))
}

// maskFormat substitutes same-length text position-wise: digits become '0',
// upper-case letters 'X', other letters 'x', everything else is unchanged.
func maskFormat(match string) string {
	var b strings.Builder
	b.Grow(len(match))
	for _, r := range match {
		switch {
		case unicode.IsDigit(r):
			b.WriteRune('0')
		case unicode.IsUpper(r):
			b.WriteRune('X')
		case unicode.IsLetter(r):
			b.WriteRune('x')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
