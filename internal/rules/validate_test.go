package rules

import (
	"errors"
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		def     Definition
		wantErr string // empty means valid
	}{
		{
			name: "valid regex rule",
			def: Definition{
				Name:            "ssn",
				Regex:           `\d{3}-\d{2}-\d{4}`,
				ReplacementType: ReplacementFixed,
				Replacement:     "[SSN]",
			},
		},
		{
			name: "valid literal pattern rule",
			def: Definition{
				Name:            "codename",
				Pattern:         "Project Aurora",
				ReplacementType: ReplacementCharacter,
				ReplacementChar: "*",
			},
		},
		{
			name: "valid format-preserving rule without payload",
			def: Definition{
				Name:            "iban",
				Regex:           `[A-Z]{2}\d{2}`,
				ReplacementType: ReplacementFormatPreserving,
			},
		},
		{
			name:    "missing name",
			def:     Definition{Regex: "a", ReplacementType: ReplacementFixed, Replacement: "x"},
			wantErr: "name is required",
		},
		{
			name:    "blank name",
			def:     Definition{Name: "   ", Regex: "a", ReplacementType: ReplacementFixed, Replacement: "x"},
			wantErr: "name is required",
		},
		{
			name:    "no matcher at all",
			def:     Definition{Name: "r", ReplacementType: ReplacementFixed, Replacement: "x"},
			wantErr: "either pattern or regex is required",
		},
		{
			name:    "blank pattern",
			def:     Definition{Name: "r", Pattern: "  ", ReplacementType: ReplacementFixed, Replacement: "x"},
			wantErr: "pattern must not be blank",
		},
		{
			name:    "regex does not compile",
			def:     Definition{Name: "r", Regex: "([a-z", ReplacementType: ReplacementFixed, Replacement: "x"},
			wantErr: "regex does not compile",
		},
		{
			name:    "unknown replacement type",
			def:     Definition{Name: "r", Regex: "a", ReplacementType: "scramble"},
			wantErr: `unknown replacement type "scramble"`,
		},
		{
			name:    "fixed without replacement",
			def:     Definition{Name: "r", Regex: "a", ReplacementType: ReplacementFixed},
			wantErr: "replacement is required",
		},
		{
			name:    "character without mask char",
			def:     Definition{Name: "r", Regex: "a", ReplacementType: ReplacementCharacter},
			wantErr: "replacementChar is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.def)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() = nil, want error containing %q", tt.wantErr)
			}
			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("Validate() returned %T, want *ValidationError", err)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %q, want message containing %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestValidateRegexWinsOverBlankPattern(t *testing.T) {
	// Regex present makes a blank pattern irrelevant.
	def := Definition{
		Name:            "r",
		Pattern:         "",
		Regex:           "a+",
		ReplacementType: ReplacementFixed,
		Replacement:     "x",
	}
	if err := Validate(def); err != nil {
		t.Fatalf("Validate() = %v, want nil", err)
	}
}

func TestMatcherCompile(t *testing.T) {
	t.Run("literal pattern is escaped", func(t *testing.T) {
		r := Rule{Name: "dots", Pattern: "a.b"}
		re, err := r.Matcher().Compile()
		if err != nil {
			t.Fatalf("Compile() = %v", err)
		}
		if re.MatchString("axb") {
			t.Error("escaped literal matched a wildcard position")
		}
		if !re.MatchString("a.b") {
			t.Error("escaped literal did not match exact text")
		}
	})

	t.Run("regex takes precedence over pattern", func(t *testing.T) {
		r := Rule{Name: "both", Pattern: "literal", Regex: `\d+`}
		m := r.Matcher()
		if m.IsLiteral() {
			t.Error("regex should win when both are present")
		}
		re, err := m.Compile()
		if err != nil {
			t.Fatalf("Compile() = %v", err)
		}
		if !re.MatchString("42") {
			t.Error("regex matcher did not match")
		}
	})
}
