package rules

import (
	"regexp"
	"strings"
)

// Validate checks a candidate rule definition for structural and semantic
// correctness. Checks run in a fixed order and the first failure wins. It is a
// pure function: no Manager state is consulted, so the same path serves direct
// adds, updates, bulk import, and the engine's per-call rule check.
func Validate(def Definition) error {
	if strings.TrimSpace(def.Name) == "" {
		return validationErrorf("name is required")
	}

	if def.Regex == "" && strings.TrimSpace(def.Pattern) == "" {
		if def.Pattern != "" {
			return validationErrorf("pattern must not be blank")
		}
		return validationErrorf("either pattern or regex is required")
	}

	if def.Regex != "" {
		if _, err := regexp.Compile(def.Regex); err != nil {
			return validationErrorf("regex does not compile: %v", err)
		}
	}

	switch def.ReplacementType {
	case ReplacementFixed:
		if def.Replacement == "" {
			return validationErrorf("replacement is required for fixed replacement")
		}
	case ReplacementCharacter:
		if def.ReplacementChar == "" {
			return validationErrorf("replacementChar is required for character replacement")
		}
	case ReplacementFormatPreserving:
		// No extra payload.
	default:
		return validationErrorf("unknown replacement type %q", def.ReplacementType)
	}

	return nil
}
