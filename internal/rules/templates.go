package rules

// Built-in rule templates for common sensitive-data patterns. Keys are
// case-sensitive and exact.
const (
	TemplateEmail      = "EMAIL"
	TemplateSSN        = "SSN"
	TemplateCreditCard = "CREDIT_CARD"
	TemplatePhone      = "PHONE"
	TemplateIPAddress  = "IP_ADDRESS"
	TemplateAPIKey     = "API_KEY"
	TemplateIBAN       = "IBAN"
)

func intp(v int) *int { return &v }

var templates = map[string]Definition{
	TemplateEmail: {
		Name:            "Email address",
		Regex:           `[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`,
		ReplacementType: ReplacementFixed,
		Replacement:     "[EMAIL]",
		Priority:        intp(10),
	},
	TemplateSSN: {
		Name:            "US Social Security number",
		Regex:           `\b\d{3}-\d{2}-\d{4}\b`,
		ReplacementType: ReplacementFixed,
		Replacement:     "[SSN]",
		Priority:        intp(10),
	},
	TemplateCreditCard: {
		Name:            "Credit card number",
		Regex:           `\b\d{4}[ -]?\d{4}[ -]?\d{4}[ -]?\d{4}\b`,
		ReplacementType: ReplacementCharacter,
		ReplacementChar: "X",
		Priority:        intp(5),
	},
	TemplatePhone: {
		Name:            "Phone number",
		Regex:           `\(\d{3}\)\s?\d{3}-\d{4}|\b\d{3}-\d{3}-\d{4}\b`,
		ReplacementType: ReplacementFixed,
		Replacement:     "[PHONE]",
		Priority:        intp(20),
	},
	TemplateIPAddress: {
		Name:            "IPv4 address",
		Regex:           `\b(?:\d{1,3}\.){3}\d{1,3}\b`,
		ReplacementType: ReplacementFixed,
		Replacement:     "[IP]",
		Priority:        intp(30),
	},
	TemplateAPIKey: {
		Name:            "API secret key",
		Regex:           `\b(?:sk|pk)_(?:test|live)_[A-Za-z0-9]{24,}\b`,
		ReplacementType: ReplacementCharacter,
		ReplacementChar: "*",
		Priority:        intp(5),
	},
	TemplateIBAN: {
		Name:            "IBAN account number",
		Regex:           `\b[A-Z]{2}\d{2}[A-Z0-9]{11,30}\b`,
		ReplacementType: ReplacementFormatPreserving,
		Priority:        intp(15),
	},
}

// Template looks up a built-in template body by key.
func Template(key string) (Definition, bool) {
	def, ok := templates[key]
	return def, ok
}

// TemplateKeys lists the available template keys. Order is not defined.
func TemplateKeys() []string {
	keys := make([]string, 0, len(templates))
	for key := range templates {
		keys = append(keys, key)
	}
	return keys
}
