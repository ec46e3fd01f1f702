package guard

// Kind is the category of a finding.
type Kind string

const (
	KindSecret         Kind = "secret"
	KindInjection      Kind = "injection"
	KindVulnerability  Kind = "vulnerability"
	KindBlockedCommand Kind = "blocked-command"
)

// Known reports whether k is one of the defined kinds.
func (k Kind) Known() bool {
	switch k {
	case KindSecret, KindInjection, KindVulnerability, KindBlockedCommand:
		return true
	}
	return false
}

// Confidence levels used by the built-in table and rule files.
const (
	ConfidenceHigh       = "high"
	ConfidenceMedium     = "medium"
	ConfidenceLow        = "low"
	ConfidenceVerified   = "high-verified"
	ConfidenceUnverified = "trufflehog-unverified"
)

// Finding is a single classification result.
type Finding struct {
	Kind       Kind
	Label      string
	Confidence string
}

// Rule is one row of a pattern table.
type Rule struct {
	Kind       Kind   `yaml:"kind,omitempty" json:"kind,omitempty"`
	Name       string `yaml:"name" json:"name"`
	Regex      string `yaml:"regex" json:"regex"`
	Confidence string `yaml:"confidence" json:"confidence"`
}

// RuleFile is the secrets-patterns-db layout used for external rules.
type RuleFile struct {
	Patterns []RuleElement `yaml:"patterns" json:"patterns"`
}

type RuleElement struct {
	Pattern Rule `yaml:"pattern" json:"pattern"`
}
