package guard

// secretRules are matched case-sensitively unless the regex sets (?i).
var secretRules = []Rule{
	{Kind: KindSecret, Name: "openai-api-key", Regex: `sk-[a-zA-Z0-9]{48}`, Confidence: ConfidenceHigh},
	{Kind: KindSecret, Name: "aws-access-key", Regex: `AKIA[0-9A-Z]{16}`, Confidence: ConfidenceHigh},
	{Kind: KindSecret, Name: "github-token", Regex: `ghp_[a-zA-Z0-9]{36}`, Confidence: ConfidenceHigh},
	{Kind: KindSecret, Name: "gitlab-token", Regex: `glpat-[0-9a-zA-Z_\-]{20}`, Confidence: ConfidenceHigh},
	{Kind: KindSecret, Name: "slack-token", Regex: `xox[baprs]-[0-9a-zA-Z-]{10,72}`, Confidence: ConfidenceHigh},
	{Kind: KindSecret, Name: "api-key", Regex: `(?i)api[_-]?key["\s]*[:=]["\s]*[a-zA-Z0-9]{16,}`, Confidence: ConfidenceMedium},
	{Kind: KindSecret, Name: "password", Regex: `(?i)password["\s]*[:=]["\s]*[^\s"']{8,}`, Confidence: ConfidenceMedium},
	{Kind: KindSecret, Name: "private-key", Regex: `-----BEGIN (?:[A-Z0-9]+ )*PRIVATE KEY-----`, Confidence: ConfidenceHigh},
}

// injectionRules are anchored to "instructions", "the above", named personas
// or developer mode framing. A bare "ignore" must never match.
var injectionRules = []Rule{
	{Kind: KindInjection, Name: "instruction-override", Regex: `(?i)\bignore\s+(?:all\s+)?(?:of\s+)?(?:the\s+|your\s+|any\s+)?(?:previous|prior|earlier|above)\s+instructions?\b`, Confidence: ConfidenceHigh},
	{Kind: KindInjection, Name: "ignore-above", Regex: `(?i)\bignore\s+(?:all\s+of\s+)?the\s+above\b`, Confidence: ConfidenceHigh},
	{Kind: KindInjection, Name: "new-instructions", Regex: `(?i)\byour\s+new\s+instructions\s+are\b`, Confidence: ConfidenceHigh},
	{Kind: KindInjection, Name: "disregard-instructions", Regex: `(?i)\bdisregard\b[^.\n]*\binstructions?\b`, Confidence: ConfidenceHigh},
	{Kind: KindInjection, Name: "persona-override", Regex: `(?i)\byou\s+are\s+now\s+(?:DAN|STAN|DUDE|jailbroken|unrestricted|unfiltered|in\s+developer\s+mode)\b`, Confidence: ConfidenceHigh},
	{Kind: KindInjection, Name: "dan-jailbreak", Regex: `(?i)\bDAN\b.*\bdo\s+anything\s+now\b`, Confidence: ConfidenceHigh},
	{Kind: KindInjection, Name: "stan-jailbreak", Regex: `(?i)\bSTAN\b.*\bstrive\s+to\s+avoid\s+norms\b`, Confidence: ConfidenceHigh},
	{Kind: KindInjection, Name: "developer-mode", Regex: `(?i)\bdeveloper\s+mode\b.*\b(?:ignore|disregard|bypass)\b`, Confidence: ConfidenceMedium},
}

var vulnerabilityRules = []Rule{
	{Kind: KindVulnerability, Name: "eval-usage", Regex: `\beval\s*\(`, Confidence: ConfidenceMedium},
	{Kind: KindVulnerability, Name: "exec-usage", Regex: `\bexec\s*\(`, Confidence: ConfidenceMedium},
	{Kind: KindVulnerability, Name: "sql-injection", Regex: `(?i)\bSELECT\b.*\bFROM\b.*\bWHERE\b.*\$\{`, Confidence: ConfidenceHigh},
	{Kind: KindVulnerability, Name: "dangerous-rm", Regex: "\\brm\\s+-(?:rf|fr)\\s+(?:--no-preserve-root\\s+)?/(?:\\*|\\s|$|[\"'`;&|)])", Confidence: ConfidenceHigh},
}

// commandRules are compiled as full-string matches, see anchor.
var commandRules = []Rule{
	{Kind: KindBlockedCommand, Name: "rm-rf-root", Regex: `rm\s+-(?:rf|fr)\s+(?:--no-preserve-root\s+)?/`, Confidence: ConfidenceHigh},
	{Kind: KindBlockedCommand, Name: "rm-rf-root-glob", Regex: `rm\s+-(?:rf|fr)\s+/\*`, Confidence: ConfidenceHigh},
	{Kind: KindBlockedCommand, Name: "passwd-overwrite", Regex: `>\s*/etc/passwd`, Confidence: ConfidenceHigh},
}

// DefaultRules returns a fresh copy of the built-in pattern table in match order.
func DefaultRules() []Rule {
	rules := make([]Rule, 0, len(secretRules)+len(injectionRules)+len(vulnerabilityRules)+len(commandRules))
	rules = append(rules, secretRules...)
	rules = append(rules, injectionRules...)
	rules = append(rules, vulnerabilityRules...)
	rules = append(rules, commandRules...)
	return rules
}
