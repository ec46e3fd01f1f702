// Package guard screens content, prompts and shell commands for security risk
// before they are executed or committed.
//
// A Guard is built once from a compiled RuleSet and holds no mutable state, so
// a single value can be shared by any number of goroutines.
package guard

import (
	"strings"
	"sync"

	"golang.org/x/text/unicode/norm"
)

type Guard struct {
	rules *RuleSet
}

// New returns a Guard backed by rules.
func New(rules *RuleSet) *Guard {
	return &Guard{rules: rules}
}

var defaultRuleSet = sync.OnceValue(func() *RuleSet {
	rs, err := Compile(DefaultRules())
	if err != nil {
		panic("guard: built-in rules do not compile: " + err.Error())
	}
	return rs
})

// Default returns a Guard using only the built-in pattern table.
func Default() *Guard {
	return New(defaultRuleSet())
}

// Rules exposes the compiled table the Guard matches against.
func (g *Guard) Rules() *RuleSet {
	return g.rules
}

// DetectSecrets returns the label of every secret rule that matches content.
// A rule contributes its label at most once.
func (g *Guard) DetectSecrets(content string) []string {
	return labels(g.rules.secrets, content)
}

// DetectInjection reports whether text contains a known prompt-injection
// phrasing. Text is NFKC normalised first so compatibility characters such
// as full-width letters do not evade the table.
func (g *Guard) DetectInjection(text string) bool {
	_, ok := firstMatch(g.rules.injections, norm.NFKC.String(text))
	return ok
}

// ScanForVulnerabilities returns the label of every dangerous construct found
// in code.
func (g *Guard) ScanForVulnerabilities(code string) []string {
	return labels(g.rules.vulnerabilities, code)
}

// IsDangerousCommand reports whether the whole command, ignoring surrounding
// whitespace, is on the denylist. Substrings are not considered.
func (g *Guard) IsDangerousCommand(command string) bool {
	_, ok := firstMatch(g.rules.commands, strings.TrimSpace(command))
	return ok
}

// Scan runs the secret, injection and vulnerability tables over content and
// returns typed findings in table order. Injection contributes at most one
// finding, the first matching phrasing.
func (g *Guard) Scan(content string) []Finding {
	var findings []Finding
	findings = appendFindings(findings, g.rules.secrets, content)
	if rule, ok := firstMatch(g.rules.injections, norm.NFKC.String(content)); ok {
		findings = append(findings, rule.finding())
	}
	findings = appendFindings(findings, g.rules.vulnerabilities, content)
	return findings
}

// CheckCommand returns a blocked-command finding for a denylisted command.
func (g *Guard) CheckCommand(command string) []Finding {
	if rule, ok := firstMatch(g.rules.commands, strings.TrimSpace(command)); ok {
		return []Finding{rule.finding()}
	}
	return nil
}

// CheckPrompt returns an injection finding for the first matching phrasing.
func (g *Guard) CheckPrompt(text string) []Finding {
	if rule, ok := firstMatch(g.rules.injections, norm.NFKC.String(text)); ok {
		return []Finding{rule.finding()}
	}
	return nil
}

func (c compiledRule) finding() Finding {
	return Finding{Kind: c.Kind, Label: c.Name, Confidence: c.Confidence}
}

func labels(rules []compiledRule, content string) []string {
	var out []string
	if content == "" {
		return out
	}
	for _, rule := range rules {
		if rule.re.MatchString(content) {
			out = append(out, rule.Name)
		}
	}
	return out
}

func appendFindings(findings []Finding, rules []compiledRule, content string) []Finding {
	if content == "" {
		return findings
	}
	for _, rule := range rules {
		if rule.re.MatchString(content) {
			findings = append(findings, rule.finding())
		}
	}
	return findings
}

func firstMatch(rules []compiledRule, content string) (compiledRule, bool) {
	if content == "" {
		return compiledRule{}, false
	}
	for _, rule := range rules {
		if rule.re.MatchString(content) {
			return rule, true
		}
	}
	return compiledRule{}, false
}
