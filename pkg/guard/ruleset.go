package guard

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/rs/zerolog/log"
)

type compiledRule struct {
	Rule
	re *regexp.Regexp
}

// RuleSet is an immutable compiled pattern table, split by kind and kept in
// table order. It is safe for concurrent use.
type RuleSet struct {
	secrets         []compiledRule
	injections      []compiledRule
	vulnerabilities []compiledRule
	commands        []compiledRule
}

// Compile builds a RuleSet and fails on the first rule that is invalid.
func Compile(rules []Rule) (*RuleSet, error) {
	rs := &RuleSet{}
	for _, rule := range rules {
		if err := rs.add(rule); err != nil {
			return nil, err
		}
	}
	return rs, nil
}

// Build compiles the built-in table followed by extra. Extra rules that do not
// compile are skipped with a warning. A non-empty confidenceFilter keeps only
// rules with one of the listed confidences.
func Build(extra []Rule, confidenceFilter []string) (*RuleSet, error) {
	builtin := FilterByConfidence(DefaultRules(), confidenceFilter)
	rs, err := Compile(builtin)
	if err != nil {
		return nil, fmt.Errorf("built-in rules: %w", err)
	}

	skipped := 0
	for _, rule := range FilterByConfidence(extra, confidenceFilter) {
		if err := rs.add(rule); err != nil {
			log.Warn().Err(err).Str("name", rule.Name).Msg("Skipping invalid rule")
			skipped++
		}
	}

	if rs.Len() == 0 {
		log.Info().Strs("filter", confidenceFilter).Msg("Your confidence filter removed all rules, are you sure?")
	}
	log.Debug().Int("count", rs.Len()).Int("skipped", skipped).Msg("Loaded rules")
	return rs, nil
}

// FilterByConfidence returns the rules whose confidence is in filter. An empty
// filter returns rules unchanged.
func FilterByConfidence(rules []Rule, filter []string) []Rule {
	if len(filter) == 0 {
		return rules
	}
	filtered := []Rule{}
	for _, rule := range rules {
		if slices.Contains(filter, rule.Confidence) {
			filtered = append(filtered, rule)
		}
	}
	return filtered
}

// Len is the total number of compiled rules.
func (rs *RuleSet) Len() int {
	return len(rs.secrets) + len(rs.injections) + len(rs.vulnerabilities) + len(rs.commands)
}

// Rules returns the uncompiled rows in match order.
func (rs *RuleSet) Rules() []Rule {
	rules := make([]Rule, 0, rs.Len())
	for _, group := range [][]compiledRule{rs.secrets, rs.injections, rs.vulnerabilities, rs.commands} {
		for _, c := range group {
			rules = append(rules, c.Rule)
		}
	}
	return rules
}

func (rs *RuleSet) add(rule Rule) error {
	if rule.Kind == "" {
		rule.Kind = KindSecret
	}
	if !rule.Kind.Known() {
		return fmt.Errorf("rule %q: unknown kind %q", rule.Name, rule.Kind)
	}
	if strings.TrimSpace(rule.Name) == "" {
		return fmt.Errorf("rule with regex %q has no name", rule.Regex)
	}
	if rule.Regex == "" {
		return fmt.Errorf("rule %q has an empty regex", rule.Name)
	}

	expr := rule.Regex
	if rule.Kind == KindBlockedCommand {
		expr = anchor(expr)
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return fmt.Errorf("rule %q: %w", rule.Name, err)
	}

	c := compiledRule{Rule: rule, re: re}
	switch rule.Kind {
	case KindSecret:
		rs.secrets = append(rs.secrets, c)
	case KindInjection:
		rs.injections = append(rs.injections, c)
	case KindVulnerability:
		rs.vulnerabilities = append(rs.vulnerabilities, c)
	case KindBlockedCommand:
		rs.commands = append(rs.commands, c)
	}
	return nil
}

// anchor forces a full-string match so that a denylisted command embedded in a
// longer, legitimate one is not blocked.
func anchor(expr string) string {
	return `^(?:` + expr + `)$`
}
