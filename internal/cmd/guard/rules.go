package guard

import (
	"github.com/CompassSecurity/pipeguard/internal/cmd/flags"
	"github.com/CompassSecurity/pipeguard/pkg/config"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var rulesOptions config.GuardOptions

func NewRulesCmd() *cobra.Command {
	rulesCmd := &cobra.Command{
		Use:   "rules",
		Short: "List the active rules in match order",
		Long:  "List the built-in rules plus every rule file from --rules or the config file, after the confidence filter.",
		Example: `
pipeguard guard rules --rules rules.yml --confidence high
		`,
		Args: cobra.NoArgs,
		RunE: Rules,
	}
	flags.AddGuardFlags(rulesCmd, &rulesOptions)

	return rulesCmd
}

func Rules(cmd *cobra.Command, args []string) error {
	g, err := guardFor(cmd, rulesOptions)
	if err != nil {
		return err
	}

	rules := g.Rules().Rules()
	for _, rule := range rules {
		log.Info().
			Str("kind", string(rule.Kind)).
			Str("confidence", rule.Confidence).
			Str("regex", rule.Regex).
			Msg(rule.Name)
	}
	log.Info().Int("count", len(rules)).Msg("Active rules")
	return nil
}
