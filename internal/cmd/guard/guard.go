// Package guard holds the commands that screen content, prompts and shell
// commands before they are executed or committed.
package guard

import (
	"context"
	"fmt"
	"strings"

	"github.com/CompassSecurity/pipeguard/pkg/config"
	pkgguard "github.com/CompassSecurity/pipeguard/pkg/guard"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func NewGuardRootCmd() *cobra.Command {
	guardCmd := &cobra.Command{
		Use:   "guard [command]",
		Short: "Screen content, prompts and commands for security risks",
		Long: `Screen source code, natural language instructions and shell commands for leaked secrets,
prompt injection, risky code constructs and destructive commands.

Every command exits with status 1 when it reports a finding.`,
		GroupID: "Guard",
	}

	guardCmd.AddCommand(NewScanCmd())
	guardCmd.AddCommand(NewRepoCmd())
	guardCmd.AddCommand(NewPromptCmd())
	guardCmd.AddCommand(NewCommandCmd())
	guardCmd.AddCommand(NewRulesCmd())

	return guardCmd
}

// buildGuard compiles the built-in rules plus every rule file in opts.Rules.
func buildGuard(ctx context.Context, opts config.GuardOptions) (*pkgguard.Guard, error) {
	if err := config.ValidateThreadCount(opts.MaxScanGoRoutines); err != nil {
		return nil, err
	}

	var extra []pkgguard.Rule
	for _, location := range opts.Rules {
		if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
			if err := config.ValidateURL(location, "rules URL"); err != nil {
				return nil, err
			}
		}
		rules, err := pkgguard.LoadRules(ctx, location)
		if err != nil {
			return nil, fmt.Errorf("failed loading rules from %s: %w", location, err)
		}
		log.Debug().Str("location", location).Int("count", len(rules)).Msg("Loaded rule file")
		extra = append(extra, rules...)
	}

	if len(extra) == 0 && len(opts.ConfidenceFilter) == 0 {
		return pkgguard.Default(), nil
	}

	rules, err := pkgguard.Build(extra, opts.ConfidenceFilter)
	if err != nil {
		return nil, err
	}
	return pkgguard.New(rules), nil
}
