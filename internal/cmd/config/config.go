// Package config holds the commands that inspect the pipeguard configuration.
package config

import (
	"fmt"

	"github.com/CompassSecurity/pipeguard/internal/cmd/common"
	"github.com/CompassSecurity/pipeguard/pkg/format"
	"github.com/spf13/cobra"
)

func NewConfigRootCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:     "config [command]",
		Short:   "Inspect the effective configuration",
		GroupID: "Helper",
	}
	configCmd.AddCommand(NewShowCmd())
	return configCmd
}

func NewShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as YAML",
		Long:  "Print the defaults merged with the file given by --config. The output is a valid config file.",
		Example: `
pipeguard config show > pipeguard.yml
pipeguard config show --config pipeguard.yml
		`,
		Args: cobra.NoArgs,
		RunE: Show,
	}
}

func Show(cmd *cobra.Command, args []string) error {
	raw, err := common.Config().YAML()
	if err != nil {
		return err
	}
	pretty, err := format.PrettyPrintYAML(raw)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), pretty)
	return err
}
