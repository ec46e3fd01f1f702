package main

import (
	"github.com/CompassSecurity/pipeguard/internal/cmd/common"
	"github.com/CompassSecurity/pipeguard/internal/cmd/config"
	"github.com/CompassSecurity/pipeguard/internal/cmd/guard"
	"github.com/CompassSecurity/pipeguard/internal/cmd/impact"
	"github.com/spf13/cobra"
)

func main() {
	common.Run(newRootCmd())
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "pipeguard",
		Short: "Pre-flight checks for automated code modification pipelines",
		Long: `Pipeguard screens content, prompts and commands for security risks and estimates the blast radius
of deletions, renames and bulk edits before an automated pipeline applies them.`,
		Version: common.Version,
	}

	rootCmd.AddGroup(
		&cobra.Group{ID: "Guard", Title: "Security screening"},
		&cobra.Group{ID: "Impact", Title: "Change impact"},
		&cobra.Group{ID: "Helper", Title: "Helper commands"},
	)
	rootCmd.AddCommand(guard.NewGuardRootCmd())
	rootCmd.AddCommand(impact.NewImpactRootCmd())
	rootCmd.AddCommand(config.NewConfigRootCmd())

	common.SetupPersistentPreRun(rootCmd)
	common.AddCommonFlags(rootCmd)

	rootCmd.SetVersionTemplate(`{{.Version}}
`)

	return rootCmd
}
