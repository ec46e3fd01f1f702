package guard

import (
	"fmt"

	"github.com/CompassSecurity/pipeguard/internal/cmd/common"
	"github.com/CompassSecurity/pipeguard/internal/cmd/flags"
	"github.com/CompassSecurity/pipeguard/pkg/config"
	"github.com/CompassSecurity/pipeguard/pkg/format"
	"github.com/CompassSecurity/pipeguard/pkg/logging"
	"github.com/CompassSecurity/pipeguard/pkg/scan/result"
	"github.com/CompassSecurity/pipeguard/pkg/scan/runner"
	"github.com/CompassSecurity/pipeguard/pkg/snapshot"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

type RepoOptions struct {
	config.GuardOptions
	config.RepoScanOptions
}

var repoOptions RepoOptions

func NewRepoCmd() *cobra.Command {
	repoCmd := &cobra.Command{
		Use:   "repo <dir>",
		Short: "Scan every text file of a directory tree",
		Long:  "Load a directory honouring .gitignore, skip binary and oversized files and scan each remaining file in parallel.",
		Example: `
# Scan the current checkout with 8 threads
pipeguard guard repo . --threads 8

# Skip files larger than 200KB and generated code
pipeguard guard repo ./service --max-file-size 200KB --ignore "*.pb.go"
		`,
		Args: cobra.ExactArgs(1),
		RunE: Repo,
	}
	flags.AddGuardFlags(repoCmd, &repoOptions.GuardOptions)
	flags.AddRepoFlags(repoCmd, &repoOptions.RepoScanOptions)

	return repoCmd
}

func Repo(cmd *cobra.Command, args []string) error {
	root := args[0]
	if !format.IsDirectory(root) {
		return fmt.Errorf("%s is not a directory", root)
	}

	opts := flags.MergeGuardOptions(cmd, common.Config().Guard, repoOptions.GuardOptions)
	repoOpts := flags.MergeRepoOptions(cmd, common.Config().Repo, repoOptions.RepoScanOptions)

	g, err := buildGuard(cmd.Context(), opts)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed building guard rules")
	}

	loadOpts, err := repoOpts.LoadOptions()
	if err != nil {
		log.Fatal().Err(err).Str("size", repoOpts.MaxFileSize).Msg("Failed parsing max-file-size flag")
	}

	snap, err := snapshot.Load(cmd.Context(), root, loadOpts)
	if err != nil {
		return err
	}

	results, err := runner.ScanSnapshot(cmd.Context(), g, snap, runner.ScanOptions{
		MaxGoRoutines:    opts.MaxScanGoRoutines,
		ConfidenceFilter: opts.ConfidenceFilter,
		TruffleHog:       opts.TruffleHog,
		Provider:         opts.ProviderOptions(),
	})
	if err != nil {
		return err
	}

	total := 0
	for _, r := range results {
		if r.Error != nil {
			log.Error().Err(r.Error).Str("file", r.File).Msg("Failed scanning file")
			continue
		}
		result.ReportFindings(r.Findings, result.ReportOptions{Source: logging.SourceFile, Location: r.File})
		total += len(r.Findings)
	}

	log.Info().Str("snapshot", snap.ID()).Int("files", snap.Len()).Int("findings", total).Msg("Repository scan done")
	if total > 0 {
		return common.ErrBlocked
	}
	return nil
}
