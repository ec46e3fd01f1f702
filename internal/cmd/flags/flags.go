// Package flags binds option structs to cobra flags and overlays the flags a
// user actually set onto values loaded from the config file.
package flags

import (
	"github.com/CompassSecurity/pipeguard/pkg/config"
	"github.com/spf13/cobra"
)

// AddCommonScanFlags registers the shared scan flags on cmd.
func AddCommonScanFlags(cmd *cobra.Command, opts *config.CommonScanOptions) {
	defaults := config.DefaultCommonScanOptions()
	cmd.Flags().StringSliceVarP(&opts.ConfidenceFilter, "confidence", "", []string{}, "Filter for confidence level, separate by comma if multiple (high, medium, low, high-verified, trufflehog-unverified)")
	cmd.Flags().IntVarP(&opts.MaxScanGoRoutines, "threads", "", defaults.MaxScanGoRoutines, "Nr of threads used to scan")
	cmd.Flags().BoolVarP(&opts.TruffleHog, "trufflehog", "", defaults.TruffleHog, "Additionally run the TruffleHog provider detectors")
	cmd.Flags().BoolVarP(&opts.TruffleHogVerification, "verify", "", defaults.TruffleHogVerification, "Verify TruffleHog findings against the provider, this sends the credentials over the network")
	cmd.Flags().DurationVarP(&opts.HitTimeout, "hit-timeout", "", defaults.HitTimeout, "Maximum time the TruffleHog detectors may take per input")
}

// AddGuardFlags registers the common scan flags plus the rule file flag.
func AddGuardFlags(cmd *cobra.Command, opts *config.GuardOptions) {
	AddCommonScanFlags(cmd, &opts.CommonScanOptions)
	cmd.Flags().StringSliceVarP(&opts.Rules, "rules", "r", []string{}, "Additional rule file, local path or http(s) URL, can be repeated")
}

// AddRepoFlags registers the directory loading flags.
func AddRepoFlags(cmd *cobra.Command, opts *config.RepoScanOptions) {
	defaults := config.DefaultRepoScanOptions()
	cmd.Flags().StringVarP(&opts.MaxFileSize, "max-file-size", "", defaults.MaxFileSize, "Files larger than this are skipped. Format: https://pkg.go.dev/github.com/docker/go-units#FromHumanSize")
	cmd.Flags().StringSliceVarP(&opts.IgnorePatterns, "ignore", "", []string{}, "Additional gitignore style pattern to skip, can be repeated")
	cmd.Flags().BoolVarP(&opts.SkipGitignore, "no-gitignore", "", false, "Do not honour the .gitignore of the scanned directory")
}

// MergeGuardOptions returns base with every flag the user set on cmd taken
// from flagged.
func MergeGuardOptions(cmd *cobra.Command, base, flagged config.GuardOptions) config.GuardOptions {
	f := cmd.Flags()
	if f.Changed("confidence") {
		base.ConfidenceFilter = flagged.ConfidenceFilter
	}
	if f.Changed("threads") {
		base.MaxScanGoRoutines = flagged.MaxScanGoRoutines
	}
	if f.Changed("trufflehog") {
		base.TruffleHog = flagged.TruffleHog
	}
	if f.Changed("verify") {
		base.TruffleHogVerification = flagged.TruffleHogVerification
	}
	if f.Changed("hit-timeout") {
		base.HitTimeout = flagged.HitTimeout
	}
	if f.Changed("rules") {
		base.Rules = flagged.Rules
	}
	return base
}

// MergeRepoOptions is MergeGuardOptions for the directory loading flags.
func MergeRepoOptions(cmd *cobra.Command, base, flagged config.RepoScanOptions) config.RepoScanOptions {
	f := cmd.Flags()
	if f.Changed("max-file-size") {
		base.MaxFileSize = flagged.MaxFileSize
	}
	if f.Changed("ignore") {
		base.IgnorePatterns = flagged.IgnorePatterns
	}
	if f.Changed("no-gitignore") {
		base.SkipGitignore = flagged.SkipGitignore
	}
	return base
}
