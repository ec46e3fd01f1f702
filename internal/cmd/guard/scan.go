package guard

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/CompassSecurity/pipeguard/internal/cmd/common"
	"github.com/CompassSecurity/pipeguard/internal/cmd/flags"
	"github.com/CompassSecurity/pipeguard/pkg/config"
	pkgguard "github.com/CompassSecurity/pipeguard/pkg/guard"
	"github.com/CompassSecurity/pipeguard/pkg/logging"
	"github.com/CompassSecurity/pipeguard/pkg/scan/result"
	"github.com/CompassSecurity/pipeguard/pkg/scan/runner"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

type ScanOptions struct {
	config.GuardOptions
	Files []string
	Stdin bool
}

var scanOptions ScanOptions

func NewScanCmd() *cobra.Command {
	scanCmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan files or stdin for secrets, prompt injection and risky code",
		Long:  "Run the secret, injection and vulnerability rules over each input and report every finding.",
		Example: `
# Scan two files
pipeguard guard scan --file main.go --file .env

# Scan a generated patch, with an additional rule file
git diff | pipeguard guard scan --stdin --rules https://example.com/rules.yml

# Also run the TruffleHog detectors and only report verified credentials
pipeguard guard scan --file .env --trufflehog --verify
		`,
		RunE: Scan,
	}
	flags.AddGuardFlags(scanCmd, &scanOptions.GuardOptions)
	scanCmd.Flags().StringSliceVarP(&scanOptions.Files, "file", "f", []string{}, "File to scan, can be repeated")
	scanCmd.Flags().BoolVarP(&scanOptions.Stdin, "stdin", "", false, "Scan content read from stdin")
	scanCmd.MarkFlagsOneRequired("file", "stdin")

	return scanCmd
}

func Scan(cmd *cobra.Command, args []string) error {
	opts := flags.MergeGuardOptions(cmd, common.Config().Guard, scanOptions.GuardOptions)
	g, err := buildGuard(cmd.Context(), opts)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed building guard rules")
	}

	type input struct {
		location string
		source   logging.Source
		content  []byte
	}
	var inputs []input

	for _, file := range scanOptions.Files {
		// #nosec G304 - user supplied file to scan
		content, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed reading %s: %w", file, err)
		}
		inputs = append(inputs, input{file, logging.SourceFile, content})
	}
	if scanOptions.Stdin {
		content, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("failed reading stdin: %w", err)
		}
		inputs = append(inputs, input{"stdin", logging.SourceContent, content})
	}

	total := 0
	for _, in := range inputs {
		findings := g.Scan(string(in.content))
		if opts.TruffleHog {
			provider, err := pkgguard.DetectProviderSecrets(cmd.Context(), in.content, opts.ProviderOptions())
			if err != nil && !errors.Is(err, pkgguard.ErrProviderTimeout) {
				return err
			}
			if err != nil {
				log.Warn().Str("location", in.location).Msg("TruffleHog detection timed out")
			}
			findings = append(findings, runner.FilterFindings(provider, opts.ConfidenceFilter)...)
		}

		result.ReportFindings(findings, result.ReportOptions{Source: in.source, Location: in.location})
		total += len(findings)
	}

	log.Info().Int("inputs", len(inputs)).Int("findings", total).Msg("Scan done")
	if total > 0 {
		return common.ErrBlocked
	}
	return nil
}
