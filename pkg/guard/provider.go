package guard

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/trufflesecurity/trufflehog/v3/pkg/engine/defaults"
	"github.com/wandb/parallel"
)

// ErrProviderTimeout is returned when the provider detectors do not finish in time.
var ErrProviderTimeout = errors.New("provider secret detection timed out")

// ProviderScanOptions configures DetectProviderSecrets.
type ProviderScanOptions struct {
	MaxGoRoutines int
	// Verify checks candidate credentials against the provider. This performs
	// network requests.
	Verify  bool
	Timeout time.Duration
}

// DetectProviderSecrets runs the TruffleHog default detectors over content.
// Unverified candidates are reported with ConfidenceUnverified when Verify is
// off, otherwise only verified ones are kept. Findings are sorted by label and
// deduplicated.
func DetectProviderSecrets(ctx context.Context, content []byte, opts ProviderScanOptions) ([]Finding, error) {
	if len(content) == 0 {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if opts.MaxGoRoutines < 1 {
		opts.MaxGoRoutines = 1
	}

	type result struct {
		findings []Finding
		err      error
	}
	done := make(chan result, 1)
	go func() {
		findings, err := detectProviderSecrets(ctx, content, opts)
		done <- result{findings, err}
	}()

	var timeout <-chan time.Time
	if opts.Timeout > 0 {
		timer := time.NewTimer(opts.Timeout)
		defer timer.Stop()
		timeout = timer.C
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timeout:
		return nil, ErrProviderTimeout
	case r := <-done:
		return r.findings, r.err
	}
}

func detectProviderSecrets(ctx context.Context, content []byte, opts ProviderScanOptions) ([]Finding, error) {
	group := parallel.Collect[[]Finding](parallel.Limited(ctx, opts.MaxGoRoutines))

	for _, detector := range defaults.DefaultDetectors() {
		group.Go(func(ctx context.Context) ([]Finding, error) {
			results, err := detector.FromData(ctx, opts.Verify, content)
			if err != nil {
				log.Debug().Err(err).Msg("TruffleHog detector failed")
				return nil, nil
			}

			var findings []Finding
			for _, r := range results {
				finding := Finding{
					Kind:       KindSecret,
					Label:      strings.ToLower(r.DetectorType.String()),
					Confidence: ConfidenceVerified,
				}
				switch {
				case r.Verified:
					findings = append(findings, finding)
				case !opts.Verify:
					finding.Confidence = ConfidenceUnverified
					findings = append(findings, finding)
				}
			}
			return findings, nil
		})
	}

	results, err := group.Wait()
	if err != nil {
		return nil, err
	}
	return dedupeFindings(slices.Concat(results...)), nil
}

func dedupeFindings(findings []Finding) []Finding {
	slices.SortFunc(findings, func(a, b Finding) int {
		if c := strings.Compare(a.Label, b.Label); c != 0 {
			return c
		}
		return strings.Compare(a.Confidence, b.Confidence)
	})
	return slices.Compact(findings)
}
