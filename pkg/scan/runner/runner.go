// Package runner scans every file of a snapshot with a Guard in parallel.
package runner

import (
	"context"
	"errors"
	"slices"

	"github.com/CompassSecurity/pipeguard/pkg/guard"
	"github.com/CompassSecurity/pipeguard/pkg/snapshot"
	"github.com/rs/zerolog/log"
	"github.com/wandb/parallel"
)

type ScanOptions struct {
	MaxGoRoutines int
	// ConfidenceFilter drops provider findings outside the listed levels.
	// Rule findings are filtered when the RuleSet is built.
	ConfidenceFilter []string
	TruffleHog       bool
	Provider         guard.ProviderScanOptions
}

// FileResult holds the findings of one file.
type FileResult struct {
	File     string
	Findings []guard.Finding
	Error    error
}

// ScanSnapshot runs g over each file of snap with at most MaxGoRoutines files
// in flight. Only files with findings or errors are returned, in snapshot
// order. Cancelling ctx stops scheduling further files and returns ctx.Err().
func ScanSnapshot(ctx context.Context, g *guard.Guard, snap *snapshot.Snapshot, opts ScanOptions) ([]FileResult, error) {
	if opts.MaxGoRoutines < 1 {
		opts.MaxGoRoutines = 1
	}

	entries := snap.Entries()
	results := make([]FileResult, len(entries))
	group := parallel.Limited(ctx, opts.MaxGoRoutines)

	for i, entry := range entries {
		if ctx.Err() != nil {
			break
		}
		group.Go(func(ctx context.Context) {
			results[i] = scanFile(ctx, g, entry, opts)
		})
	}
	group.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return slices.DeleteFunc(results, func(r FileResult) bool {
		return len(r.Findings) == 0 && r.Error == nil
	}), nil
}

func scanFile(ctx context.Context, g *guard.Guard, entry snapshot.Entry, opts ScanOptions) FileResult {
	result := FileResult{File: entry.Path}
	if ctx.Err() != nil {
		return result
	}

	result.Findings = g.Scan(entry.Content)

	if opts.TruffleHog {
		provider, err := guard.DetectProviderSecrets(ctx, []byte(entry.Content), opts.Provider)
		switch {
		case errors.Is(err, guard.ErrProviderTimeout):
			log.Warn().Str("file", entry.Path).Dur("timeout", opts.Provider.Timeout).Msg("Provider detection timed out, skipping")
		case err != nil:
			if ctx.Err() == nil {
				result.Error = err
			}
		default:
			result.Findings = append(result.Findings, FilterFindings(provider, opts.ConfidenceFilter)...)
		}
	}

	log.Trace().Str("file", entry.Path).Int("findings", len(result.Findings)).Msg("Scanned file")
	return result
}

// FilterFindings keeps the findings whose confidence is in filter. An empty
// filter keeps all.
func FilterFindings(findings []guard.Finding, filter []string) []guard.Finding {
	if len(filter) == 0 {
		return findings
	}
	return slices.DeleteFunc(slices.Clone(findings), func(f guard.Finding) bool {
		return !slices.Contains(filter, f.Confidence)
	})
}
