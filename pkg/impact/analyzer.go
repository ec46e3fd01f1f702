// Package impact computes the blast radius of deleting, renaming or bulk
// editing files in a codebase snapshot before the change is applied.
package impact

import (
	"context"
	"path"
	"slices"
	"strings"
	"time"

	"github.com/CompassSecurity/pipeguard/pkg/snapshot"
	"github.com/rs/zerolog/log"
)

// Options tunes the analyzer. The zero value is not useful, start from
// DefaultOptions.
type Options struct {
	// Extensions are stripped from a target to also match extension-less
	// imports such as "./utils/helper".
	Extensions []string `yaml:"extensions" validate:"dive,startswith=."`
	// HighThreshold is the reference count above which impact is HIGH.
	HighThreshold int `yaml:"highThreshold" validate:"gte=0"`
	// BulkWarnFiles is the affected file count above which a bulk update warns.
	BulkWarnFiles       int `yaml:"bulkWarnFiles" validate:"gte=0"`
	RenamePreviewLength int `yaml:"renamePreviewLength" validate:"gte=0"`
	BulkPreviewLength   int `yaml:"bulkPreviewLength" validate:"gte=0"`
	// RejectUnknownOperations turns the permissive default for operations
	// without a policy into an ERROR.
	RejectUnknownOperations bool `yaml:"rejectUnknownOperations"`
}

func DefaultOptions() Options {
	return Options{
		Extensions:          []string{".js", ".py"},
		HighThreshold:       5,
		BulkWarnFiles:       50,
		RenamePreviewLength: 200,
		BulkPreviewLength:   100,
	}
}

// Analyzer is stateless apart from its options and safe for concurrent use.
type Analyzer struct {
	opts Options
}

func New(opts Options) *Analyzer {
	opts.Extensions = slices.Clone(opts.Extensions)
	return &Analyzer{opts: opts}
}

func (a *Analyzer) Options() Options {
	return a.opts
}

// AnalyzeImpact lists every file whose content mentions target, either
// verbatim or without its extension. The target's own file is not excluded.
func (a *Analyzer) AnalyzeImpact(ctx context.Context, target string, snap *snapshot.Snapshot) ImpactReport {
	ctx, span := startAnalysisSpan(ctx, "AnalyzeImpact", target)
	defer span.End()
	start := time.Now()

	report := ImpactReport{File: target, References: []string{}}
	if target != "" {
		stripped := a.stripExtension(target)
		for file, content := range snap.All() {
			if strings.Contains(content, target) || (stripped != "" && strings.Contains(content, stripped)) {
				report.References = append(report.References, file)
			}
		}
	}

	report.ImpactLevel = a.level(len(report.References))
	report.SafeToDelete = len(report.References) == 0

	log.Debug().Str("target", target).Int("references", len(report.References)).Str("impact", string(report.ImpactLevel)).Msg("Analyzed impact")
	setAnalysisSpanResult(span, string(report.ImpactLevel), len(report.References))
	recordAnalysisMetrics(ctx, "AnalyzeImpact", time.Since(start), len(report.References))
	return report
}

func (a *Analyzer) level(references int) ImpactLevel {
	switch {
	case references > a.opts.HighThreshold:
		return ImpactHigh
	case references > 0:
		return ImpactMedium
	default:
		return ImpactLow
	}
}

// stripExtension returns target without a configured extension, or target
// itself when it has none.
func (a *Analyzer) stripExtension(target string) string {
	ext := path.Ext(target)
	if ext == "" || !slices.Contains(a.opts.Extensions, ext) {
		return target
	}
	return strings.TrimSuffix(target, ext)
}
