package impact

import (
	"context"
	"fmt"
	"time"

	"github.com/CompassSecurity/pipeguard/pkg/format"
	"github.com/CompassSecurity/pipeguard/pkg/snapshot"
	"github.com/rs/zerolog/log"
)

// PreviewRename counts every literal occurrence of oldName per file. The
// preview is the content with all occurrences replaced, then truncated.
func (a *Analyzer) PreviewRename(ctx context.Context, oldName, newName string, snap *snapshot.Snapshot) (ChangePreview, error) {
	m, err := Literal(oldName)
	if err != nil {
		return ChangePreview{}, err
	}
	return a.preview(ctx, "PreviewRename", m, newName, snap, func(content string) string {
		return format.Truncate(m.ReplaceAll(content, newName), a.opts.RenamePreviewLength)
	}), nil
}

// PreviewBulkUpdate counts every literal occurrence of search per file. The
// preview is truncated first and substituted afterwards, so occurrences past
// the preview length are counted but not shown.
func (a *Analyzer) PreviewBulkUpdate(ctx context.Context, search, replace string, snap *snapshot.Snapshot) (ChangePreview, error) {
	m, err := Literal(search)
	if err != nil {
		return ChangePreview{}, err
	}
	return a.previewBulkUpdate(ctx, m, replace, snap)
}

// PreviewBulkUpdatePattern is PreviewBulkUpdate with search in RE2 syntax.
func (a *Analyzer) PreviewBulkUpdatePattern(ctx context.Context, expr, replace string, snap *snapshot.Snapshot) (ChangePreview, error) {
	m, err := Pattern(expr)
	if err != nil {
		return ChangePreview{}, err
	}
	return a.previewBulkUpdate(ctx, m, replace, snap)
}

func (a *Analyzer) previewBulkUpdate(ctx context.Context, m Matcher, replace string, snap *snapshot.Snapshot) (ChangePreview, error) {
	if m.zero() {
		return ChangePreview{}, fmt.Errorf("%w: empty search term", ErrInvalidPattern)
	}
	return a.preview(ctx, "PreviewBulkUpdate", m, replace, snap, func(content string) string {
		return m.ReplaceAll(format.Truncate(content, a.opts.BulkPreviewLength), replace)
	}), nil
}

func (a *Analyzer) preview(ctx context.Context, op string, m Matcher, replace string, snap *snapshot.Snapshot, render func(string) string) ChangePreview {
	ctx, span := startAnalysisSpan(ctx, op, m.String())
	defer span.End()
	start := time.Now()

	preview := ChangePreview{Search: m.String(), Replace: replace, Changes: []FileChange{}}
	for file, content := range snap.All() {
		occurrences := m.Count(content)
		if occurrences == 0 {
			continue
		}
		preview.Changes = append(preview.Changes, FileChange{
			File:        file,
			Occurrences: occurrences,
			Preview:     render(content),
		})
		preview.TotalOccurrences += occurrences
	}
	preview.TotalFiles = len(preview.Changes)

	log.Debug().Str("search", preview.Search).Int("files", preview.TotalFiles).Int("occurrences", preview.TotalOccurrences).Msg("Built change preview")
	setPreviewSpanResult(span, preview.TotalFiles, preview.TotalOccurrences)
	recordAnalysisMetrics(ctx, op, time.Since(start), preview.TotalFiles)
	return preview
}
