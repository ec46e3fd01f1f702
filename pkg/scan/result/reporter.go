// Package result emits guard findings and impact results as hit log entries.
package result

import (
	"strings"
	"sync"

	"github.com/CompassSecurity/pipeguard/pkg/format"
	"github.com/CompassSecurity/pipeguard/pkg/guard"
	"github.com/CompassSecurity/pipeguard/pkg/impact"
	"github.com/CompassSecurity/pipeguard/pkg/logging"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rxwycdh/rxhash"
)

type ReportOptions struct {
	Source   logging.Source
	Location string
}

// Deduplicator remembers the hashes of every value it has seen.
type Deduplicator struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

func NewDeduplicator() *Deduplicator {
	return &Deduplicator{seen: map[string]struct{}{}}
}

// Seen reports whether an equal value was passed before and records v
// otherwise. Values that cannot be hashed are never treated as duplicates.
func (d *Deduplicator) Seen(v any) bool {
	hash, err := rxhash.HashStruct(v)
	if err != nil {
		log.Debug().Err(err).Msg("Unable to hash value for deduplication")
		return false
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.seen[hash]; ok {
		return true
	}
	d.seen[hash] = struct{}{}
	return false
}

type locatedFinding struct {
	Finding  guard.Finding
	Location string
}

// ReportFindings reports each distinct finding once.
func ReportFindings(findings []guard.Finding, opts ReportOptions) {
	dedup := NewDeduplicator()
	for _, finding := range findings {
		if dedup.Seen(locatedFinding{finding, opts.Location}) {
			continue
		}
		ReportFinding(finding, opts)
	}
}

func ReportFinding(finding guard.Finding, opts ReportOptions) {
	source := opts.Source
	if source == "" {
		source = logging.SourceContent
	}

	event := logging.Hit().
		Str("source", string(source)).
		Str("kind", string(finding.Kind)).
		Str("confidence", finding.Confidence).
		Str("ruleName", finding.Label)

	if opts.Location != "" {
		event = event.Str("location", opts.Location)
	}

	event.Msg(message(finding.Kind))
}

func message(kind guard.Kind) string {
	return strings.ToUpper(strings.ReplaceAll(string(kind), "-", "_"))
}

// ReportImpact reports an impact analysis of the snapshot identified by
// snapshotID. Unreferenced targets are logged at info level since they do not
// block anything.
func ReportImpact(report impact.ImpactReport, snapshotID string) {
	if report.SafeToDelete {
		withSnapshot(log.Info(), snapshotID).Str("file", report.File).Str("impactLevel", string(report.ImpactLevel)).Msg("No references found")
		return
	}

	hit := logging.Hit().
		Str("source", string(logging.SourceImpact)).
		Str("file", report.File).
		Str("impactLevel", string(report.ImpactLevel)).
		Int("references", len(report.References)).
		Strs("referencedBy", report.References).
		Bool("safeToDelete", report.SafeToDelete)
	if snapshotID != "" {
		hit = hit.Str("snapshot", snapshotID)
	}
	hit.Msg("IMPACT")
}

// ReportPreview logs one entry per changed file followed by the totals of the
// snapshot identified by snapshotID.
func ReportPreview(preview impact.ChangePreview, snapshotID string) {
	for _, change := range preview.Changes {
		log.Info().
			Str("file", change.File).
			Int("occurrences", change.Occurrences).
			Str("preview", format.SingleLine(change.Preview)).
			Msg("Change")
	}
	withSnapshot(log.Info(), snapshotID).
		Str("search", preview.Search).
		Str("replace", preview.Replace).
		Int("totalFiles", preview.TotalFiles).
		Int("totalOccurrences", preview.TotalOccurrences).
		Msg("Change preview")
}

func withSnapshot(event *zerolog.Event, snapshotID string) *zerolog.Event {
	if snapshotID == "" {
		return event
	}
	return event.Str("snapshot", snapshotID)
}

// ReportValidation reports errors as hits and warnings at warn level.
func ReportValidation(op impact.Operation, target string, result impact.ValidationResult) {
	for _, v := range result.Validations {
		if v.Type == impact.ValidationError {
			logging.Hit().
				Str("source", string(logging.SourceImpact)).
				Str("operation", string(op)).
				Str("target", target).
				Str("type", string(v.Type)).
				Msg(v.Message)
			continue
		}
		log.Warn().Str("operation", string(op)).Str("target", target).Msg(v.Message)
	}
	log.Info().Str("operation", string(op)).Str("target", target).Bool("valid", result.Valid).Msg("Validation done")
}
