// Package logging emits pipeguard results at a dedicated "hit" log level.
package logging

import (
	"encoding/json"
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Source names where a hit was produced.
type Source string

const (
	SourceContent Source = "content"
	SourceFile    Source = "file"
	SourcePrompt  Source = "prompt"
	SourceCommand Source = "command"
	SourceImpact  Source = "impact"
)

// HitLevel is written as WarnLevel and rewritten to "hit" by HitLevelWriter.
const HitLevel zerolog.Level = zerolog.WarnLevel

const hitMarker = "_hit"

// HitLevelWriter rewrites the level of marked entries to "hit".
type HitLevelWriter struct {
	out       io.Writer
	mu        sync.Mutex
	nextIsHit bool
}

func NewHitLevelWriter(out io.Writer) *HitLevelWriter {
	return &HitLevelWriter{out: out}
}

func (w *HitLevelWriter) Write(p []byte) (n int, err error) {
	w.mu.Lock()
	isHit := w.nextIsHit
	w.nextIsHit = false
	out := w.out
	w.mu.Unlock()

	if !isHit || len(p) == 0 {
		return out.Write(p)
	}

	var entry map[string]interface{}
	if err := json.Unmarshal(p, &entry); err != nil {
		return out.Write(p)
	}
	if entry["level"] == "warn" || entry["level"] == "error" {
		entry["level"] = "hit"
	}
	delete(entry, hitMarker)

	rewritten, err := json.Marshal(entry)
	if err != nil {
		return out.Write(p)
	}
	if _, err := out.Write(append(rewritten, '\n')); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (w *HitLevelWriter) SetOutput(out io.Writer) {
	w.mu.Lock()
	w.out = out
	w.mu.Unlock()
}

func (w *HitLevelWriter) markNextAsHit() {
	w.mu.Lock()
	w.nextIsHit = true
	w.mu.Unlock()
}

// HitEvent is a zerolog event that is printed with level "hit".
type HitEvent struct {
	event  *zerolog.Event
	writer *HitLevelWriter
}

func (h *HitEvent) Str(key, val string) *HitEvent {
	h.event.Str(key, val)
	return h
}

func (h *HitEvent) Strs(key string, vals []string) *HitEvent {
	h.event.Strs(key, vals)
	return h
}

func (h *HitEvent) Int(key string, val int) *HitEvent {
	h.event.Int(key, val)
	return h
}

func (h *HitEvent) Bool(key string, val bool) *HitEvent {
	h.event.Bool(key, val)
	return h
}

func (h *HitEvent) Msg(msg string) {
	if h.writer != nil {
		h.writer.markNextAsHit()
	}
	h.event.Bool(hitMarker, true).Msg(msg)
}

var (
	globalHitWriter   *HitLevelWriter
	globalHitWriterMu sync.Mutex
)

// Hit starts a hit event. Hits are written regardless of the global log level.
func Hit() *HitEvent {
	globalHitWriterMu.Lock()
	if globalHitWriter == nil {
		globalHitWriter = NewHitLevelWriter(os.Stderr)
		log.Logger = zerolog.New(globalHitWriter).With().Timestamp().Logger()
	}
	writer := globalHitWriter
	globalHitWriterMu.Unlock()

	return &HitEvent{
		event:  log.WithLevel(zerolog.ErrorLevel),
		writer: writer,
	}
}

// SetGlobalHitWriter replaces the writer that Hit marks entries on.
func SetGlobalHitWriter(writer *HitLevelWriter) {
	globalHitWriterMu.Lock()
	globalHitWriter = writer
	globalHitWriterMu.Unlock()
}

// ParseLevel is zerolog.ParseLevel with support for "hit".
func ParseLevel(levelStr string) (zerolog.Level, error) {
	if levelStr == "hit" {
		return HitLevel, nil
	}
	return zerolog.ParseLevel(levelStr)
}
