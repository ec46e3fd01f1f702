package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureHits(t *testing.T) *bytes.Buffer {
	t.Helper()
	originalLogger := log.Logger
	t.Cleanup(func() {
		log.Logger = originalLogger
		SetGlobalHitWriter(nil)
	})

	buf := &bytes.Buffer{}
	writer := NewHitLevelWriter(buf)
	log.Logger = zerolog.New(writer).With().Logger()
	SetGlobalHitWriter(writer)
	return buf
}

func TestHit(t *testing.T) {
	buf := captureHits(t)

	Hit().
		Str("kind", "secret").
		Str("label", "aws-access-key").
		Strs("labels", []string{"a", "b"}).
		Int("count", 2).
		Bool("blocked", true).
		Msg("FINDING")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))

	assert.Equal(t, "hit", entry["level"])
	assert.Equal(t, "secret", entry["kind"])
	assert.Equal(t, "aws-access-key", entry["label"])
	assert.Equal(t, []interface{}{"a", "b"}, entry["labels"])
	assert.Equal(t, float64(2), entry["count"])
	assert.Equal(t, true, entry["blocked"])
	assert.Equal(t, "FINDING", entry["message"])
	assert.NotContains(t, entry, hitMarker)
}

func TestHitIgnoresGlobalLevel(t *testing.T) {
	buf := captureHits(t)
	previous := zerolog.GlobalLevel()
	zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	defer zerolog.SetGlobalLevel(previous)

	log.Info().Msg("suppressed")
	Hit().Str("label", "password").Msg("FINDING")

	assert.NotContains(t, buf.String(), "suppressed")
	assert.Contains(t, buf.String(), `"level":"hit"`)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		expected  zerolog.Level
		expectErr bool
	}{
		{name: "hit", input: "hit", expected: HitLevel},
		{name: "debug", input: "debug", expected: zerolog.DebugLevel},
		{name: "warn", input: "warn", expected: zerolog.WarnLevel},
		{name: "invalid", input: "invalid", expected: zerolog.NoLevel, expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			level, err := ParseLevel(tt.input)
			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.expected, level)
		})
	}
}

func TestHitLevelWriter_Write(t *testing.T) {
	tests := []struct {
		name          string
		markAsHit     bool
		input         string
		expectedLevel string
	}{
		{
			name:          "unmarked warn stays warn",
			input:         `{"level":"warn","message":"test"}` + "\n",
			expectedLevel: "warn",
		},
		{
			name:          "marked entry becomes hit",
			markAsHit:     true,
			input:         `{"level":"error","_hit":true,"message":"test"}` + "\n",
			expectedLevel: "hit",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			writer := NewHitLevelWriter(&buf)
			if tt.markAsHit {
				writer.markNextAsHit()
			}

			n, err := writer.Write([]byte(tt.input))
			require.NoError(t, err)
			assert.Equal(t, len(tt.input), n)

			var entry map[string]interface{}
			require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
			assert.Equal(t, tt.expectedLevel, entry["level"])
			assert.NotContains(t, entry, hitMarker)
		})
	}
}

func TestHitLevelWriter_NonJSONPassthrough(t *testing.T) {
	buf := &bytes.Buffer{}
	writer := NewHitLevelWriter(buf)
	writer.markNextAsHit()

	plain := []byte("plain text log\n")
	n, err := writer.Write(plain)

	require.NoError(t, err)
	assert.Equal(t, len(plain), n)
	assert.Equal(t, string(plain), buf.String())
}
