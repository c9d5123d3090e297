package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/espresso/internal/errors"
)

func TestNewFormatHandler(t *testing.T) {
	tests := []struct {
		name     string
		format   Format
		wantJSON bool
	}{
		{name: "json", format: FormatJSON, wantJSON: true},
		{name: "text", format: FormatText},
		{name: "empty is text", format: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			h, err := NewFormatHandler(&buf, tt.format, slog.LevelInfo)
			require.NoError(t, err)

			slog.New(h).Info("validated", SubjectKey, "gravity_density", "examples", 2)

			var parsed map[string]any
			err = json.Unmarshal(buf.Bytes(), &parsed)
			if tt.wantJSON {
				require.NoError(t, err, buf.String())
				assert.Equal(t, "validated", parsed["msg"])
				assert.Equal(t, "gravity_density", parsed[SubjectKey])
				assert.EqualValues(t, 2, parsed["examples"])
				return
			}
			assert.Error(t, err)
			assert.Contains(t, buf.String(), "INFO  [gravity_density] validated examples=2")
		})
	}

	t.Run("unknown", func(t *testing.T) {
		_, err := NewFormatHandler(&bytes.Buffer{}, Format("yaml"), slog.LevelInfo)
		require.True(t, errors.Is(err, ErrUnknownFormat))
		assert.Contains(t, err.Error(), `"yaml"`)
	})
}

func TestNewFormatHandler_Level(t *testing.T) {
	levels := []slog.Level{LevelTrace, slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError}

	for _, configured := range levels {
		h, err := NewFormatHandler(&bytes.Buffer{}, FormatJSON, configured)
		require.NoError(t, err)
		for _, logged := range levels {
			assert.Equal(t, logged >= configured, h.Enabled(t.Context(), logged),
				"configured %v, logged %v", configured, logged)
		}
	}
}

func TestNewDiscard(t *testing.T) {
	logger := NewDiscard()

	assert.False(t, logger.Enabled(t.Context(), slog.LevelError))
	assert.NotPanics(t, func() {
		logger.Error("optional function failed", "function", "forward")
	})
}

func TestLevelFromVerbosity(t *testing.T) {
	tests := []struct {
		verbosity int
		want      slog.Level
	}{
		{-1, slog.LevelWarn},
		{0, slog.LevelWarn},
		{1, slog.LevelInfo},
		{2, slog.LevelDebug},
		{3, LevelTrace},
		{7, LevelTrace},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, LevelFromVerbosity(tt.verbosity), "verbosity %d", tt.verbosity)
	}
	assert.Less(t, LevelTrace, slog.LevelDebug)
}

func TestForTest(t *testing.T) {
	logger := ForTest(t)

	assert.True(t, logger.Enabled(t.Context(), LevelTrace))
	logger.Log(t.Context(), LevelTrace, "wire frame", "len", 42)
}
