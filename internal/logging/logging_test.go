package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"WARN", zerolog.WarnLevel},
		{" error ", zerolog.ErrorLevel},
		{"", zerolog.InfoLevel},
		{"bogus", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestNewLogger_JSONWithTraceID(t *testing.T) {
	var buf bytes.Buffer
	logger := ComponentLogger(NewLogger(Config{Level: "debug", Format: FormatJSON}, &buf), "engine")

	ctx := ContextWithTraceID(context.Background(), "01HTESTTRACE")
	logger.Info().Ctx(ctx).Str("gauge", "18").Msg("computed")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "engine", entry["component"])
	assert.Equal(t, "01HTESTTRACE", entry[TraceIDField])
	assert.Equal(t, "18", entry["gauge"])
	assert.Equal(t, "computed", entry["message"])
}

func TestNewLogger_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Config{Level: "warn", Format: FormatJSON}, &buf)
	logger.Info().Msg("hidden")
	assert.Empty(t, buf.String())
	logger.Warn().Msg("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestNewLoggerWithPath(t *testing.T) {
	t.Run("file output", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "logs", "steelcalc.log")
		res := NewLoggerWithPath(Config{Level: "info", Format: FormatJSON, Output: OutputFile, File: path})
		t.Cleanup(func() { _ = res.Close() })

		require.True(t, res.UsingFile)
		assert.False(t, res.FallbackUsed)
		res.Logger.Info().Msg("to file")
		require.NoError(t, res.Close())

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), "to file")
	})

	t.Run("missing file path falls back", func(t *testing.T) {
		res := NewLoggerWithPath(Config{Output: OutputFile})
		assert.False(t, res.UsingFile)
		assert.True(t, res.FallbackUsed)
		assert.NotEmpty(t, res.FallbackReason)
	})

	t.Run("stderr default", func(t *testing.T) {
		res := NewLoggerWithPath(Config{})
		assert.False(t, res.UsingFile)
		assert.False(t, res.FallbackUsed)
		assert.NoError(t, res.Close())
	})
}

func TestTraceIDs(t *testing.T) {
	a := NewTraceID()
	b := NewTraceID()
	assert.Len(t, a, 26)
	assert.NotEqual(t, a, b)
	assert.Less(t, a, b, "monotonic ids sort in creation order")

	ctx := context.Background()
	assert.Empty(t, TraceIDFromContext(ctx))
	assert.Len(t, GetOrGenerateTraceID(ctx), 26)

	ctx = ContextWithTraceID(ctx, a)
	assert.Equal(t, a, GetOrGenerateTraceID(ctx))
}

func TestFromContext(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Config{Format: FormatJSON}, &buf)
	ctx := logger.WithContext(context.Background())

	FromContext(ctx).Info().Msg("via context")
	assert.Contains(t, buf.String(), "via context")

	//nolint:staticcheck // nil context is handled explicitly
	assert.NotNil(t, FromContext(nil))
}

func TestPrintMessages(t *testing.T) {
	var buf bytes.Buffer
	PrintLogPathMessage(&buf, "/tmp/x.log")
	PrintFallbackWarning(&buf, "permission denied")
	assert.Contains(t, buf.String(), "Logging to /tmp/x.log")
	assert.Contains(t, buf.String(), "permission denied")
}
