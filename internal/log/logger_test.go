package log

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidqa/vidqa/internal/config"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"debug", "DEBUG"},
		{"info", "INFO"},
		{"WARNING", "WARN"},
		{"error", "ERROR"},
		{"bogus", "INFO"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseLevel(tt.in).String(), "level %q", tt.in)
	}
}

func TestJSONLoggerOutput(t *testing.T) {
	var buf bytes.Buffer
	l := NewLoggerWithWriter(&buf, config.LogFormatJSON, "info")
	l.Info("indexed", "video_id", "dQw4w9WgXcQ")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "indexed", record["msg"])
	assert.Equal(t, "dQw4w9WgXcQ", record["video_id"])
}

func TestWithContextAddsCorrelationID(t *testing.T) {
	var buf bytes.Buffer
	l := NewLoggerWithWriter(&buf, config.LogFormatJSON, "info")

	ctx := WithCorrelationID(context.Background(), "abc-123")
	ctx = WithRequestID(ctx, "req-9")
	l.InfoContext(ctx, "hello")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "abc-123", record["correlation_id"])
	assert.Equal(t, "req-9", record["request_id"])
}

func TestCorrelationIDRoundTrip(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, CorrelationID(ctx))
	ctx = WithCorrelationID(ctx, "xyz")
	assert.Equal(t, "xyz", CorrelationID(ctx))
}

func TestPrettyHandlerLevels(t *testing.T) {
	var buf bytes.Buffer
	l := NewLoggerWithWriter(&buf, config.LogFormatPretty, "warn")
	l.Info("suppressed")
	assert.Empty(t, buf.String())

	l.Warn("kept", "n", 1)
	assert.Contains(t, buf.String(), "kept")
	assert.Contains(t, buf.String(), "n=")
}
