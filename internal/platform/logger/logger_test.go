package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "json", "info")

	log.Debug("hidden")
	log.Info("role lookup", "user_id", "alice")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "role lookup", entry["msg"])
	assert.Equal(t, "alice", entry["user_id"])
	assert.Equal(t, "INFO", entry["level"])
}

func TestNew_Text(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, "TEXT", "debug").Debug("stripped", "removed", 2)

	assert.Contains(t, buf.String(), "level=DEBUG")
	assert.Contains(t, buf.String(), "removed=2")
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		" error ": slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for input, expected := range tests {
		assert.Equal(t, expected, ParseLevel(input), input)
	}
}
