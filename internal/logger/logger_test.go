package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("WARN"))
	assert.Equal(t, slog.LevelError, ParseLevel(" error "))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "info", "json")

	l.Debug("hidden")
	l.Info("game created", "game_id", 7)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "game created", entry["msg"])
	assert.EqualValues(t, 7, entry["game_id"])
}

func TestNew_Text(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "warn", "text")

	l.Info("hidden")
	l.Warn("deprecated route")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "deprecated route")
}
