package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInitJSON(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	Init(&buf, slog.LevelInfo, "json")
	slog.Debug("hidden")
	slog.Info("batch finished", "seed", "https://example.com")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "batch finished", entry["message"])
	require.Equal(t, "INFO", entry["level"])
	require.Contains(t, entry, "timestamp")
	require.Equal(t, "https://example.com", entry["seed"])
}

func TestInitText(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	Init(&buf, slog.LevelDebug, "text")
	slog.Debug("overlay absent", "locator", "css:.x")

	require.Contains(t, buf.String(), "overlay absent")
	require.Contains(t, buf.String(), "css:.x")
}

func TestParseLevel(t *testing.T) {
	require.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	require.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	require.Equal(t, slog.LevelError, ParseLevel("error"))
	require.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}
