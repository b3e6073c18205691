package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSlogLogger(t *testing.T) {
	var buf bytes.Buffer
	handler := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	logger := NewSlog(slog.New(handler))

	logger.Debug("debug message", "key", "value")
	logger.Info("info message", "count", 3)
	logger.Warn("warn message")
	logger.Error("error message", "err", "boom")

	out := buf.String()
	require.Contains(t, out, "debug message")
	require.Contains(t, out, "key=value")
	require.Contains(t, out, "info message")
	require.Contains(t, out, "count=3")
	require.Contains(t, out, "warn message")
	require.Contains(t, out, "error message")
	require.Contains(t, out, "err=boom")
}

func TestSlogLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	handler := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn})
	logger := NewSlog(slog.New(handler))

	logger.Debug("hidden debug")
	logger.Info("hidden info")
	logger.Warn("visible warn")

	out := buf.String()
	require.NotContains(t, out, "hidden debug")
	require.NotContains(t, out, "hidden info")
	require.Contains(t, out, "visible warn")
	require.Equal(t, 1, strings.Count(out, "\n"))
}

func TestNopLogger(t *testing.T) {
	logger := NewNop()

	// Must not panic, must not exit.
	logger.Debug("a")
	logger.Info("b", "k", "v")
	logger.Warn("c")
	logger.Error("d")
	logger.Fatal("e")
}
