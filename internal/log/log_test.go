package log

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]Level{"debug": Debug, "INFO": Info, " warn ": Warn, "error": Error, "": Info} {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got)
	}
	_, err := ParseLevel("loud")
	require.Error(t, err)
}

func TestToSlogLevel(t *testing.T) {
	require.Equal(t, slog.LevelDebug, ToSlogLevel(Debug))
	require.Equal(t, slog.LevelWarn, ToSlogLevel(Warn))
	require.Equal(t, slog.LevelError, ToSlogLevel("bogus"))
}

func TestNewRespectsLevelAndFile(t *testing.T) {
	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), "ns2stats.log")

	logger, closer, err := New(&buf, Warn, path)
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown", slog.Int("games", 3))
	closer()

	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), "shown")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), `"msg":"shown"`)
	require.Contains(t, string(data), `"games":3`)
}

func TestNewBadPath(t *testing.T) {
	_, _, err := New(&bytes.Buffer{}, Info, filepath.Join(t.TempDir(), "missing", "x.log"))
	require.Error(t, err)
}
