package logging

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, LevelFromString(tt.input))
		})
	}
}

func TestSetupWritesJSONToFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "search.log")

	logger, cleanup, err := Setup(Config{
		Level:         "info",
		Format:        "json",
		FilePath:      path,
		MaxSizeMB:     10,
		MaxFiles:      3,
		WriteToStderr: false,
	})
	require.NoError(t, err)

	logger.Info("index rebuilt", "products", 42)
	cleanup()

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(string(data))), &entry))
	assert.Equal(t, "index rebuilt", entry["msg"])
	assert.Equal(t, float64(42), entry["products"])
}

func TestSetupRespectsLevel(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "search.log")

	logger, cleanup, err := Setup(Config{
		Level:         "warn",
		Format:        "json",
		FilePath:      path,
		MaxSizeMB:     10,
		MaxFiles:      3,
		WriteToStderr: false,
	})
	require.NoError(t, err)

	logger.Debug("suppressed")
	logger.Info("suppressed too")
	logger.Warn("kept")
	cleanup()

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	content := string(data)
	assert.NotContains(t, content, "suppressed")
	assert.Contains(t, content, "kept")
}

func TestRotatingWriterRotates(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "search.log")

	// 1 MB max; two writes just over half each force one rotation.
	w, err := NewRotatingWriter(path, 1, 2)
	require.NoError(t, err)
	defer w.Close()

	chunk := strings.Repeat("x", 600*1024)
	_, err = w.Write([]byte(chunk))
	require.NoError(t, err)
	_, err = w.Write([]byte(chunk))
	require.NoError(t, err)

	_, err = os.Stat(path)
	require.NoError(t, err)
	_, err = os.Stat(path + ".1")
	require.NoError(t, err, "rotated file should exist")
}

func TestRotatingWriterDropsOldest(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "search.log")

	w, err := NewRotatingWriter(path, 1, 2)
	require.NoError(t, err)
	defer w.Close()

	chunk := strings.Repeat("x", 600*1024)
	for i := 0; i < 6; i++ {
		_, err := w.Write([]byte(chunk))
		require.NoError(t, err)
	}

	matches, err := filepath.Glob(path + ".*")
	require.NoError(t, err)
	assert.LessOrEqual(t, len(matches), 2, "rotated files beyond maxFiles should be removed")
}
