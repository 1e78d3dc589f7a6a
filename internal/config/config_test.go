package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points the user config dir at a temp dir so the real
// ~/.config/focusflow is never read.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)
	return dir
}

func TestLoadDefaultsWhenNoFile(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)

	want := DefaultDataDir()
	assert.Equal(t, want, cfg.DataDir)
	assert.Equal(t, filepath.Join(want, "focusflow.db"), cfg.DBPath)
	assert.Equal(t, filepath.Join(want, "focusflow.log"), cfg.Log.File)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, OutputFile, cfg.Log.Output)
	assert.Equal(t, 8*time.Second, cfg.Suggest.Timeout)
	assert.Empty(t, cfg.Suggest.Endpoint)
	assert.Empty(t, cfg.Sound.Command)
}

func TestLoadExplicitMissingFile(t *testing.T) {
	isolate(t)
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
data_dir: /tmp/ff
log:
  level: debug
  output: stderr
suggest:
  endpoint: http://localhost:9000/suggest
  timeout: 3s
sound:
  command: paplay
  work_file: /tmp/work.wav
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/ff", cfg.DataDir)
	assert.Equal(t, filepath.Join("/tmp/ff", "focusflow.db"), cfg.DBPath, "db path derives from data_dir")
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, OutputStderr, cfg.Log.Output)
	assert.Equal(t, "http://localhost:9000/suggest", cfg.Suggest.Endpoint)
	assert.Equal(t, 3*time.Second, cfg.Suggest.Timeout)
	assert.Equal(t, "paplay", cfg.Sound.Command)
	assert.Equal(t, "/tmp/work.wav", cfg.Sound.WorkFile)
	assert.Empty(t, cfg.Sound.BreakFile)
}

func TestLoadMalformedFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log: [unterminated"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadEnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("FOCUSFLOW_SUGGEST_ENDPOINT", "http://env.example/suggest")
	t.Setenv("FOCUSFLOW_LOG_LEVEL", "warn")
	t.Setenv("FOCUSFLOW_DB_PATH", "/tmp/env.db")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "http://env.example/suggest", cfg.Suggest.Endpoint)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "/tmp/env.db", cfg.DBPath)
}

func TestWriteDefault(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "nested", "config.yaml")

	require.NoError(t, WriteDefault(path, false))
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default().DBPath, cfg.DBPath)
	assert.Equal(t, 8*time.Second, cfg.Suggest.Timeout)

	err = WriteDefault(path, false)
	assert.Error(t, err, "existing file needs force")
	assert.NoError(t, WriteDefault(path, true))
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{" error ", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLevel(tt.in), tt.in)
	}
}

func TestSetupLoggingFile(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	path := filepath.Join(t.TempDir(), "logs", "focusflow.log")
	closer, err := SetupLogging(LogConfig{Level: "debug", Output: OutputFile, File: path})
	require.NoError(t, err)

	slog.Debug("hello from test", "k", "v")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello from test")
	assert.Contains(t, string(data), "k=v")
}

func TestSetupLoggingLevelFilters(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	path := filepath.Join(t.TempDir(), "focusflow.log")
	closer, err := SetupLogging(LogConfig{Level: "error", File: path})
	require.NoError(t, err)

	slog.Info("should be dropped")
	slog.Error("kept")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "should be dropped")
	assert.Contains(t, string(data), "kept")
}
