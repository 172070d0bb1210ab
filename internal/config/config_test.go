package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// allConfigKeys lists every PRDECK_ env var that Load() reads.
var allConfigKeys = []string{
	"PRDECK_EDITOR",
	"PRDECK_DIFF_RENDERER",
	"PRDECK_CACHE_DIR",
	"PRDECK_LOG_FILE",
	"PRDECK_LOG_LEVEL",
}

// isolateConfigEnv saves and unsets all PRDECK_ env vars so tests don't
// inherit values from the host environment. t.Cleanup restores original
// values after the test.
func isolateConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range allConfigKeys {
		if orig, ok := os.LookupEnv(key); ok {
			t.Cleanup(func() { os.Setenv(key, orig) })
		} else {
			t.Cleanup(func() { os.Unsetenv(key) })
		}
		os.Unsetenv(key)
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	isolateConfigEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))

	require.NoError(t, err)
	assert.Equal(t, "builtin", cfg.Diff.Renderer)
	assert.True(t, cfg.Diff.LineNumbers)
	assert.False(t, cfg.Diff.SideBySide)
	assert.Equal(t, "a", cfg.Keybindings.Approve)
	assert.Equal(t, "r", cfg.Keybindings.RequestChanges)
	assert.Equal(t, "c", cfg.Keybindings.Comment)
	assert.False(t, cfg.Review.RequireFeedback)
	assert.Equal(t, Duration(168*time.Hour), cfg.Cache.MaxAge)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Empty(t, cfg.Log.File)
}

func TestLoad_ReadsFile(t *testing.T) {
	isolateConfigEnv(t)
	path := writeConfig(t, `
editor: "code --wait"
diff:
  renderer: delta
  side_by_side: true
  line_numbers: false
keybindings:
  approve: y
  request_changes: n
review:
  require_feedback: true
cache:
  dir: /tmp/prdeck-test
  max_age: 24h
log:
  file: /tmp/prdeck-test/debug.log
  level: debug
`)

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "code --wait", cfg.Editor)
	assert.Equal(t, "delta", cfg.Diff.Renderer)
	assert.True(t, cfg.Diff.SideBySide)
	assert.False(t, cfg.Diff.LineNumbers)
	assert.Equal(t, "y", cfg.Keybindings.Approve)
	assert.Equal(t, "n", cfg.Keybindings.RequestChanges)
	assert.Equal(t, "c", cfg.Keybindings.Comment, "unset binding keeps its default")
	assert.True(t, cfg.Review.RequireFeedback)
	assert.Equal(t, Duration(24*time.Hour), cfg.Cache.MaxAge)
	assert.Equal(t, "debug", cfg.Log.Level)

	db, err := cfg.DBPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/tmp/prdeck-test", "snapshots.db"), db)
}

func TestLoad_MalformedFileFails(t *testing.T) {
	isolateConfigEnv(t)
	path := writeConfig(t, "diff: [not: a: mapping")

	_, err := Load(path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config")
}

func TestLoad_BadDurationFails(t *testing.T) {
	isolateConfigEnv(t)
	path := writeConfig(t, "cache:\n  max_age: soon\n")

	_, err := Load(path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid duration")
}

func TestLoad_UnknownKeysIgnored(t *testing.T) {
	isolateConfigEnv(t)
	path := writeConfig(t, "future_feature: true\ndiff:\n  renderer: delta\n  shiny: yes\n")

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "delta", cfg.Diff.Renderer)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	isolateConfigEnv(t)
	path := writeConfig(t, "editor: nano\ndiff:\n  renderer: delta\n")
	t.Setenv("PRDECK_EDITOR", "vim")
	t.Setenv("PRDECK_DIFF_RENDERER", "builtin")
	t.Setenv("PRDECK_LOG_LEVEL", "warn")

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "vim", cfg.Editor)
	assert.Equal(t, "builtin", cfg.Diff.Renderer)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoad_DuplicateBindingsRejected(t *testing.T) {
	isolateConfigEnv(t)
	path := writeConfig(t, "keybindings:\n  approve: x\n  comment: x\n")

	_, err := Load(path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), `"x"`)
}

func TestWriteDefault(t *testing.T) {
	isolateConfigEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	written, err := WriteDefault(path)
	require.NoError(t, err)
	assert.Equal(t, path, written)

	// The generated file must load back to the defaults.
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	// A second init must not clobber edits.
	_, err = WriteDefault(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}
