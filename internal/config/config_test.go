package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir moves the test into an empty directory so a developer's real
// .fiver.yaml cannot leak into assertions.
func chdir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
	t.Setenv("HOME", dir)
	return dir
}

func TestLoadDefaults(t *testing.T) {
	chdir(t)
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ".fiver", cfg.StorageDir)
	assert.Equal(t, 100, cfg.MaxVersions)
	assert.Equal(t, 32, cfg.Window)
	assert.Equal(t, 32, cfg.MinMatch)
	assert.Equal(t, 65536, cfg.Buckets)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
}

func TestLoadEnvOverrides(t *testing.T) {
	chdir(t)
	t.Setenv("FIVER_STORAGE_DIR", "/tmp/elsewhere")
	t.Setenv("FIVER_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/elsewhere", cfg.StorageDir)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadConfigFile(t *testing.T) {
	dir := chdir(t)
	yaml := "storage:\n  dir: /data/fiver\nengine:\n  window: 64\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".fiver.yaml"), []byte(yaml), 0o644))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/data/fiver", cfg.StorageDir)
	assert.Equal(t, 64, cfg.Window)
	assert.Equal(t, 32, cfg.MinMatch, "unset keys keep defaults")
}

func TestLoadMalformedConfigFile(t *testing.T) {
	dir := chdir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".fiver.yaml"), []byte("storage: [unclosed\n"), 0o644))

	_, err := Load()
	require.Error(t, err)
}
