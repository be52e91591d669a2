package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xolan/lookback/internal/config"
	"github.com/xolan/lookback/internal/storage"
	"github.com/xolan/lookback/internal/store"
)

func TestNewWithConfig(t *testing.T) {
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.DataDir = filepath.Join(dir, "data")
	cfg.SeedSamples = false
	cfg.Timezone = "UTC"

	a, err := NewWithConfig(cfg, filepath.Join(dir, config.ConfigFile), nil)
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, filepath.Join(dir, "data", storage.ActionsFile), a.StoragePath())
	assert.Equal(t, time.UTC, a.Location)
	assert.Empty(t, a.Store.Actions())
	assert.FileExists(t, a.StoragePath())
}

func TestNewWithConfig_ExtraStoreOptions(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.DataDir = t.TempDir()
	fixed := time.Date(2024, time.January, 2, 3, 4, 5, 0, time.UTC)

	a, err := NewWithConfig(cfg, "", nil, store.WithClock(func() time.Time { return fixed }))
	require.NoError(t, err)

	actions := a.Store.Actions()
	require.Len(t, actions, 2)
	assert.True(t, actions[1].Entries[0].Timestamp.Equal(fixed.Add(-48*time.Hour)))
}

func TestNewWithConfig_BadTimezone(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.DataDir = t.TempDir()
	cfg.Timezone = "Mars/Olympus"

	_, err := NewWithConfig(cfg, "", nil)
	assert.ErrorContains(t, err, "invalid timezone")
}

func TestNew_ReadsConfigFile(t *testing.T) {
	dir := t.TempDir()
	dataDir := filepath.Join(dir, "journal")
	configPath := filepath.Join(dir, config.ConfigFile)
	content := "data_dir = \"" + filepath.ToSlash(dataDir) + "\"\nseed_samples = false\nbackup_count = 0\nlog_file = \"" + filepath.ToSlash(filepath.Join(dir, "lookback.log")) + "\"\n"
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0o600))

	a, err := New(Options{ConfigPath: configPath})
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, configPath, a.ConfigPath)
	assert.Equal(t, 0, a.Config.BackupCount)
	assert.False(t, a.Config.SeedSamples)
	assert.Equal(t, filepath.Join(dataDir, storage.ActionsFile), a.StoragePath())
	assert.Empty(t, a.Store.Actions())
}

func TestNew_DataDirOverride(t *testing.T) {
	dir := t.TempDir()
	override := filepath.Join(dir, "override")

	a, err := New(Options{
		ConfigPath: filepath.Join(dir, "missing.toml"),
		DataDir:    override,
	})
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, override, a.Config.DataDir)
	assert.Equal(t, filepath.Join(override, storage.ActionsFile), a.StoragePath())
	assert.Len(t, a.Store.Actions(), 2, "default config seeds samples")
}

func TestNew_InvalidConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), config.ConfigFile)
	require.NoError(t, os.WriteFile(configPath, []byte("backup_count = 99\n"), 0o600))

	_, err := New(Options{ConfigPath: configPath})
	assert.ErrorContains(t, err, "backup_count")
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, config.ConfigFile)

	cfg, path, err := LoadConfig(Options{ConfigPath: configPath, DataDir: dir})
	require.NoError(t, err)
	assert.Equal(t, configPath, path)
	assert.Equal(t, dir, cfg.DataDir)
	assert.Equal(t, config.DefaultConfig().BackupCount, cfg.BackupCount)
}
