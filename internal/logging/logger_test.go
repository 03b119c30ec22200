package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetState() {
	CloseAll()
	logsDir = ""
	cfg = loggingConfig{}
	logLevel = LevelInfo
}

func TestInitializeWithoutConfigIsSilent(t *testing.T) {
	defer resetState()

	dir := t.TempDir()
	require.NoError(t, Initialize(dir))

	// Production mode: no logs directory, no-op loggers.
	_, err := os.Stat(filepath.Join(dir, "logs"))
	assert.True(t, os.IsNotExist(err))
	assert.False(t, IsCategoryEnabled(CategoryStore))

	// Must not panic.
	Store("store message %d", 1)
	Get(CategoryAPI).Error("boom")
}

func TestInitializeDebugModeWritesFiles(t *testing.T) {
	defer resetState()

	dir := t.TempDir()
	configJSON := `{"logging": {"debug_mode": true, "level": "debug"}}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte(configJSON), 0644))

	require.NoError(t, Initialize(dir))
	assert.True(t, IsCategoryEnabled(CategoryDistribution))

	Distribution("chunk %d persisted", 3)
	CloseAll()

	entries, err := os.ReadDir(filepath.Join(dir, "logs"))
	require.NoError(t, err)
	assert.NotEmpty(t, entries)
}

func TestCategoryFilter(t *testing.T) {
	defer resetState()

	dir := t.TempDir()
	configJSON := `{"logging": {"debug_mode": true, "categories": {"api": false}}}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte(configJSON), 0644))

	require.NoError(t, Initialize(dir))
	assert.False(t, IsCategoryEnabled(CategoryAPI))
	assert.True(t, IsCategoryEnabled(CategoryStore))
}
