package compiler_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tinycc.dev/compiler/pkg/compiler"
)

func TestDefaultConfig(t *testing.T) {
	cfg := compiler.DefaultConfig()
	assert.True(t, cfg.Assemble)
	assert.True(t, cfg.Run)
	assert.False(t, cfg.KeepTempFiles)
}

func TestLoadConfigOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tinycc.yaml")
	require.NoError(t, os.WriteFile(path, []byte("assemble: false\nrun: false\nkeep_temp_files: true\n"), 0o644))

	cfg, err := compiler.LoadConfig(path)
	require.NoError(t, err)
	assert.False(t, cfg.Assemble)
	assert.False(t, cfg.Run)
	assert.True(t, cfg.KeepTempFiles)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := compiler.LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
