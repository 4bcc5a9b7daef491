package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "vc author 4.0.exe", cfg.ExeName)
	assert.Equal(t, "XFiles.hdb", cfg.HdbName)
	assert.Equal(t, "X-Files", cfg.RootLabel)
	assert.Equal(t, "VC Authoring Tool -", cfg.MainWindow)
	assert.Equal(t, 5, cfg.MaxAttempts)
}

func TestLoadFillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vcxtract.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`
game_path = "C:/Games/XFiles"
output    = "out.json"
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "C:/Games/XFiles", cfg.GamePath)
	assert.Equal(t, "out.json", cfg.Output)
	assert.Equal(t, "vc author 4.0.exe", cfg.ExeName)
	assert.Equal(t, 5, cfg.MaxAttempts)
}

func TestLoadBadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vcxtract.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`game_path = `), 0o644))
	_, err := Load(path)
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	err := cfg.Validate()
	var se *SetupError
	require.ErrorAs(t, err, &se)

	dir := t.TempDir()
	cfg.GamePath = dir
	require.ErrorAs(t, cfg.Validate(), &se)
	assert.Equal(t, cfg.ExePath(), se.Missing)

	require.NoError(t, os.WriteFile(cfg.ExePath(), nil, 0o644))
	require.NoError(t, os.WriteFile(cfg.HdbPath(), nil, 0o644))
	assert.NoError(t, cfg.Validate())
}
