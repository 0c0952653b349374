package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmunix/controlroom/internal/config"
)

func TestRunInit_WritesLoadableConfig(t *testing.T) {
	t.Setenv("CONTROLROOM_JWT_SECRET", testSecret)
	t.Setenv("PLEX_TOKEN", "plex-token")
	t.Setenv("PLEX_URL", "")

	path := filepath.Join(t.TempDir(), "conf", "config.toml")
	var out bytes.Buffer
	require.NoError(t, runInit(&out, path, false))
	assert.Contains(t, out.String(), path)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.NotNil(t, cfg.Plex)
	assert.Equal(t, "plex-token", cfg.Plex.Token)
}

func TestRunInit_KeepsExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("# mine\n"), 0600))

	err := runInit(&bytes.Buffer{}, path, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# mine\n", string(data))

	require.NoError(t, runInit(&bytes.Buffer{}, path, true))
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[server]")
}
