package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session")

	cookie, err := loadSession(path)
	require.NoError(t, err)
	assert.Empty(t, cookie)

	require.NoError(t, saveSession(path, "token=abc"))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	cookie, err = loadSession(path)
	require.NoError(t, err)
	assert.Equal(t, "token=abc", cookie)

	require.NoError(t, clearSession(path))
	require.NoError(t, clearSession(path))
}

func TestFormatting(t *testing.T) {
	assert.Equal(t, "-", formatBytes(0))
	assert.Equal(t, "1.5 GB", formatBytes(1_500_000_000))
	assert.Equal(t, "-", formatYear(nil))
	assert.Equal(t, "Ab...", truncate("Abcdefgh", 5))
	assert.Equal(t, "Abc", truncate("Abc", 5))
}
