package home

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("with explicit path", func(t *testing.T) {
		dir, err := New("/tmp/test-bookforge")
		require.NoError(t, err)
		require.Equal(t, "/tmp/test-bookforge", dir.Path())
	})

	t.Run("with empty path uses default", func(t *testing.T) {
		dir, err := New("")
		require.NoError(t, err)

		home, _ := os.UserHomeDir()
		require.Equal(t, filepath.Join(home, DefaultDirName), dir.Path())
	})
}

func TestDir_Paths(t *testing.T) {
	dir, _ := New("/tmp/test-bookforge")

	require.Equal(t, "/tmp/test-bookforge/cache", dir.CacheRoot())
	require.Equal(t, "/tmp/test-bookforge/reports", dir.ReportsRoot())
	require.Equal(t, "/tmp/test-bookforge/sources/book-1", dir.SourcesDir("book-1"))
	require.Equal(t, "/tmp/test-bookforge/books/book-1", dir.BooksDir("book-1"))
	require.Equal(t, "/tmp/test-bookforge/config.yaml", dir.ConfigPath())
	require.Equal(t, "/tmp/test-bookforge/overrides.json", dir.OverridesPath())
}

func TestDir_EnsureExists(t *testing.T) {
	tmpDir := t.TempDir()
	bfDir := filepath.Join(tmpDir, "bookforge-test")

	dir, err := New(bfDir)
	require.NoError(t, err)
	require.False(t, dir.Exists(), "directory should not exist before EnsureExists")

	require.NoError(t, dir.EnsureExists())
	require.True(t, dir.Exists())

	for _, sub := range []string{CacheDirName, ReportsDirName, SourcesDirName, BooksDirName} {
		_, err := os.Stat(filepath.Join(bfDir, sub))
		require.NoError(t, err, "%s directory should exist after EnsureExists", sub)
	}
}

func TestDir_ConfigExists(t *testing.T) {
	tmpDir := t.TempDir()
	dir, _ := New(tmpDir)

	require.False(t, dir.ConfigExists(), "config should not exist initially")

	require.NoError(t, os.WriteFile(dir.ConfigPath(), []byte("provider: openai\n"), 0o644))
	require.True(t, dir.ConfigExists())
}
