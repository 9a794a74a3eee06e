package fileutils_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fjacquet/ofx-import/internal/fileutils"
)

func TestFileExists(t *testing.T) {
	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "test.txt")
	require.NoError(t, os.WriteFile(testFile, []byte("test"), 0600))

	assert.True(t, fileutils.FileExists(testFile))
	assert.False(t, fileutils.FileExists(filepath.Join(tmpDir, "nonexistent.txt")))
	assert.False(t, fileutils.FileExists(tmpDir))
}

func TestDirectoryExists(t *testing.T) {
	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "test.txt")
	require.NoError(t, os.WriteFile(testFile, []byte("test"), 0600))

	assert.True(t, fileutils.DirectoryExists(tmpDir))
	assert.False(t, fileutils.DirectoryExists(filepath.Join(tmpDir, "nonexistent")))
	assert.False(t, fileutils.DirectoryExists(testFile))
}

func TestEnsureDirectoryExists(t *testing.T) {
	newDir := filepath.Join(t.TempDir(), "new", "nested", "dir")

	require.NoError(t, fileutils.EnsureDirectoryExists(newDir))
	assert.True(t, fileutils.DirectoryExists(newDir))
	require.NoError(t, fileutils.EnsureDirectoryExists(newDir))
}

func TestListFilesWithExtension(t *testing.T) {
	tmpDir := t.TempDir()
	sub := filepath.Join(tmpDir, "2024")
	require.NoError(t, os.MkdirAll(sub, 0750))
	for _, name := range []string{
		filepath.Join(tmpDir, "b.ofx"),
		filepath.Join(tmpDir, "a.OFX"),
		filepath.Join(tmpDir, "notes.txt"),
		filepath.Join(sub, "c.ofx"),
	} {
		require.NoError(t, os.WriteFile(name, []byte("x"), 0600))
	}

	files, err := fileutils.ListFilesWithExtension(tmpDir, ".ofx")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(sub, "c.ofx"),
		filepath.Join(tmpDir, "a.OFX"),
		filepath.Join(tmpDir, "b.ofx"),
	}, files)

	_, err = fileutils.ListFilesWithExtension(filepath.Join(tmpDir, "missing"), ".ofx")
	assert.Error(t, err)
}
