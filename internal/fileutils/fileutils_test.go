package fileutils_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fjacquet/techpack-csv/internal/fileutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileExists(t *testing.T) {
	tmpDir := t.TempDir()

	testFile := filepath.Join(tmpDir, "pack.pdf")
	require.NoError(t, os.WriteFile(testFile, []byte("%PDF-1.4"), 0600))

	assert.True(t, fileutils.FileExists(testFile))
	assert.False(t, fileutils.FileExists(filepath.Join(tmpDir, "nonexistent.pdf")))
	assert.False(t, fileutils.FileExists(tmpDir), "directories are not files")
}

func TestDirectoryExists(t *testing.T) {
	tmpDir := t.TempDir()
	file := filepath.Join(tmpDir, "f.txt")
	require.NoError(t, os.WriteFile(file, nil, 0600))

	assert.True(t, fileutils.DirectoryExists(tmpDir))
	assert.False(t, fileutils.DirectoryExists(file))
	assert.False(t, fileutils.DirectoryExists(filepath.Join(tmpDir, "missing")))
}

func TestEnsureDirectoryExists(t *testing.T) {
	nested := filepath.Join(t.TempDir(), "a", "b")

	require.NoError(t, fileutils.EnsureDirectoryExists(nested))
	assert.True(t, fileutils.DirectoryExists(nested))
	require.NoError(t, fileutils.EnsureDirectoryExists(nested), "existing directory is fine")
	require.NoError(t, fileutils.EnsureDirectoryExists("."))
}

func TestCreateFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "records.csv")

	f, err := fileutils.CreateFile(path)
	require.NoError(t, err)
	_, err = f.WriteString("ID\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "ID\n", string(data))
}

func TestListFilesWithExtension(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.pdf", "A.PDF", "notes.txt", "c.pdf.json"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0600))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.pdf"), 0750))

	files, err := fileutils.ListFilesWithExtension(dir, ".pdf")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "A.PDF"), filepath.Join(dir, "b.pdf")}, files)

	_, err = fileutils.ListFilesWithExtension(filepath.Join(dir, "missing"), ".pdf")
	assert.Error(t, err)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("connection reset") }

func TestSpoolToTemp(t *testing.T) {
	path, err := fileutils.SpoolToTemp(strings.NewReader("%PDF-1.7 body"), "techpack-*.pdf")
	require.NoError(t, err)
	defer os.Remove(path)

	assert.True(t, strings.HasSuffix(path, ".pdf"))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.7 body", string(data))

	_, err = fileutils.SpoolToTemp(failingReader{}, "techpack-*.pdf")
	assert.EqualError(t, err, "connection reset")
}
