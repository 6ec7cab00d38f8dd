package archive

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func readEntry(t *testing.T, zr *zip.ReadCloser, name string) string {
	t.Helper()
	for _, f := range zr.File {
		if f.Name == name {
			rc, err := f.Open()
			require.NoError(t, err)
			defer rc.Close()
			data, err := io.ReadAll(rc)
			require.NoError(t, err)
			return string(data)
		}
	}
	t.Fatalf("entry %q not found in archive", name)
	return ""
}

func TestPackDir(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "image1.tiff"), "pixels-1")
	writeFile(t, filepath.Join(root, "meta", "index.csv"), "well,field\nA,1\n")

	dst := filepath.Join(t.TempDir(), "out.zip")
	n, err := PackDir(root, dst)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	zr, err := zip.OpenReader(dst)
	require.NoError(t, err)
	defer zr.Close()

	assert.Len(t, zr.File, 2)
	assert.Equal(t, "pixels-1", readEntry(t, zr, "image1.tiff"))
	assert.Equal(t, "well,field\nA,1\n", readEntry(t, zr, "meta/index.csv"))
}

func TestPackDir_DeletesSourcesAsPacked(t *testing.T) {
	root := t.TempDir()
	file1 := filepath.Join(root, "a.tiff")
	file2 := filepath.Join(root, "nested", "b.tiff")
	writeFile(t, file1, "a")
	writeFile(t, file2, "b")

	dst := filepath.Join(t.TempDir(), "out.zip")
	_, err := PackDir(root, dst)
	require.NoError(t, err)

	assert.NoFileExists(t, file1)
	assert.NoFileExists(t, file2)
	// Directory skeleton may remain; the files themselves must be gone.
	assert.DirExists(t, root)
}

func TestPackDir_EmptyDir(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "out.zip")
	n, err := PackDir(t.TempDir(), dst)
	require.NoError(t, err)
	assert.Zero(t, n)

	zr, err := zip.OpenReader(dst)
	require.NoError(t, err)
	defer zr.Close()
	assert.Empty(t, zr.File)
}

func TestPackDir_MissingRoot(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "out.zip")
	_, err := PackDir(filepath.Join(t.TempDir(), "absent"), dst)
	assert.Error(t, err)
}
