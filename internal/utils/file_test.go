package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureParentDir(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "out", "nested", "flower_coords.c")

	require.NoError(t, EnsureParentDir(target))
	info, err := os.Stat(filepath.Dir(target))
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	// Existing directories and bare filenames are fine
	require.NoError(t, EnsureParentDir(target))
	require.NoError(t, EnsureParentDir("flower_coords.c"))
}

func TestFormatFromFilename(t *testing.T) {
	tests := map[string]string{
		"flower_coords.c": "c",
		"flower_coords.h": "c",
		"coords.CSV":      "csv",
		"out/coords.json": "json",
		"no_extension":    "c",
	}
	for name, want := range tests {
		assert.Equal(t, want, FormatFromFilename(name), name)
	}
}

func TestIsPlotFile(t *testing.T) {
	assert.True(t, IsPlotFile("flower_plot.png"))
	assert.True(t, IsPlotFile("plot.JPEG"))
	assert.True(t, IsPlotFile("plot.webp"))
	assert.False(t, IsPlotFile("plot.gif"))
	assert.False(t, IsPlotFile("plot"))
}

func TestFileSize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f.txt")
	require.NoError(t, os.WriteFile(path, []byte("12345"), 0644))

	assert.Equal(t, int64(5), FileSize(path))
	assert.Equal(t, int64(0), FileSize(filepath.Join(t.TempDir(), "missing")))
}

func TestFormatFileSize(t *testing.T) {
	assert.Equal(t, "512 B", FormatFileSize(512))
	assert.Equal(t, "1.5 KB", FormatFileSize(1536))
	assert.Equal(t, "2.0 MB", FormatFileSize(2*1024*1024))
}
