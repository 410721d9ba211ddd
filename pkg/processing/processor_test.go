package processing

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/menta2k/contour-trace/pkg/types"
)

// createTestImage creates a gradient test image
func createTestImage(width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{uint8(x * 255 / width), uint8(y * 255 / height), 128, 255})
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestLoadImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flower.png")
	require.NoError(t, os.WriteFile(path, encodePNG(t, createTestImage(64, 48)), 0o644))

	img, err := NewProcessor().LoadImage(path)
	require.NoError(t, err)
	assert.Equal(t, 64, img.Bounds().Dx())
	assert.Equal(t, 48, img.Bounds().Dy())
}

func TestLoadImageMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.png")

	_, err := NewProcessor().LoadImage(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), path)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadImageGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.png")
	require.NoError(t, os.WriteFile(path, []byte("not an image"), 0o644))

	_, err := NewProcessor().LoadImage(path)
	assert.Error(t, err)
}

func TestLoadImageFromURL(t *testing.T) {
	data := encodePNG(t, createTestImage(32, 32))
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/flower.png" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write(data)
	}))
	defer srv.Close()

	p := NewProcessor()

	img, err := p.LoadImageSmart(srv.URL + "/flower.png")
	require.NoError(t, err)
	assert.Equal(t, 32, img.Bounds().Dx())

	_, err = p.LoadImageSmart(srv.URL + "/missing.png")
	assert.Error(t, err)

	_, err = p.LoadImageFromURL("ftp://example.com/flower.png")
	assert.Error(t, err)
}

func TestGetImageInfo(t *testing.T) {
	info := NewProcessor().GetImageInfo(createTestImage(400, 300))
	assert.Equal(t, 400, info.Width)
	assert.Equal(t, 300, info.Height)
	assert.InDelta(t, 4.0/3.0, info.AspectRatio, 1e-9)
}

func TestCropImageToBox(t *testing.T) {
	p := NewProcessor()
	img := createTestImage(200, 100)

	cropped, err := p.CropImageToBox(img, types.Box{X: 0.25, Y: 0.5, W: 0.5, H: 0.5})
	require.NoError(t, err)
	assert.Equal(t, 100, cropped.Bounds().Dx())
	assert.Equal(t, 50, cropped.Bounds().Dy())

	_, err = p.CropImageToBox(img, types.Box{X: 0.5, Y: 0.5, W: 0, H: 0})
	assert.Error(t, err)
}

func TestSaveImage(t *testing.T) {
	p := NewProcessor()
	img := createTestImage(40, 30)
	dir := t.TempDir()

	for _, name := range []string{"plot.png", "plot.jpg", "plot.webp"} {
		path := filepath.Join(dir, name)
		require.NoError(t, p.SaveImage(img, path, 90), name)

		loaded, err := p.LoadImage(path)
		require.NoError(t, err, name)
		assert.Equal(t, 40, loaded.Bounds().Dx(), name)
	}

	assert.Error(t, p.SaveImage(img, filepath.Join(dir, "plot.bmp"), 90))
}

func TestWriteFileReportsErrors(t *testing.T) {
	dir := t.TempDir()

	err := writeFile(filepath.Join(dir, "missing", "plot.webp"), func(io.Writer) error { return nil })
	assert.Error(t, err)

	encodeErr := errors.New("encoder failed")
	err = writeFile(filepath.Join(dir, "plot.webp"), func(io.Writer) error { return encodeErr })
	assert.ErrorIs(t, err, encodeErr)

	path := filepath.Join(dir, "ok.bin")
	require.NoError(t, writeFile(path, func(w io.Writer) error {
		_, err := w.Write([]byte("webp"))
		return err
	}))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "webp", string(data))
}

func TestPrepareImageForModel(t *testing.T) {
	p := NewProcessor()

	encoded, err := p.PrepareImageForModel(createTestImage(800, 400), "png", 200, 85)
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(encoded)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, 200, img.Bounds().Dx())
	assert.Equal(t, 100, img.Bounds().Dy())
}
