package picker

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePNG(t *testing.T, dir, name string) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for x := 0; x < 16; x++ {
		for y := 0; y < 16; y++ {
			img.Set(x, y, color.RGBA{uint8(x * 16), uint8(y * 16), 128, 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

func TestPick_ReencodesAsJPEG(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, dir, "cat.png")

	p := New(dir, FixedPath("cat.png"))
	b64, ok, err := p.Pick(context.Background(), DefaultOptions(0.7))
	require.NoError(t, err)
	require.True(t, ok)

	raw, err := base64.StdEncoding.DecodeString(b64)
	require.NoError(t, err)
	img, err := jpeg.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, 16, img.Bounds().Dx())
}

func TestPick_Cancelled(t *testing.T) {
	p := New(t.TempDir(), FixedPath(""))
	b64, ok, err := p.Pick(context.Background(), DefaultOptions(0.7))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, b64)
}

func TestPick_ChooserError(t *testing.T) {
	boom := errors.New("tty closed")
	p := New(t.TempDir(), func(context.Context, string) (string, bool, error) { return "", false, boom })
	_, ok, err := p.Pick(context.Background(), DefaultOptions(0.7))
	assert.ErrorIs(t, err, boom)
	assert.False(t, ok)
}

func TestPick_PathOnly(t *testing.T) {
	dir := t.TempDir()
	path := writePNG(t, dir, "dog.png")

	got, ok, err := New(dir, FixedPath(path)).Pick(context.Background(), Options{MediaType: MediaTypePhoto})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, path, got)
}

func TestPick_RejectsVideo(t *testing.T) {
	_, _, err := New(t.TempDir(), FixedPath("x.mp4")).Pick(context.Background(), Options{MediaType: "video"})
	assert.ErrorIs(t, err, ErrUnsupportedMediaType)
}

func TestPick_NotAnImage(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.jpg"), []byte("hello"), 0o644))

	_, ok, err := New(dir, FixedPath("notes.jpg")).Pick(context.Background(), DefaultOptions(0.7))
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestEncode_QualityAffectsSize(t *testing.T) {
	path := writePNG(t, t.TempDir(), "q.png")

	low, err := Encode(path, 0.1)
	require.NoError(t, err)
	high, err := Encode(path, 1)
	require.NoError(t, err)
	assert.Less(t, len(low), len(high))
}

func TestJPEGQuality(t *testing.T) {
	assert.Equal(t, 70, jpegQuality(0.7))
	assert.Equal(t, 100, jpegQuality(1))
	assert.Equal(t, 1, jpegQuality(0.001))
	assert.Equal(t, jpeg.DefaultQuality, jpegQuality(0))
	assert.Equal(t, jpeg.DefaultQuality, jpegQuality(3))
}

func TestListImages(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, dir, "b.png")
	writePNG(t, dir, "a.png")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("x"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.jpg"), 0o755))

	files, err := ListImages(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.png", "b.png"}, files)

	_, err = ListImages(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}
