package capture

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writePNG(t *testing.T, path string, c color.RGBA) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 3))
	for y := 0; y < 3; y++ {
		for x := 0; x < 4; x++ {
			img.Set(x, y, c)
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func TestImageDir_ReadsSortedAndFinishes(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "b.png"), color.RGBA{G: 200, A: 255})
	writePNG(t, filepath.Join(dir, "a.png"), color.RGBA{R: 200, A: 255})
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip"), 0o644))

	src := NewImageDir(dir, false)
	require.NoError(t, src.Open(context.Background()))

	f, ok := src.Read()
	require.True(t, ok)
	r, g, _ := f.RGB(0, 0)
	require.Equal(t, uint8(200), r)
	require.Equal(t, uint8(0), g)
	require.Equal(t, 0, f.Index)

	f, ok = src.Read()
	require.True(t, ok)
	_, g, _ = f.RGB(3, 2)
	require.Equal(t, uint8(200), g)
	require.Equal(t, 1, f.Index)

	_, ok = src.Read()
	require.False(t, ok)
	require.True(t, src.Done())
	require.NoError(t, src.Close())
}

func TestImageDir_LoopsAndSkipsBrokenFiles(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "1.png"), color.RGBA{B: 90, A: 255})
	require.NoError(t, os.WriteFile(filepath.Join(dir, "2.png"), []byte("not a png"), 0o644))

	src := NewImageDir(dir, true)
	require.NoError(t, src.Open(context.Background()))

	_, ok := src.Read()
	require.True(t, ok)
	_, ok = src.Read()
	require.False(t, ok)
	require.False(t, src.Done())

	f, ok := src.Read()
	require.True(t, ok)
	require.Equal(t, 1, f.Index)
}

func TestImageDir_EmptyDir(t *testing.T) {
	src := NewImageDir(t.TempDir(), false)
	require.Error(t, src.Open(context.Background()))
}
