package vision

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/require"

	"invisibility-cloak/internal/domain/entity"
)

func rectMask(w, h, x0, y0, x1, y1 int) entity.Mask {
	m := entity.NewMask(w, h)
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			m.Set(x, y, true)
		}
	}
	return m
}

func TestErodeDilate_SingleStep(t *testing.T) {
	m := rectMask(10, 10, 2, 2, 7, 7)

	eroded := Erode(m, 1)
	require.True(t, eroded.Equal(rectMask(10, 10, 3, 3, 6, 6)))

	dilated := Dilate(m, 1)
	require.True(t, dilated.Equal(rectMask(10, 10, 1, 1, 8, 8)))
}

func TestErode_BorderDoesNotErode(t *testing.T) {
	full := rectMask(6, 6, 0, 0, 6, 6)
	require.True(t, Erode(full, 3).Equal(full))

	corner := rectMask(8, 8, 0, 0, 4, 4)
	require.True(t, Erode(corner, 1).Equal(rectMask(8, 8, 0, 0, 3, 3)))
}

func TestOpen_RemovesSpecksKeepsLargeShapes(t *testing.T) {
	m := rectMask(30, 30, 5, 5, 20, 20)
	m.Set(25, 25, true)
	m.Set(26, 25, true)
	m.Set(1, 28, true)

	opened := Open(m, 2)
	require.True(t, opened.Equal(rectMask(30, 30, 5, 5, 20, 20)))
}

func TestOpen_Idempotent(t *testing.T) {
	m := rectMask(40, 40, 3, 3, 25, 18)
	for _, p := range [][2]int{{30, 30}, {31, 30}, {35, 2}, {10, 35}, {11, 36}} {
		m.Set(p[0], p[1], true)
	}
	// L-образная фигура
	for y := 18; y < 30; y++ {
		for x := 3; x < 10; x++ {
			m.Set(x, y, true)
		}
	}

	once := Open(m, 2)
	twice := Open(once, 2)
	require.True(t, once.Equal(twice))
	require.Greater(t, once.Count(), 0)
}

func TestMaskBuilder_CleansThresholdNoise(t *testing.T) {
	frame := entity.NewUniformFrame(30, 30, gray)
	for y := 8; y < 20; y++ {
		for x := 8; x < 20; x++ {
			frame.SetRGB(x, y, 255, 0, 0)
		}
	}
	frame.SetRGB(25, 3, 255, 0, 0)

	red := entity.ColorRange{Lower: entity.HSV{H: 0, S: 195, V: 195}, Upper: entity.HSV{H: 10, S: 255, V: 255}}

	raw := Threshold(frame, red)
	require.Equal(t, 12*12+1, raw.Count())

	m := NewMaskBuilder().Build(frame, red)
	require.True(t, m.Equal(rectMask(30, 30, 7, 7, 21, 21)))
}

func TestMaskBuilder_NoMatch(t *testing.T) {
	frame := entity.NewUniformFrame(10, 10, gray)
	red := entity.ColorRange{Lower: entity.HSV{H: 0, S: 195, V: 195}, Upper: entity.HSV{H: 10, S: 255, V: 255}}
	require.Equal(t, 0, NewMaskBuilder().Build(frame, red).Count())
}

// Итоговая маска уже открыта: финальное расширение объединяет квадраты 7×7,
// каждый из которых переживает открытие, поэтому повторная очистка её не меняет.
// Само расширение идемпотентным не является.
func TestMaskBuilder_OutputIsFixedPointOfOpening(t *testing.T) {
	frame := entity.NewUniformFrame(30, 30, gray)
	frame.Fill(image.Rect(8, 8, 20, 20), color.RGBA{R: 255, A: 255})
	frame.Fill(image.Rect(0, 24, 6, 30), color.RGBA{R: 255, A: 255}) // в углу кадра
	frame.SetRGB(25, 3, 255, 0, 0)

	red := entity.ColorRange{Lower: entity.HSV{H: 0, S: 195, V: 195}, Upper: entity.HSV{H: 10, S: 255, V: 255}}
	b := NewMaskBuilder()
	built := b.Build(frame, red)

	require.True(t, Open(built, b.OpenIterations).Equal(built))
	require.False(t, Dilate(built, b.DilateIterations).Equal(built))
}
