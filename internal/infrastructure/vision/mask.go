package vision

import (
	"invisibility-cloak/internal/domain/entity"
	"invisibility-cloak/internal/domain/port"
)

// MaskBuilder строит маску порогом по HSV с морфологической очисткой.
type MaskBuilder struct {
	OpenIterations   int // итерации открытия, убирающего одиночные пятна
	DilateIterations int // итерации финального расширения силуэта
}

// NewMaskBuilder создаёт построитель: открытие 3×3 ×2, затем дилатация 3×3 ×1.
func NewMaskBuilder() *MaskBuilder {
	return &MaskBuilder{OpenIterations: 2, DilateIterations: 1}
}

// Build отмечает пиксели, попавшие в диапазон, и очищает маску.
func (b *MaskBuilder) Build(frame entity.Frame, rng entity.ColorRange) entity.Mask {
	m := Threshold(frame, rng)
	m = Open(m, b.OpenIterations)
	return Dilate(m, b.DilateIterations)
}

// Threshold отмечает пиксели, у которых все каналы HSV лежат в диапазоне включительно.
func Threshold(frame entity.Frame, rng entity.ColorRange) entity.Mask {
	w, h := frame.Width(), frame.Height()
	m := entity.NewMask(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if rng.Contains(pixelHSV(frame, x, y)) {
				m.Set(x, y, true)
			}
		}
	}
	return m
}

var _ port.MaskBuilder = (*MaskBuilder)(nil)
