package vision

import (
	"fmt"

	"invisibility-cloak/internal/domain/entity"
	"invisibility-cloak/internal/domain/port"
)

// Compositor подменяет отмеченные маской пиксели пикселями фона.
type Compositor struct{}

// NewCompositor создаёт компоновщик.
func NewCompositor() *Compositor {
	return &Compositor{}
}

// Composite возвращает новый кадр: фон там, где маска отмечена, исходный кадр в остальных местах.
func (c *Compositor) Composite(frame entity.Frame, mask entity.Mask, background entity.Frame) (entity.Frame, error) {
	if err := checkDimensions(frame, mask, background); err != nil {
		return entity.Frame{}, err
	}

	w, h := frame.Width(), frame.Height()
	out := entity.NewFrame(w, h)
	out.Index = frame.Index
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			src := frame
			if mask.At(x, y) {
				src = background
			}
			r, g, b := src.RGB(x, y)
			out.SetRGB(x, y, r, g, b)
		}
	}
	return out, nil
}

func checkDimensions(frame entity.Frame, mask entity.Mask, background entity.Frame) error {
	if !frame.SameSize(background) || mask.Width() != frame.Width() || mask.Height() != frame.Height() {
		return fmt.Errorf("%w: frame %dx%d, mask %dx%d, background %dx%d", entity.ErrDimensionMismatch,
			frame.Width(), frame.Height(), mask.Width(), mask.Height(), background.Width(), background.Height())
	}
	return nil
}

var _ port.Compositor = (*Compositor)(nil)
