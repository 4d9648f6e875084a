//go:build !gocv
// +build !gocv

package vision

import (
	"errors"

	"invisibility-cloak/internal/domain/entity"
)

var errGoCVDisabled = errors.New("gocv build tag is not enabled")

type GoCVMaskBuilder struct {
	OpenIterations   int
	DilateIterations int
}

// NewGoCVMaskBuilder возвращает ошибку, если сборка без тега gocv.
func NewGoCVMaskBuilder() (*GoCVMaskBuilder, error) {
	return nil, errGoCVDisabled
}

// Build возвращает пустую маску, если сборка без тега gocv.
func (b *GoCVMaskBuilder) Build(frame entity.Frame, rng entity.ColorRange) entity.Mask {
	_ = rng
	return entity.NewMask(frame.Width(), frame.Height())
}

// Close ничего не делает без тега gocv.
func (b *GoCVMaskBuilder) Close() error {
	return nil
}

type GoCVCompositor struct{}

// NewGoCVCompositor возвращает ошибку, если сборка без тега gocv.
func NewGoCVCompositor() (*GoCVCompositor, error) {
	return nil, errGoCVDisabled
}

// Composite возвращает ошибку, если сборка без тега gocv.
func (c *GoCVCompositor) Composite(frame entity.Frame, mask entity.Mask, background entity.Frame) (entity.Frame, error) {
	_ = frame
	_ = mask
	_ = background
	return entity.Frame{}, errGoCVDisabled
}
