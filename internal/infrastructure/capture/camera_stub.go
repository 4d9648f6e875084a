//go:build !gocv
// +build !gocv

package capture

import (
	"context"
	"errors"

	"invisibility-cloak/internal/domain/entity"
)

var errGoCVDisabled = errors.New("gocv build tag is not enabled")

type Camera struct {
	Device string
}

// NewCamera создаёт камеру-заглушку (без OpenCV).
func NewCamera(device string) *Camera {
	return &Camera{Device: device}
}

// Open возвращает ошибку, если сборка без тега gocv.
func (c *Camera) Open(ctx context.Context) error {
	_ = ctx
	return errGoCVDisabled
}

// Read ничего не читает без тега gocv.
func (c *Camera) Read() (entity.Frame, bool) {
	return entity.Frame{}, false
}

// Close ничего не делает без тега gocv.
func (c *Camera) Close() error {
	return nil
}
