//go:build !gocv
// +build !gocv

package capture

import "invisibility-cloak/internal/domain/entity"

type Window struct {
	Title string
}

// NewWindow возвращает ошибку, если сборка без тега gocv.
func NewWindow(title string) (*Window, error) {
	return nil, errGoCVDisabled
}

// Show ничего не делает без тега gocv.
func (w *Window) Show(name string, frame entity.Frame) {
	_ = name
	_ = frame
}

// Poll без тега gocv команд нет.
func (w *Window) Poll() entity.Signal {
	return entity.SignalContinue
}

// Close ничего не делает без тега gocv.
func (w *Window) Close() error {
	return nil
}
