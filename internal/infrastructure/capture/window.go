//go:build gocv
// +build gocv

package capture

import (
	"log"

	"gocv.io/x/gocv"

	"invisibility-cloak/internal/domain/entity"
	"invisibility-cloak/internal/domain/port"
	"invisibility-cloak/internal/infrastructure/vision"
)

// Window окна OpenCV, принадлежащие одной сессии. Клавиши читаются через WaitKey.
type Window struct {
	Title   string
	windows map[string]*gocv.Window
	order   []string
}

// NewWindow создаёт набор окон; сами окна открываются при первом показе.
func NewWindow(title string) (*Window, error) {
	return &Window{
		Title:   title,
		windows: make(map[string]*gocv.Window),
	}, nil
}

// Show выводит кадр в окно name.
func (w *Window) Show(name string, frame entity.Frame) {
	mat, err := vision.FrameToMat(frame)
	if err != nil {
		log.Printf("Error showing frame in %q: %v", name, err)
		return
	}
	defer mat.Close()

	win, ok := w.windows[name]
	if !ok {
		win = gocv.NewWindow(w.Title + " - " + name)
		w.windows[name] = win
		w.order = append(w.order, name)
	}
	win.IMShow(mat)
}

// Poll прокачивает очередь событий окон и переводит нажатую клавишу в сигнал.
func (w *Window) Poll() entity.Signal {
	if len(w.order) == 0 {
		return entity.SignalContinue
	}
	return KeySignal(w.windows[w.order[0]].WaitKey(1))
}

// Close закрывает все окна.
func (w *Window) Close() error {
	for _, name := range w.order {
		w.windows[name].Close()
	}
	w.windows = make(map[string]*gocv.Window)
	w.order = nil
	return nil
}

var (
	_ port.DisplaySink  = (*Window)(nil)
	_ port.SignalSource = (*Window)(nil)
)
