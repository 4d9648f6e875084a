package capture

import (
	"errors"

	"invisibility-cloak/internal/domain/entity"
	"invisibility-cloak/internal/domain/port"
)

// MultiSink раздаёт кадры нескольким получателям.
type MultiSink []port.DisplaySink

// Show выводит кадр во все получатели по порядку.
func (m MultiSink) Show(window string, frame entity.Frame) {
	for _, s := range m {
		s.Show(window, frame)
	}
}

// Close закрывает все получатели и собирает ошибки.
func (m MultiSink) Close() error {
	var errs []error
	for _, s := range m {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// MultiSignal опрашивает источники по порядку и возвращает первую команду.
type MultiSignal []port.SignalSource

// Poll опрашивает источники, пока не найдётся команда. Первый источник опрашивается
// всегда, поэтому окно OpenCV, которому нужен WaitKey каждый цикл, ставится первым.
func (m MultiSignal) Poll() entity.Signal {
	for _, s := range m {
		if sig := s.Poll(); sig != entity.SignalContinue {
			return sig
		}
	}
	return entity.SignalContinue
}

var (
	_ port.DisplaySink  = MultiSink(nil)
	_ port.SignalSource = MultiSignal(nil)
)
