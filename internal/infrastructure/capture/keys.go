package capture

import "invisibility-cloak/internal/domain/entity"

const keyEsc = 27

// KeySignal переводит код клавиши WaitKey в сигнал (b фон, c цвет, q или Esc выход).
func KeySignal(key int) entity.Signal {
	if key < 0 {
		return entity.SignalContinue
	}
	switch key & 0xFF {
	case 'b', 'B':
		return entity.SignalCaptureBackground
	case 'c', 'C':
		return entity.SignalCaptureColor
	case 'q', 'Q', keyEsc:
		return entity.SignalExit
	default:
		return entity.SignalContinue
	}
}
