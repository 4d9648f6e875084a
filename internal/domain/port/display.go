package port

import "invisibility-cloak/internal/domain/entity"

// Имена окон, в которые конвейер выводит кадры.
const (
	WindowOutput     = "output"
	WindowBackground = "background"
	WindowMask       = "mask"
)

// DisplaySink получатель кадров для показа
type DisplaySink interface {
	// Show выводит кадр в именованное окно
	Show(window string, frame entity.Frame)

	// Close закрывает окна и освобождает ресурсы
	Close() error
}

// SignalSource опрашиваемый источник пользовательских команд
type SignalSource interface {
	// Poll не блокируется; SignalContinue означает отсутствие команды
	Poll() entity.Signal
}

// StatusProvider отдаёт текущее состояние сессии
type StatusProvider interface {
	Status() entity.SessionStatus
}
