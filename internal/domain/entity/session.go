package entity

import "time"

// SessionState состояние конвейера
type SessionState string

const (
	StateAwaitingBackground  SessionState = "awaiting_background"   // Захват фона
	StateAwaitingColorSample SessionState = "awaiting_color_sample" // Ожидание образца цвета
	StateStreaming           SessionState = "streaming"             // Основной цикл
	StateTerminated          SessionState = "terminated"            // Сессия завершена
)

// Signal команда пользователя, опрашивается раз за цикл
type Signal int

const (
	SignalContinue Signal = iota
	SignalCaptureBackground
	SignalCaptureColor
	SignalExit
)

func (s Signal) String() string {
	switch s {
	case SignalContinue:
		return "continue"
	case SignalCaptureBackground:
		return "capture-background"
	case SignalCaptureColor:
		return "capture-color"
	case SignalExit:
		return "exit"
	default:
		return "unknown"
	}
}

// SessionStatus снимок состояния сессии для внешних наблюдателей.
type SessionStatus struct {
	ID              string       `json:"id"`
	State           SessionState `json:"state"`
	StartedAt       time.Time    `json:"started_at"`
	ColorRange      *ColorRange  `json:"color_range,omitempty"`
	FramesProcessed int          `json:"frames_processed"`
	FramesDropped   int          `json:"frames_dropped"`
	Error           string       `json:"error,omitempty"` // причина аварийного завершения
}
