package port

import (
	"context"
	"time"

	"invisibility-cloak/internal/domain/entity"
)

// Feed то, что конвейер предоставляет стратегии захвата цвета
type Feed interface {
	// Next читает очередной кадр; ok=false означает временный сбой
	Next() (entity.Frame, bool)

	// Exhausted конечный источник отдал все кадры
	Exhausted() bool

	// Show выводит кадр с оверлеем в основное окно
	Show(frame entity.Frame, overlay entity.Overlay)

	// Signal опрашивает пользовательские команды
	Signal() entity.Signal

	// Now текущее время по часам сессии
	Now() time.Time

	// Wait ждёт d по часам сессии
	Wait(ctx context.Context, d time.Duration) error
}

// ColorRangeStrategy способ получить диапазон цвета плаща
type ColorRangeStrategy interface {
	Acquire(ctx context.Context, feed Feed) (entity.ColorRange, error)
}
