package port

import (
	"context"

	"invisibility-cloak/internal/domain/entity"
)

// FrameSource источник кадров (камера, видеофайл, каталог снимков)
type FrameSource interface {
	// Open захватывает устройство; вызывается один раз за сессию
	Open(ctx context.Context) error

	// Read блокируется до следующего кадра. ok=false означает временный сбой, а не закрытие источника
	Read() (frame entity.Frame, ok bool)

	// Close освобождает устройство
	Close() error
}

// FiniteSource источник, у которого кадры могут закончиться (файл без зацикливания)
type FiniteSource interface {
	Done() bool
}
