package port

import (
	"context"

	"invisibility-cloak/internal/domain/entity"
)

// SubscriberRepository интерфейс хранилища подписчиков
type SubscriberRepository interface {
	// Get возвращает подписчика по чату, создаёт нового если не найден
	Get(ctx context.Context, chatID, userID int64) (*entity.Subscriber, error)

	// Save сохраняет подписчика
	Save(ctx context.Context, subscriber *entity.Subscriber) error

	// SetSubscribed включает или выключает рассылку для чата
	SetSubscribed(ctx context.Context, chatID int64, on bool) error

	// ListSubscribed возвращает чаты с включённой рассылкой
	ListSubscribed(ctx context.Context) ([]entity.Subscriber, error)
}
