package storage

import (
	"context"
	"sort"
	"sync"

	"invisibility-cloak/internal/domain/entity"
	"invisibility-cloak/internal/domain/port"
)

// MemorySubscriberRepository in-memory хранилище подписчиков
type MemorySubscriberRepository struct {
	mu          sync.RWMutex
	subscribers map[int64]*entity.Subscriber
}

// NewMemorySubscriberRepository создаёт новое in-memory хранилище
func NewMemorySubscriberRepository() *MemorySubscriberRepository {
	return &MemorySubscriberRepository{
		subscribers: make(map[int64]*entity.Subscriber),
	}
}

// Get возвращает подписчика по чату, создаёт нового если не найден
func (r *MemorySubscriberRepository) Get(ctx context.Context, chatID, userID int64) (*entity.Subscriber, error) {
	r.mu.RLock()
	sub, exists := r.subscribers[chatID]
	r.mu.RUnlock()

	if exists {
		return sub, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	// пока ждали блокировку, запись мог создать другой обработчик
	if sub, exists := r.subscribers[chatID]; exists {
		return sub, nil
	}
	sub = entity.NewSubscriber(chatID, userID)
	r.subscribers[chatID] = sub
	return sub, nil
}

// Save сохраняет подписчика
func (r *MemorySubscriberRepository) Save(ctx context.Context, sub *entity.Subscriber) error {
	r.mu.Lock()
	r.subscribers[sub.ChatID] = sub
	r.mu.Unlock()

	return nil
}

// SetSubscribed включает или выключает рассылку для чата
func (r *MemorySubscriberRepository) SetSubscribed(ctx context.Context, chatID int64, on bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if sub, exists := r.subscribers[chatID]; exists {
		sub.SetSubscribed(on)
	}

	return nil
}

// ListSubscribed возвращает копии подписанных чатов, упорядоченные по ChatID
func (r *MemorySubscriberRepository) ListSubscribed(ctx context.Context) ([]entity.Subscriber, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]entity.Subscriber, 0, len(r.subscribers))
	for _, sub := range r.subscribers {
		if sub.Subscribed {
			out = append(out, *sub)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ChatID < out[j].ChatID })
	return out, nil
}

// Проверка реализации интерфейса
var _ port.SubscriberRepository = (*MemorySubscriberRepository)(nil)
