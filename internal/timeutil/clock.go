// Package timeutil отделяет конвейер от настенных часов, чтобы задержки были явными и тестируемыми.
package timeutil

import (
	"context"
	"sync"
	"time"
)

// Clock источник времени и запланированных задержек.
type Clock interface {
	// Now текущее время.
	Now() time.Time

	// Sleep ждёт d или отмены контекста.
	Sleep(ctx context.Context, d time.Duration) error
}

// RealClock часы на основе пакета time.
type RealClock struct{}

// Now возвращает текущее время.
func (RealClock) Now() time.Time {
	return time.Now()
}

// Sleep ждёт d, прерываясь по отмене контекста.
func (RealClock) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// MockClock управляемые вручную часы для тестов. Sleep мгновенно сдвигает время.
type MockClock struct {
	mu     sync.Mutex
	now    time.Time
	sleeps []time.Duration
}

// NewMockClock создаёт часы, выставленные на t.
func NewMockClock(t time.Time) *MockClock {
	return &MockClock{now: t}
}

// Now возвращает текущее время часов.
func (c *MockClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance сдвигает часы вперёд.
func (c *MockClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// Sleep записывает задержку и сдвигает часы.
func (c *MockClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	c.sleeps = append(c.sleeps, d)
	c.now = c.now.Add(d)
	c.mu.Unlock()
	return nil
}

// Sleeps возвращает все запрошенные задержки по порядку.
func (c *MockClock) Sleeps() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]time.Duration, len(c.sleeps))
	copy(out, c.sleeps)
	return out
}
