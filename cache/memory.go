package cache

import (
	"context"
	"sync"
	"time"
)

// memoryItem хранит значение вместе со сроком его годности.
type memoryItem[T any] struct {
	value     T
	expiresAt time.Time
}

// Memory — это внутрипроцессная реализация Store на основе карты с TTL.
// Просроченные записи вытесняются лениво при чтении и при перезаписи.
type Memory[T any] struct {
	items map[string]memoryItem[T]
	mu    sync.RWMutex
	now   func() time.Time
}

// NewMemory создает новое пустое внутрипроцессное хранилище.
func NewMemory[T any]() *Memory[T] {
	return &Memory[T]{
		items: make(map[string]memoryItem[T]),
		now:   time.Now,
	}
}

// Get возвращает значение по ключу, если оно существует и не просрочено.
func (m *Memory[T]) Get(ctx context.Context, key string) (T, bool, error) {
	m.mu.RLock()
	item, ok := m.items[key]
	m.mu.RUnlock()

	if !ok {
		var zero T
		return zero, false, nil
	}

	if m.now().After(item.expiresAt) {
		m.mu.Lock()
		// Повторная проверка: запись могла быть перезаписана после RUnlock.
		if current, ok := m.items[key]; ok && m.now().After(current.expiresAt) {
			delete(m.items, key)
		}
		m.mu.Unlock()

		var zero T
		return zero, false, nil
	}

	return item.value, true, nil
}

// Set сохраняет значение по ключу на срок ttl.
func (m *Memory[T]) Set(ctx context.Context, key string, value T, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.items[key] = memoryItem[T]{
		value:     value,
		expiresAt: m.now().Add(ttl),
	}
	return nil
}
