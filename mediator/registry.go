package mediator

import (
	"context"
	"fmt"
	"sync"
)

// Registry - это потокобезопасный реестр для управления экземплярами медиаторов.
// Ключом служит имя запроса; для каждого имени хранится ровно один экземпляр.
type Registry struct {
	mediators map[string]any
	mu        sync.RWMutex
}

// NewRegistry создает новый экземпляр реестра медиаторов.
func NewRegistry() *Registry {
	return &Registry{
		mediators: make(map[string]any),
	}
}

// For возвращает строго типизированный экземпляр медиатора для указанного имени запроса.
// Повторный вызов с тем же именем возвращает тот же экземпляр; запрос с тем же
// именем, но другими типами считается конфликтом конфигурации.
func For[R Request[T], T any](r *Registry, requestName string, opts ...Option[R, T]) (IMediator[R, T], error) {
	r.mu.RLock()
	m, exists := r.mediators[requestName]
	r.mu.RUnlock()

	if exists {
		if typed, ok := m.(IMediator[R, T]); ok {
			return typed, nil
		}
		return nil, fmt.Errorf("медиатор для запроса '%s' уже существует с другим типом", requestName)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if m, exists := r.mediators[requestName]; exists {
		if typed, ok := m.(IMediator[R, T]); ok {
			return typed, nil
		}
		return nil, fmt.Errorf("медиатор для запроса '%s' уже существует с другим типом", requestName)
	}

	newMediator, err := New(opts...)
	if err != nil {
		return nil, fmt.Errorf("не удалось создать новый медиатор: %w", err)
	}
	r.mediators[requestName] = newMediator

	return newMediator, nil
}

// Shutdown корректно завершает работу всех зарегистрированных медиаторов.
func (r *Registry) Shutdown(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for name, m := range r.mediators {
		if s, ok := m.(interface{ Shutdown(context.Context) error }); ok {
			if err := s.Shutdown(ctx); err != nil {
				return fmt.Errorf("ошибка при завершении работы медиатора '%s': %w", name, err)
			}
		}
	}

	return nil
}
