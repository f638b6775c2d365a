package mediator

import (
	"context"
	"fmt"
	"sync"

	"github.com/goccy/go-reflect"
)

// Provider определяет контракт для сменных механизмов диспетчеризации запросов.
type Provider[R Request[T], T any] interface {
	// Dispatch отправляет запрос на выполнение.
	Dispatch(ctx context.Context, req R) (T, error)

	// Register регистрирует обработчик для запроса.
	Register(handler Handler[R, T]) error

	// Shutdown корректно завершает работу провайдера.
	Shutdown(ctx context.Context) error
}

// localProvider — это локальная, внутрипроцессная реализация провайдера запросов.
type localProvider[R Request[T], T any] struct {
	handler Handler[R, T]
	mu      sync.RWMutex
	cfg     *config[R, T]
}

// newLocalProvider создает новый экземпляр локального провайдера.
func newLocalProvider[R Request[T], T any](cfg *config[R, T]) (*localProvider[R, T], error) {
	return &localProvider[R, T]{
		cfg: cfg,
	}, nil
}

// Dispatch находит и выполняет обработчик для указанного запроса.
func (p *localProvider[R, T]) Dispatch(ctx context.Context, req R) (T, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.handler == nil {
		var zero T
		reqType := reflect.TypeOf(req)
		return zero, fmt.Errorf("запрос '%s': %w", reqType, ErrHandlerNotFound)
	}

	return p.handler(ctx, req)
}

// Register регистрирует обработчик для конкретного типа запроса.
// Обработчик оборачивается цепочкой поведений из конфигурации: поведения
// выполняются в порядке регистрации, последним звеном является сам обработчик.
func (p *localProvider[R, T]) Register(handler Handler[R, T]) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.handler != nil {
		var req R
		reqType := reflect.TypeOf(req)
		return fmt.Errorf("запрос '%s': %w", reqType, ErrHandlerRegistered)
	}

	p.handler = chainBehaviors(handler, p.cfg.behaviors...)
	return nil
}

// Shutdown в данной реализации не выполняет никаких действий.
func (p *localProvider[R, T]) Shutdown(ctx context.Context) error {
	return nil
}

// chainBehaviors составляет из обработчика и списка поведений единую цепочку.
// Первое зарегистрированное поведение становится внешним звеном: делегат next,
// переданный поведению i, вызывает поведение i+1. Порядок является контрактом,
// его изменение меняет семантику конвейера.
func chainBehaviors[R Request[T], T any](handler Handler[R, T], behaviors ...Behavior[R, T]) Handler[R, T] {
	wrapped := handler
	for i := len(behaviors) - 1; i >= 0; i-- {
		b := behaviors[i]
		next := wrapped
		wrapped = func(ctx context.Context, req R) (T, error) {
			return b.Handle(ctx, req, next)
		}
	}
	return wrapped
}
