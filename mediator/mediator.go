package mediator

import (
	"context"
	"fmt"

	"log/slog"
)

// IMediator определяет основной, строго типизированный интерфейс медиатора.
// Send предназначен для команд (изменение состояния), Query — для идемпотентных
// запросов на чтение; оба метода проводят запрос через одну и ту же цепочку
// поведений и завершаются вызовом зарегистрированного обработчика.
type IMediator[R Request[T], T any] interface {
	Send(ctx context.Context, req R) (T, error)
	Query(ctx context.Context, req R) (T, error)
	Register(handler Handler[R, T]) error
	Shutdown(ctx context.Context) error
}

// mediatorImpl представляет собой реализацию IMediator.
type mediatorImpl[R Request[T], T any] struct {
	provider Provider[R, T]
	cfg      *config[R, T]
}

// New создает новый, готовый к использованию экземпляр медиатора.
func New[R Request[T], T any](opts ...Option[R, T]) (IMediator[R, T], error) {
	cfg := &config[R, T]{
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(cfg)
	}

	provider, err := newLocalProvider(cfg)
	if err != nil {
		return nil, fmt.Errorf("не удалось создать локальный провайдер: %w", err)
	}

	allMiddlewares := []Middleware[R, T]{
		NewLoggingMiddleware[R, T](cfg.logger),
		NewMetricsMiddleware[R, T](cfg.meterProvider),
		NewTracingMiddleware[R, T](cfg.tracerProvider, cfg.propagator),
	}
	allMiddlewares = append(allMiddlewares, cfg.middlewares...)
	wrappedProvider := applyMiddlewares(provider, allMiddlewares...)

	return &mediatorImpl[R, T]{
		provider: wrappedProvider,
		cfg:      cfg,
	}, nil
}

// Register регистрирует обработчик для конкретного типа запроса.
func (m *mediatorImpl[R, T]) Register(handler Handler[R, T]) error {
	return m.provider.Register(handler)
}

// Send проводит команду через цепочку поведений к обработчику.
// Сигнал отмены из ctx передается без изменений через каждое звено цепочки.
func (m *mediatorImpl[R, T]) Send(ctx context.Context, req R) (T, error) {
	return m.provider.Dispatch(ctx, req)
}

// Query проводит запрос на чтение через цепочку поведений к обработчику.
func (m *mediatorImpl[R, T]) Query(ctx context.Context, req R) (T, error) {
	return m.provider.Dispatch(ctx, req)
}

// Shutdown корректно завершает работу медиатора.
func (m *mediatorImpl[R, T]) Shutdown(ctx context.Context) error {
	return m.provider.Shutdown(ctx)
}
