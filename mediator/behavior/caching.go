package behavior

import (
	"context"
	"log/slog"
	"time"

	"github.com/x-research-team/mediator-framework/cache"
	"github.com/x-research-team/mediator-framework/mediator"
)

// DefaultCacheExpiration — срок хранения по умолчанию, когда запрос его не задал.
const DefaultCacheExpiration = 5 * time.Minute

// Cacheable определяет возможность кэширования ответа на запрос.
// Пустой ключ означает осознанный отказ от кэширования данного запроса.
type Cacheable interface {
	// CacheKey возвращает ключ кэша. Пустая строка отключает кэширование.
	CacheKey() string

	// CacheExpiration возвращает срок хранения ответа.
	// Неположительное значение заменяется на DefaultCacheExpiration.
	CacheExpiration() time.Duration
}

// Caching — это поведение, мемоизирующее ответы в разделяемом хранилище.
// При попадании next не вызывается; при промахе результат next сохраняется
// под ключом запроса. Ошибки хранилища не приводят к ошибке вызова:
// кэширование деградирует до прямого вызова обработчика.
type Caching[R mediator.Request[T], T any] struct {
	store  cache.Store[T]
	logger *slog.Logger
}

// NewCaching создает новое поведение кэширования поверх предоставленного хранилища.
func NewCaching[R mediator.Request[T], T any](store cache.Store[T], logger *slog.Logger) *Caching[R, T] {
	if logger == nil {
		logger = slog.Default()
	}
	return &Caching[R, T]{store: store, logger: logger}
}

// Handle реализует интерфейс mediator.Behavior.
func (b *Caching[R, T]) Handle(ctx context.Context, req R, next mediator.Handler[R, T]) (T, error) {
	c, ok := any(req).(Cacheable)
	if !ok {
		return next(ctx, req)
	}

	key := c.CacheKey()
	if key == "" {
		return next(ctx, req)
	}

	cached, found, err := b.store.Get(ctx, key)
	if err != nil {
		// Сбой чтения трактуется как промах: кэш не должен ронять вызов.
		b.logger.Warn("ошибка чтения из хранилища кэша",
			slog.String("cache_key", key),
			slog.Any("error", err),
		)
	}
	if found {
		b.logger.Debug("ответ получен из кэша", slog.String("cache_key", key))
		return cached, nil
	}

	result, err := next(ctx, req)
	if err != nil {
		return result, err
	}

	ttl := c.CacheExpiration()
	if ttl <= 0 {
		ttl = DefaultCacheExpiration
	}

	if err := b.store.Set(ctx, key, result, ttl); err != nil {
		b.logger.Warn("ошибка записи в хранилище кэша",
			slog.String("cache_key", key),
			slog.Any("error", err),
		)
	}

	return result, nil
}
