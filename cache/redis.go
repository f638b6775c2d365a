package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// defaultKeyPrefix — префикс ключей в Redis по умолчанию.
const defaultKeyPrefix = "mediator:cache:"

// RedisOption конфигурирует хранилище Redis.
type RedisOption[T any] func(*Redis[T])

// WithKeyPrefix устанавливает префикс, добавляемый ко всем ключам.
func WithKeyPrefix[T any](prefix string) RedisOption[T] {
	return func(r *Redis[T]) {
		r.prefix = prefix
	}
}

// Redis — это реализация Store на основе Redis.
// Значения сериализуются в JSON; это рекомендуемая реализация для
// распределенных развертываний, где кэш разделяется между экземплярами.
type Redis[T any] struct {
	client *redis.Client
	prefix string
}

// NewRedis создает новое хранилище поверх предоставленного клиента Redis.
func NewRedis[T any](client *redis.Client, opts ...RedisOption[T]) *Redis[T] {
	r := &Redis[T]{
		client: client,
		prefix: defaultKeyPrefix,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Get возвращает значение по ключу. Отсутствие ключа не является ошибкой.
func (r *Redis[T]) Get(ctx context.Context, key string) (T, bool, error) {
	var zero T

	payload, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return zero, false, nil
	}
	if err != nil {
		return zero, false, fmt.Errorf("не удалось прочитать значение из redis: %w", err)
	}

	var value T
	if err := json.Unmarshal(payload, &value); err != nil {
		return zero, false, fmt.Errorf("не удалось десериализовать кэшированное значение: %w", err)
	}

	return value, true, nil
}

// Set сохраняет значение по ключу на срок ttl, используя атомарный SET с истечением.
func (r *Redis[T]) Set(ctx context.Context, key string, value T, ttl time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("не удалось сериализовать значение для кэша: %w", err)
	}

	if err := r.client.Set(ctx, r.prefix+key, payload, ttl).Err(); err != nil {
		return fmt.Errorf("не удалось сохранить значение в redis: %w", err)
	}

	return nil
}
