// Package cache содержит разделяемые хранилища для поведения кэширования:
// контракт Store и две реализации — внутрипроцессную с TTL и распределенную
// на основе Redis.
package cache

import (
	"context"
	"time"
)

// Store определяет контракт разделяемого хранилища кэша, типизированного
// по типу хранимого значения T.
// Все операции должны быть потокобезопасными; при конкурентной записи
// по одному ключу допускается семантика "последняя запись побеждает".
type Store[T any] interface {
	// Get возвращает значение по ключу. Второй результат сообщает,
	// было ли значение найдено (и не истек ли его срок хранения).
	Get(ctx context.Context, key string) (T, bool, error)

	// Set сохраняет значение по ключу на срок ttl.
	Set(ctx context.Context, key string, value T, ttl time.Duration) error
}
