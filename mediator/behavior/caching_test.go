package behavior_test

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/x-research-team/mediator-framework/cache"
	"github.com/x-research-team/mediator-framework/mediator/behavior"
)

// failingStore — хранилище, отвергающее каждую операцию.
type failingStore struct{}

func (failingStore) Get(ctx context.Context, key string) (string, bool, error) {
	return "", false, errors.New("хранилище недоступно")
}

func (failingStore) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	return errors.New("хранилище недоступно")
}

// Тест прозрачности: запрос без возможности проходит нетронутым.
func TestCaching_NoCapability_PassThrough(t *testing.T) {
	t.Parallel()

	b := behavior.NewCaching[plainRequest, string](cache.NewMemory[string](), nil)
	var calls atomic.Int64

	result, err := b.Handle(context.Background(), plainRequest{Value: "x"}, okHandler[plainRequest](&calls, "ok"))

	require.NoError(t, err)
	assert.Equal(t, "ok", result)
	assert.EqualValues(t, 1, calls.Load(), "next должен быть вызван ровно один раз")
}

// Тест мемоизации: второй вызов с тем же ключом возвращает первый результат,
// обработчик вызывается только один раз.
func TestCaching_SameKey_Memoizes(t *testing.T) {
	t.Parallel()

	b := behavior.NewCaching[cacheableRequest, string](cache.NewMemory[string](), nil)
	var calls atomic.Int64

	// Обработчик возвращает разные значения на каждый вызов.
	handler := countingHandler(&calls, func(ctx context.Context, req cacheableRequest) (string, error) {
		return fmt.Sprintf("result-%d", calls.Load()), nil
	})

	req := cacheableRequest{Value: "x", key: "catalog:list"}

	first, err := b.Handle(context.Background(), req, handler)
	require.NoError(t, err)

	second, err := b.Handle(context.Background(), req, handler)
	require.NoError(t, err)

	assert.Equal(t, first, second, "Второй вызов должен вернуть первый (кэшированный) результат")
	assert.EqualValues(t, 1, calls.Load(), "Обработчик должен быть вызван только один раз")
}

// Тест обхода: пустой ключ отключает кэширование, обработчик вызывается каждый раз.
func TestCaching_EmptyKey_Bypasses(t *testing.T) {
	t.Parallel()

	b := behavior.NewCaching[cacheableRequest, string](cache.NewMemory[string](), nil)
	var calls atomic.Int64

	handler := countingHandler(&calls, func(ctx context.Context, req cacheableRequest) (string, error) {
		return fmt.Sprintf("result-%d", calls.Load()), nil
	})

	req := cacheableRequest{Value: "x", key: ""}

	_, err := b.Handle(context.Background(), req, handler)
	require.NoError(t, err)
	_, err = b.Handle(context.Background(), req, handler)
	require.NoError(t, err)

	assert.EqualValues(t, 2, calls.Load(), "С пустым ключом обработчик должен вызываться на каждый вызов")
}

// Тест мягкого отказа: сбой хранилища не роняет вызов.
func TestCaching_StoreFailure_DegradesGracefully(t *testing.T) {
	t.Parallel()

	b := behavior.NewCaching[cacheableRequest, string](failingStore{}, nil)
	var calls atomic.Int64

	req := cacheableRequest{Value: "x", key: "catalog:list"}

	result, err := b.Handle(context.Background(), req, okHandler[cacheableRequest](&calls, "ok"))

	require.NoError(t, err, "Сбой хранилища кэша не должен ронять вызов")
	assert.Equal(t, "ok", result)
	assert.EqualValues(t, 1, calls.Load())
}

// Тест того, что ошибка обработчика не кэшируется.
func TestCaching_HandlerError_NotCached(t *testing.T) {
	t.Parallel()

	b := behavior.NewCaching[cacheableRequest, string](cache.NewMemory[string](), nil)
	var calls atomic.Int64
	handlerErr := errors.New("ошибка хранилища")

	handler := countingHandler(&calls, func(ctx context.Context, req cacheableRequest) (string, error) {
		if calls.Load() == 1 {
			return "", handlerErr
		}
		return "ok", nil
	})

	req := cacheableRequest{Value: "x", key: "catalog:list"}

	_, err := b.Handle(context.Background(), req, handler)
	require.ErrorIs(t, err, handlerErr)

	result, err := b.Handle(context.Background(), req, handler)
	require.NoError(t, err, "После ошибки повторный вызов должен дойти до обработчика")
	assert.Equal(t, "ok", result)
	assert.EqualValues(t, 2, calls.Load())
}
