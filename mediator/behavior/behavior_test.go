package behavior_test

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/x-research-team/mediator-framework/mediator"
	"github.com/x-research-team/mediator-framework/mediator/behavior"
)

// plainRequest — запрос без единой возможности: каждое поведение
// обязано быть для него строго прозрачным.
type plainRequest struct {
	Value string
}

// validatableRequest — запрос с возможностью самопроверки.
type validatableRequest struct {
	Value  string
	result behavior.ValidationResult
}

func (r validatableRequest) Validate() behavior.ValidationResult {
	return r.result
}

// cacheableRequest — запрос с возможностью кэширования.
type cacheableRequest struct {
	Value string
	key   string
	ttl   time.Duration
}

func (r cacheableRequest) CacheKey() string {
	return r.key
}

func (r cacheableRequest) CacheExpiration() time.Duration {
	return r.ttl
}

// retryableRequest — запрос с возможностью повторных попыток.
type retryableRequest struct {
	Value string
	opts  behavior.RetryOptions
}

func (r retryableRequest) RetryOptions() behavior.RetryOptions {
	return r.opts
}

// transactionalRequest — запрос с возможностью транзакционной области.
type transactionalRequest struct {
	Value string
	opts  behavior.TxOptions
}

func (r transactionalRequest) TransactionOptions() behavior.TxOptions {
	return r.opts
}

// countingHandler возвращает обработчик, считающий вызовы
// и делегирующий выполнение fn.
func countingHandler[R mediator.Request[string]](calls *atomic.Int64, fn func(ctx context.Context, req R) (string, error)) mediator.Handler[R, string] {
	return func(ctx context.Context, req R) (string, error) {
		calls.Add(1)
		return fn(ctx, req)
	}
}

// okHandler возвращает обработчик, который всегда успешен.
func okHandler[R mediator.Request[string]](calls *atomic.Int64, result string) mediator.Handler[R, string] {
	return countingHandler(calls, func(ctx context.Context, req R) (string, error) {
		return result, nil
	})
}
