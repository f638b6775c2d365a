package behavior

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"math/rand/v2"
	"time"

	"github.com/x-research-team/mediator-framework/mediator"
)

// Policy определяет закон роста задержки между повторными попытками.
type Policy int

const (
	// PolicyFixed — постоянная задержка: baseDelay.
	PolicyFixed Policy = iota
	// PolicyLinear — линейный рост: baseDelay * (attempt + 1).
	PolicyLinear
	// PolicyExponential — экспоненциальный рост: baseDelay * 2^attempt.
	PolicyExponential
)

// String возвращает имя политики.
func (p Policy) String() string {
	switch p {
	case PolicyFixed:
		return "fixed"
	case PolicyLinear:
		return "linear"
	case PolicyExponential:
		return "exponential"
	default:
		return "unknown"
	}
}

// RetryOptions описывает параметры повторных попыток для запроса.
type RetryOptions struct {
	// MaxAttempts — максимальное число повторных попыток.
	// Суммарно next вызывается не более MaxAttempts+1 раз.
	MaxAttempts int

	// BaseDelay — базовая задержка между попытками.
	BaseDelay time.Duration

	// Policy — закон роста задержки.
	Policy Policy

	// Jitter включает случайное масштабирование задержки в диапазоне [0.5, 1.5).
	Jitter bool

	// ShouldRetry решает, подлежит ли ошибка повтору.
	// Нулевое значение означает "повторять любую ошибку".
	ShouldRetry func(error) bool
}

// maxDelay — потолок вычисленной задержки. Запас в половину диапазона
// оставляет место джиттеру, исключая переполнение после масштабирования.
const maxDelay = time.Duration(math.MaxInt64 / 2)

// Delay вычисляет задержку перед повтором после попытки attempt (нумерация с нуля).
// Функция чистая относительно политики; включенный джиттер масштабирует
// результат случайным коэффициентом из [0.5, 1.5). Результат ограничен
// сверху maxDelay: рост на больших номерах попыток насыщается,
// а не переполняется.
func Delay(policy Policy, attempt int, base time.Duration, jitter bool) time.Duration {
	var d time.Duration
	switch policy {
	case PolicyLinear:
		d = saturatingScale(base, time.Duration(attempt)+1)
	case PolicyExponential:
		shift := uint(attempt)
		if shift > 61 {
			shift = 61
		}
		d = saturatingScale(base, time.Duration(1)<<shift)
	default:
		d = base
	}

	if jitter && d > 0 {
		factor := 0.5 + rand.Float64()
		d = time.Duration(float64(d) * factor)
	}

	return d
}

// saturatingScale умножает базовую задержку на множитель,
// насыщаясь на maxDelay вместо переполнения.
func saturatingScale(base, factor time.Duration) time.Duration {
	if base <= 0 || factor <= 0 {
		return base
	}
	if base > maxDelay/factor {
		return maxDelay
	}
	return base * factor
}

// Retry — это поведение повторных попыток для запросов с возможностью Retryable.
// Последняя возникшая ошибка всегда и есть та, что возвращается вызывающей
// стороне; предыдущие логируются и отбрасываются. Отмена контекста немедленно
// останавливает цикл, не маскируя сигнал отмены.
type Retry[R mediator.Request[T], T any] struct {
	logger *slog.Logger
}

// Retryable определяет возможность повторного выполнения запроса.
type Retryable interface {
	RetryOptions() RetryOptions
}

// NewRetry создает новое поведение повторных попыток.
func NewRetry[R mediator.Request[T], T any](logger *slog.Logger) *Retry[R, T] {
	if logger == nil {
		logger = slog.Default()
	}
	return &Retry[R, T]{logger: logger}
}

// Handle реализует интерфейс mediator.Behavior.
func (b *Retry[R, T]) Handle(ctx context.Context, req R, next mediator.Handler[R, T]) (T, error) {
	r, ok := any(req).(Retryable)
	if !ok {
		return next(ctx, req)
	}

	opts := r.RetryOptions()

	var lastErr error
	for attempt := 0; ; attempt++ {
		result, err := next(ctx, req)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if attempt >= opts.MaxAttempts {
			break
		}
		if !shouldRetry(opts, err) {
			break
		}

		delay := Delay(opts.Policy, attempt, opts.BaseDelay, opts.Jitter)
		b.logger.Warn("попытка выполнения запроса не удалась, повтор",
			slog.Int("attempt", attempt+1),
			slog.Int("max_attempts", opts.MaxAttempts+1),
			slog.Duration("delay", delay),
			slog.Any("error", err),
		)

		if err := wait(ctx, delay); err != nil {
			var zero T
			return zero, err
		}
	}

	var zero T
	return zero, lastErr
}

// shouldRetry решает, подлежит ли ошибка повтору.
// Ошибки валидации и сигналы отмены не повторяются никогда.
func shouldRetry(opts RetryOptions, err error) bool {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if opts.ShouldRetry != nil {
		return opts.ShouldRetry(err)
	}
	return true
}

// wait ожидает истечения задержки, наблюдая за отменой контекста.
func wait(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
