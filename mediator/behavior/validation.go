// Package behavior содержит встроенные поведения конвейера медиатора:
// валидацию, кэширование, повторные попытки и транзакционную область.
//
// Каждое поведение применяется только к запросам, реализующим соответствующий
// интерфейс-возможность (Validatable, Cacheable, Retryable, Transactional);
// для остальных запросов поведение строго прозрачно и вызывает next ровно один раз.
// Возможность проверяется утверждением типа в начале Handle, а не наследованием:
// тип запроса волен реализовать любое подмножество возможностей.
package behavior

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/x-research-team/mediator-framework/mediator"
)

// Validatable определяет возможность самопроверки запроса.
type Validatable interface {
	Validate() ValidationResult
}

// FieldError описывает одну ошибку валидации: имя поля и сообщение.
type FieldError struct {
	Field   string
	Message string
}

// ValidationResult содержит результат валидации: признак корректности
// и упорядоченный список ошибок по полям. У успешного результата список пуст.
type ValidationResult struct {
	Valid  bool
	Errors []FieldError
}

// Success возвращает успешный результат валидации.
func Success() ValidationResult {
	return ValidationResult{Valid: true}
}

// Failure возвращает неуспешный результат валидации с перечисленными ошибками.
func Failure(errs ...FieldError) ValidationResult {
	return ValidationResult{Valid: false, Errors: errs}
}

// ValidationError — это ошибка, поднимаемая поведением валидации.
// Она несет полный упорядоченный список ошибок по полям и никогда
// не подлежит повторным попыткам.
type ValidationError struct {
	Errors []FieldError
}

// Error реализует интерфейс error.
func (e *ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "запрос не прошел валидацию"
	}
	parts := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		parts = append(parts, fmt.Sprintf("%s: %s", fe.Field, fe.Message))
	}
	return "запрос не прошел валидацию: " + strings.Join(parts, "; ")
}

// Validation — это поведение, проверяющее запрос перед выполнением.
// Невалидный запрос прерывает конвейер: next не вызывается,
// а вызывающей стороне возвращается *ValidationError.
type Validation[R mediator.Request[T], T any] struct {
	logger *slog.Logger
}

// NewValidation создает новое поведение валидации.
func NewValidation[R mediator.Request[T], T any](logger *slog.Logger) *Validation[R, T] {
	if logger == nil {
		logger = slog.Default()
	}
	return &Validation[R, T]{logger: logger}
}

// Handle реализует интерфейс mediator.Behavior.
func (b *Validation[R, T]) Handle(ctx context.Context, req R, next mediator.Handler[R, T]) (T, error) {
	v, ok := any(req).(Validatable)
	if !ok {
		return next(ctx, req)
	}

	result := v.Validate()
	if !result.Valid {
		b.logger.Warn("запрос не прошел валидацию",
			slog.Int("error_count", len(result.Errors)),
		)
		var zero T
		return zero, &ValidationError{Errors: result.Errors}
	}

	return next(ctx, req)
}
