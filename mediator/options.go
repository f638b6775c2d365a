package mediator

import (
	"log/slog"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// config содержит неэкспортируемую конфигурацию медиатора.
type config[R Request[T], T any] struct {
	logger         *slog.Logger
	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider
	propagator     propagation.TextMapPropagator
	behaviors      []Behavior[R, T]
	middlewares    []Middleware[R, T]
}

// Option определяет тип для функциональных опций, которые изменяют конфигурацию медиатора.
type Option[R Request[T], T any] func(*config[R, T])

// WithLogger возвращает опцию, которая устанавливает логгер медиатора.
func WithLogger[R Request[T], T any](logger *slog.Logger) Option[R, T] {
	return func(c *config[R, T]) {
		c.logger = logger
	}
}

// WithTracerProvider возвращает опцию, которая устанавливает провайдер трассировки.
func WithTracerProvider[R Request[T], T any](provider trace.TracerProvider) Option[R, T] {
	return func(c *config[R, T]) {
		c.tracerProvider = provider
	}
}

// WithMeterProvider возвращает опцию, которая устанавливает провайдер метрик.
func WithMeterProvider[R Request[T], T any](provider metric.MeterProvider) Option[R, T] {
	return func(c *config[R, T]) {
		c.meterProvider = provider
	}
}

// WithPropagator возвращает опцию, которая устанавливает механизм распространения контекста.
func WithPropagator[R Request[T], T any](propagator propagation.TextMapPropagator) Option[R, T] {
	return func(c *config[R, T]) {
		c.propagator = propagator
	}
}

// WithBehavior возвращает опцию, которая добавляет одно или несколько поведений
// в цепочку конвейера. Поведения выполняются в порядке регистрации.
func WithBehavior[R Request[T], T any](b ...Behavior[R, T]) Option[R, T] {
	return func(c *config[R, T]) {
		c.behaviors = append(c.behaviors, b...)
	}
}

// WithMiddleware возвращает опцию, которая добавляет один или несколько middleware
// в цепочку обработки провайдера.
func WithMiddleware[R Request[T], T any](mw ...Middleware[R, T]) Option[R, T] {
	return func(c *config[R, T]) {
		c.middlewares = append(c.middlewares, mw...)
	}
}
