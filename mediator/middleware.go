package mediator

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"github.com/goccy/go-reflect"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const (
	instrumentationName    = "github.com/x-research-team/mediator-framework/mediator"
	instrumentationVersion = "0.1.0"
	metricKeyPrefix        = "mediator."
)

// Middleware определяет интерфейс для middleware медиатора.
// В отличие от Behavior, который работает с возможностями конкретного запроса,
// middleware оборачивает провайдер целиком и несет сквозную инфраструктуру:
// логирование, метрики, трассировку.
type Middleware[R Request[T], T any] interface {
	Wrap(next Provider[R, T]) Provider[R, T]
}

// MiddlewareFunc является адаптером, позволяющим использовать обычные функции как middleware.
type MiddlewareFunc[R Request[T], T any] func(next Provider[R, T]) Provider[R, T]

// Wrap реализует интерфейс Middleware.
func (f MiddlewareFunc[R, T]) Wrap(next Provider[R, T]) Provider[R, T] {
	return f(next)
}

// loggingMiddleware реализует Middleware для логирования операций с запросами.
type loggingMiddleware[R Request[T], T any] struct {
	logger *slog.Logger
}

// NewLoggingMiddleware создает новое middleware для логирования.
func NewLoggingMiddleware[R Request[T], T any](logger *slog.Logger) Middleware[R, T] {
	if logger == nil {
		return &noopMiddleware[R, T]{}
	}
	return &loggingMiddleware[R, T]{
		logger: logger,
	}
}

// Wrap оборачивает провайдер для добавления логирования.
func (m *loggingMiddleware[R, T]) Wrap(next Provider[R, T]) Provider[R, T] {
	return &loggingProvider[R, T]{
		next:   next,
		logger: m.logger,
	}
}

// loggingProvider - это обертка над провайдером, которая добавляет логирование.
type loggingProvider[R Request[T], T any] struct {
	next   Provider[R, T]
	logger *slog.Logger
}

// Dispatch логирует и отправляет запрос.
func (p *loggingProvider[R, T]) Dispatch(ctx context.Context, req R) (result T, err error) {
	reqType, reqID := getRequestTypeAndID(req)
	p.logger.Info("отправка запроса", slog.String("request_type", reqType), slog.String("request_id", reqID))

	startTime := time.Now()
	defer func() {
		duration := time.Since(startTime)
		if err != nil {
			p.logger.Error("ошибка обработки запроса",
				slog.String("request_type", reqType),
				slog.String("request_id", reqID),
				slog.Any("error", err),
				slog.Duration("duration", duration),
			)
			return
		}
		p.logger.Debug("запрос обработан",
			slog.String("request_type", reqType),
			slog.String("request_id", reqID),
			slog.Duration("duration", duration),
		)
	}()

	return p.next.Dispatch(ctx, req)
}

// Register логирует и регистрирует обработчик.
func (p *loggingProvider[R, T]) Register(handler Handler[R, T]) (err error) {
	handlerName := getHandlerName(handler)
	p.logger.Info("регистрация обработчика запроса", slog.String("handler_name", handlerName))
	defer func() {
		if err != nil {
			p.logger.Error("ошибка регистрации обработчика",
				slog.String("handler_name", handlerName),
				slog.Any("error", err),
			)
		}
	}()
	return p.next.Register(handler)
}

// Shutdown делегирует вызов следующему провайдеру в цепочке.
func (p *loggingProvider[R, T]) Shutdown(ctx context.Context) error {
	return p.next.Shutdown(ctx)
}

// metricsMiddleware реализует Middleware для сбора метрик OpenTelemetry.
type metricsMiddleware[R Request[T], T any] struct {
	meter               metric.Meter
	dispatchCounter     metric.Int64Counter
	processDurationHist metric.Float64Histogram
}

// NewMetricsMiddleware создает новое middleware для сбора метрик.
func NewMetricsMiddleware[R Request[T], T any](provider metric.MeterProvider) Middleware[R, T] {
	if provider == nil {
		return &noopMiddleware[R, T]{}
	}

	meter := provider.Meter(instrumentationName)

	dispatchCounter, err := meter.Int64Counter(
		metricKeyPrefix+"dispatch.count",
		metric.WithDescription("Количество отправленных запросов"),
		metric.WithUnit("{requests}"),
	)
	if err != nil {
		panic(fmt.Sprintf("не удалось создать счетчик dispatch.count: %v", err))
	}

	processDurationHist, err := meter.Float64Histogram(
		metricKeyPrefix+"process.duration",
		metric.WithDescription("Длительность обработки запроса"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		panic(fmt.Sprintf("не удалось создать гистограмму process.duration: %v", err))
	}

	return &metricsMiddleware[R, T]{
		meter:               meter,
		dispatchCounter:     dispatchCounter,
		processDurationHist: processDurationHist,
	}
}

// Wrap оборачивает провайдер для добавления сбора метрик.
func (m *metricsMiddleware[R, T]) Wrap(next Provider[R, T]) Provider[R, T] {
	return &metricsProvider[R, T]{
		next:                next,
		dispatchCounter:     m.dispatchCounter,
		processDurationHist: m.processDurationHist,
	}
}

// metricsProvider - это обертка над провайдером, которая собирает метрики.
type metricsProvider[R Request[T], T any] struct {
	next                Provider[R, T]
	dispatchCounter     metric.Int64Counter
	processDurationHist metric.Float64Histogram
}

// Dispatch собирает метрики и отправляет запрос.
func (p *metricsProvider[R, T]) Dispatch(ctx context.Context, req R) (result T, err error) {
	startTime := time.Now()
	result, err = p.next.Dispatch(ctx, req)
	duration := float64(time.Since(startTime).Milliseconds())

	status := "success"
	if err != nil {
		status = "error"
	}
	reqType, _ := getRequestTypeAndID(req)

	p.dispatchCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("request.type", reqType),
		attribute.String("status", status),
	))

	p.processDurationHist.Record(ctx, duration, metric.WithAttributes(
		attribute.String("request.type", reqType),
		attribute.String("status", status),
	))

	return result, err
}

// Register делегирует вызов.
func (p *metricsProvider[R, T]) Register(handler Handler[R, T]) error {
	return p.next.Register(handler)
}

// Shutdown делегирует вызов.
func (p *metricsProvider[R, T]) Shutdown(ctx context.Context) error {
	return p.next.Shutdown(ctx)
}

// tracingMiddleware реализует Middleware для распределенной трассировки OpenTelemetry.
type tracingMiddleware[R Request[T], T any] struct {
	tracer     trace.Tracer
	propagator propagation.TextMapPropagator
}

// NewTracingMiddleware создает новое middleware для трассировки.
func NewTracingMiddleware[R Request[T], T any](tp trace.TracerProvider, p propagation.TextMapPropagator) Middleware[R, T] {
	if tp == nil {
		return &noopMiddleware[R, T]{}
	}

	if p == nil {
		p = propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{})
	}

	return &tracingMiddleware[R, T]{
		tracer: tp.Tracer(
			instrumentationName,
			trace.WithInstrumentationVersion(instrumentationVersion),
		),
		propagator: p,
	}
}

// Wrap оборачивает провайдер для добавления логики трассировки.
func (m *tracingMiddleware[R, T]) Wrap(next Provider[R, T]) Provider[R, T] {
	return &tracingProvider[R, T]{
		next:       next,
		tracer:     m.tracer,
		propagator: m.propagator,
	}
}

// tracingProvider - это обертка над провайдером, которая управляет спанами трассировки.
type tracingProvider[R Request[T], T any] struct {
	next       Provider[R, T]
	tracer     trace.Tracer
	propagator propagation.TextMapPropagator
}

// Dispatch создает спан для отправки запроса и извлекает контекст трассировки.
func (p *tracingProvider[R, T]) Dispatch(ctx context.Context, req R) (result T, err error) {
	if md, ok := (any(req)).(Metadatable); ok {
		ctx = p.propagator.Extract(ctx, propagation.MapCarrier(md.Metadata()))
	}

	reqType, _ := getRequestTypeAndID(req)
	spanName := fmt.Sprintf("%s process", reqType)

	ctx, span := p.tracer.Start(ctx, spanName, trace.WithSpanKind(trace.SpanKindInternal))
	defer func() {
		if err != nil {
			span.RecordError(err)
		}
		span.End()
	}()

	return p.next.Dispatch(ctx, req)
}

// Register оборачивает обработчик для инъекции контекста трассировки в метаданные запроса.
func (p *tracingProvider[R, T]) Register(handler Handler[R, T]) error {
	wrappedHandler := func(ctx context.Context, req R) (T, error) {
		reqType, _ := getRequestTypeAndID(req)
		spanName := fmt.Sprintf("%s handle", reqType)

		ctx, span := p.tracer.Start(ctx, spanName, trace.WithSpanKind(trace.SpanKindInternal))
		defer span.End()

		if md, ok := (any(req)).(Metadatable); ok {
			p.propagator.Inject(ctx, propagation.MapCarrier(md.Metadata()))
		}

		return handler(ctx, req)
	}
	return p.next.Register(wrappedHandler)
}

// Shutdown делегирует вызов.
func (p *tracingProvider[R, T]) Shutdown(ctx context.Context) error {
	return p.next.Shutdown(ctx)
}

// applyMiddlewares применяет цепочку middleware к базовому провайдеру.
func applyMiddlewares[R Request[T], T any](provider Provider[R, T], middlewares ...Middleware[R, T]) Provider[R, T] {
	p := provider
	for i := len(middlewares) - 1; i >= 0; i-- {
		p = middlewares[i].Wrap(p)
	}
	return p
}

// noopMiddleware представляет собой пустое middleware.
type noopMiddleware[R Request[T], T any] struct{}

// Wrap просто возвращает следующий провайдер без изменений.
func (m *noopMiddleware[R, T]) Wrap(next Provider[R, T]) Provider[R, T] {
	return next
}

// getRequestTypeAndID извлекает тип и ID запроса с помощью рефлексии.
func getRequestTypeAndID(req any) (string, string) {
	val := reflect.ValueOf(req)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	reqType := val.Type().Name()
	reqID := "unknown"

	if idField := val.FieldByName("ID"); idField.IsValid() {
		reqID = fmt.Sprintf("%v", idField.Interface())
	}

	return reqType, reqID
}

// getHandlerName извлекает имя обработчика.
func getHandlerName(handler any) string {
	v := reflect.ValueOf(handler)
	if v.Kind() == reflect.Func {
		if pc := v.Pointer(); pc != 0 {
			if f := runtime.FuncForPC(pc); f != nil {
				return f.Name()
			}
		}
	}
	return reflect.TypeOf(handler).String()
}
