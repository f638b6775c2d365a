package mediator_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/x-research-team/mediator-framework/mediator"
)

// Тестовый запрос с метаданными для проверки распространения контекста трассировки.
type tracedRequest struct {
	Value string
	md    map[string]string
}

func (r tracedRequest) Metadata() map[string]string {
	return r.md
}

// Тест сбора метрик: счетчик отправок и гистограмма длительности.
func TestMetricsMiddleware_RecordsDispatch(t *testing.T) {
	t.Parallel()

	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	m, err := mediator.New(
		mediator.WithMeterProvider[testRequest, string](provider),
	)
	require.NoError(t, err)
	require.NoError(t, m.Register(testRequestHandler))

	_, err = m.Send(context.Background(), testRequest{Value: "metrics"})
	require.NoError(t, err)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm), "Сбор метрик не должен вызывать ошибку")
	require.NotEmpty(t, rm.ScopeMetrics, "Должны быть записаны метрики")

	names := make([]string, 0)
	for _, sm := range rm.ScopeMetrics {
		for _, metric := range sm.Metrics {
			names = append(names, metric.Name)
		}
	}
	assert.Contains(t, names, "mediator.dispatch.count", "Счетчик отправок должен быть записан")
	assert.Contains(t, names, "mediator.process.duration", "Гистограмма длительности должна быть записана")
}

// Тест трассировки: на каждую отправку создается спан, ошибка записывается в него.
func TestTracingMiddleware_RecordsSpan(t *testing.T) {
	t.Parallel()

	exporter := tracetest.NewInMemoryExporter()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))

	handlerErr := errors.New("ошибка обработчика")

	m, err := mediator.New(
		mediator.WithTracerProvider[tracedRequest, string](provider),
	)
	require.NoError(t, err)
	require.NoError(t, m.Register(func(ctx context.Context, req tracedRequest) (string, error) {
		return "", handlerErr
	}))

	_, err = m.Send(context.Background(), tracedRequest{Value: "traced", md: map[string]string{}})
	require.ErrorIs(t, err, handlerErr)

	spans := exporter.GetSpans()
	require.NotEmpty(t, spans, "Должен быть записан хотя бы один спан")

	spanNames := make([]string, 0, len(spans))
	for _, s := range spans {
		spanNames = append(spanNames, s.Name)
	}
	assert.Contains(t, spanNames, "tracedRequest process", "Спан отправки должен носить имя типа запроса")
}

// Тест того, что без провайдеров метрик и трассировки медиатор работает как есть.
func TestMiddleware_NoopWithoutProviders(t *testing.T) {
	t.Parallel()

	m, err := mediator.New[testRequest, string]()
	require.NoError(t, err)
	require.NoError(t, m.Register(testRequestHandler))

	result, err := m.Send(context.Background(), testRequest{Value: "noop"})
	require.NoError(t, err)
	assert.Equal(t, "processed: noop", result)
}
