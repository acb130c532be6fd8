package observability

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	cartmemory "github.com/Apurer/go-cart-engine/internal/domains/cart/adapters/memory"
	cartapp "github.com/Apurer/go-cart-engine/internal/domains/cart/application"
	cartdomain "github.com/Apurer/go-cart-engine/internal/domains/cart/domain"
	cartports "github.com/Apurer/go-cart-engine/internal/domains/cart/ports"
)

type harness struct {
	service cartports.Service
	spans   *tracetest.SpanRecorder
	reader  *sdkmetric.ManualReader
	logs    *bytes.Buffer
}

func newHarness(t *testing.T, stock int) harness {
	t.Helper()
	oracle := cartmemory.NewOracle().Seed(cartdomain.CatalogItem{ID: 1, Name: "Tênis", Price: decimal.NewFromInt(100)}, stock)
	engine, err := cartapp.NewEngine(context.Background(), cartapp.Dependencies{
		Stock:   oracle,
		Catalog: oracle,
		Store:   cartmemory.NewStore(),
	})
	require.NoError(t, err)

	spans := tracetest.NewSpanRecorder()
	reader := sdkmetric.NewManualReader()
	logs := &bytes.Buffer{}
	service := New(engine,
		WithTracer(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spans)).Tracer(tracerName)),
		WithMeter(sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)).Meter(tracerName)),
		WithLogger(slog.New(slog.NewJSONHandler(logs, nil))),
	)
	return harness{service: service, spans: spans, reader: reader, logs: logs}
}

func (h harness) counts(t *testing.T) map[string]int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, h.reader.Collect(context.Background(), &rm))
	out := map[string]int64{}
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			if m.Name != "cart.service.operations" {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			for _, dp := range sum.DataPoints {
				op, _ := dp.Attributes.Value(attribute.Key("cart.operation"))
				outcome, _ := dp.Attributes.Value(attribute.Key("cart.outcome"))
				out[op.AsString()+"/"+outcome.AsString()] += dp.Value
			}
		}
	}
	return out
}

func TestService_CountsOutcomes(t *testing.T) {
	h := newHarness(t, 1)
	ctx := context.Background()

	_, err := h.service.AddItem(ctx, 1)
	require.NoError(t, err)
	_, err = h.service.AddItem(ctx, 1)
	require.ErrorIs(t, err, cartapp.ErrInsufficientStock)
	_, err = h.service.RemoveItem(ctx, 2)
	require.ErrorIs(t, err, cartapp.ErrNotInCart)
	_, err = h.service.UpdateAmount(ctx, cartports.UpdateAmountInput{ProductID: 3, Amount: 1})
	require.ErrorIs(t, err, cartapp.ErrDependency)

	assert.Equal(t, map[string]int64{
		"add/succeeded":                   1,
		"add/validation_failed":           1,
		"remove/not_found":                1,
		"update_amount/dependency_failed": 1,
	}, h.counts(t))
}

func TestService_OnlyDependencyFailuresMarkSpans(t *testing.T) {
	h := newHarness(t, 0)
	ctx := context.Background()

	_, _ = h.service.AddItem(ctx, 1)
	_, _ = h.service.AddItem(ctx, 42)

	ended := h.spans.Ended()
	require.Len(t, ended, 2)
	assert.Equal(t, "CartService.AddItem", ended[0].Name())
	assert.NotEqual(t, codes.Error, ended[0].Status().Code)
	assert.Equal(t, codes.Error, ended[1].Status().Code)

	var opID string
	for _, attr := range ended[0].Attributes() {
		if attr.Key == "cart.operation_id" {
			opID = attr.Value.AsString()
		}
	}
	assert.Len(t, opID, 36)
	assert.Contains(t, h.logs.String(), opID)
}

func TestService_CartPassesThrough(t *testing.T) {
	h := newHarness(t, 3)
	ctx := context.Background()
	_, err := h.service.AddItem(ctx, 1)
	require.NoError(t, err)

	cart := h.service.Cart(ctx)

	assert.Equal(t, 1, cart.ItemCount())
}
