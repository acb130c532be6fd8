package observability

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	cartapp "github.com/Apurer/go-cart-engine/internal/domains/cart/application"
	cartdomain "github.com/Apurer/go-cart-engine/internal/domains/cart/domain"
	cartports "github.com/Apurer/go-cart-engine/internal/domains/cart/ports"
)

const tracerName = "github.com/Apurer/go-cart-engine/internal/domains/cart/adapters/observability/service"

// Service decorates the cart service with tracing, logging, and metrics.
type Service struct {
	inner   cartports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wraps the cart engine.
func New(inner cartports.Service, opts ...Option) cartports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  slog.New(slog.DiscardHandler),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return s
}

func (s *Service) Cart(ctx context.Context) cartdomain.Cart {
	ctx, span := s.tracer.Start(ctx, "CartService.Cart")
	defer span.End()

	cart := s.inner.Cart(ctx)
	span.SetAttributes(attribute.Int("cart.entries", cart.Len()), attribute.Int("cart.item_count", cart.ItemCount()))
	return cart
}

func (s *Service) AddItem(ctx context.Context, productID int64) (cartdomain.Cart, error) {
	opID := uuid.NewString()
	ctx, span := s.tracer.Start(ctx, "CartService.AddItem",
		trace.WithAttributes(attribute.String("cart.operation_id", opID), attribute.Int64("product.id", productID)))
	defer span.End()

	s.logInfo(ctx, "adding product", slog.String("cart.operation_id", opID), slog.Int64("product.id", productID))
	cart, err := s.inner.AddItem(ctx, productID)
	s.metrics.record(ctx, "add", cartapp.Classify(err))
	if err != nil {
		return cart, s.handleError(ctx, span, err, "failed to add product",
			slog.String("cart.operation_id", opID), slog.Int64("product.id", productID))
	}
	s.logInfo(ctx, "product added", slog.String("cart.operation_id", opID), slog.Int64("product.id", productID),
		slog.Int("cart.item_count", cart.ItemCount()))
	return cart, nil
}

func (s *Service) RemoveItem(ctx context.Context, productID int64) (cartdomain.Cart, error) {
	opID := uuid.NewString()
	ctx, span := s.tracer.Start(ctx, "CartService.RemoveItem",
		trace.WithAttributes(attribute.String("cart.operation_id", opID), attribute.Int64("product.id", productID)))
	defer span.End()

	s.logInfo(ctx, "removing product", slog.String("cart.operation_id", opID), slog.Int64("product.id", productID))
	cart, err := s.inner.RemoveItem(ctx, productID)
	s.metrics.record(ctx, "remove", cartapp.Classify(err))
	if err != nil {
		return cart, s.handleError(ctx, span, err, "failed to remove product",
			slog.String("cart.operation_id", opID), slog.Int64("product.id", productID))
	}
	s.logInfo(ctx, "product removed", slog.String("cart.operation_id", opID), slog.Int64("product.id", productID))
	return cart, nil
}

func (s *Service) UpdateAmount(ctx context.Context, input cartports.UpdateAmountInput) (cartdomain.Cart, error) {
	opID := uuid.NewString()
	ctx, span := s.tracer.Start(ctx, "CartService.UpdateAmount",
		trace.WithAttributes(
			attribute.String("cart.operation_id", opID),
			attribute.Int64("product.id", input.ProductID),
			attribute.Int("product.amount", input.Amount),
		))
	defer span.End()

	s.logInfo(ctx, "updating product amount", slog.String("cart.operation_id", opID),
		slog.Int64("product.id", input.ProductID), slog.Int("product.amount", input.Amount))
	cart, err := s.inner.UpdateAmount(ctx, input)
	s.metrics.record(ctx, "update_amount", cartapp.Classify(err))
	if err != nil {
		return cart, s.handleError(ctx, span, err, "failed to update product amount",
			slog.String("cart.operation_id", opID), slog.Int64("product.id", input.ProductID))
	}
	s.logInfo(ctx, "product amount updated", slog.String("cart.operation_id", opID), slog.Int64("product.id", input.ProductID))
	return cart, nil
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logError(ctx context.Context, level slog.Level, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.LogAttrs(ctx, level, msg, attrs...)
}

// handleError only marks the span as failed for dependency errors; rejected requests are expected traffic.
func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	outcome := cartapp.Classify(err)
	attrs = append(attrs, slog.String("cart.outcome", string(outcome)))
	if span != nil {
		span.SetAttributes(attribute.String("cart.outcome", string(outcome)))
		if outcome == cartapp.OutcomeDependencyFailed {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	}
	level := slog.LevelWarn
	if outcome == cartapp.OutcomeDependencyFailed {
		level = slog.LevelError
	}
	s.logError(ctx, level, msg, err, attrs...)
	return err
}

type serviceMetrics struct {
	operations metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	operations, _ := m.Int64Counter("cart.service.operations", metric.WithDescription("Cart mutations by operation and outcome"))
	return serviceMetrics{operations: operations}
}

func (m serviceMetrics) record(ctx context.Context, operation string, outcome cartapp.Outcome) {
	if m.operations != nil {
		m.operations.Add(ctx, 1, metric.WithAttributes(
			attribute.String("cart.operation", operation),
			attribute.String("cart.outcome", string(outcome)),
		))
	}
}

var _ cartports.Service = (*Service)(nil)
