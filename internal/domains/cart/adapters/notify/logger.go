// Package notify delivers cart messages meant for the shopper.
package notify

import (
	"context"
	"log/slog"

	"github.com/Apurer/go-cart-engine/internal/domains/cart/ports"
)

var _ ports.Notifier = (*Logger)(nil)

// Logger writes shopper-facing messages to slog.
type Logger struct {
	logger *slog.Logger
}

func NewLogger(logger *slog.Logger) *Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Logger{logger: logger.With(slog.String("component", "cart.notifier"))}
}

func (l *Logger) ReportError(ctx context.Context, message string) {
	l.logger.LogAttrs(ctx, slog.LevelWarn, message, slog.String("notification.kind", "error"))
}

func (l *Logger) ReportSuccess(ctx context.Context, message string) {
	l.logger.LogAttrs(ctx, slog.LevelInfo, message, slog.String("notification.kind", "success"))
}
