package ports

import "context"

// Store is durable key/value byte storage that survives restarts.
type Store interface {
	// Read returns the value under key. found is false when nothing was stored.
	Read(ctx context.Context, key string) (value []byte, found bool, err error)
	// Write replaces the value under key. A nil error means the value is durable.
	Write(ctx context.Context, key string, value []byte) error
}

// Notifier surfaces user-visible outcomes. Implementations must not block or fail loudly.
type Notifier interface {
	ReportError(ctx context.Context, message string)
	ReportSuccess(ctx context.Context, message string)
}
