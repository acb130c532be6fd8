package memory

import (
	"context"
	"sync"

	"github.com/Apurer/go-cart-engine/internal/domains/cart/ports"
)

var _ ports.Notifier = (*Notifier)(nil)

// Notifier records every reported message.
type Notifier struct {
	mu        sync.Mutex
	errors    []string
	successes []string
}

func NewNotifier() *Notifier {
	return &Notifier{}
}

func (n *Notifier) ReportError(_ context.Context, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.errors = append(n.errors, message)
}

func (n *Notifier) ReportSuccess(_ context.Context, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.successes = append(n.successes, message)
}

// Errors returns the error messages reported so far.
func (n *Notifier) Errors() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.errors...)
}

// Successes returns the success messages reported so far.
func (n *Notifier) Successes() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.successes...)
}
