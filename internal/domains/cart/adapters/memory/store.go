package memory

import (
	"context"
	"sync"

	"github.com/Apurer/go-cart-engine/internal/domains/cart/ports"
)

var _ ports.Store = (*Store)(nil)

// Store keeps values in process memory. Useful for development and tests.
type Store struct {
	mu     sync.RWMutex
	values map[string][]byte
	writes int
}

func NewStore() *Store {
	return &Store{values: map[string][]byte{}}
}

func (s *Store) Read(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.values[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), value...), true, nil
}

func (s *Store) Write(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = append([]byte(nil), value...)
	s.writes++
	return nil
}

// Writes reports how many writes succeeded.
func (s *Store) Writes() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.writes
}
