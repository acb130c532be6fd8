package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Apurer/go-cart-engine/internal/domains/cart/ports"
)

const (
	selectValue = `SELECT value FROM cart_state WHERE key = $1`
	upsertValue = `INSERT INTO cart_state (key, value, updated_at) VALUES ($1, $2, NOW())
ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`
)

var _ ports.Store = (*Store)(nil)

// Store persists cart values in the cart_state table.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Read(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, selectValue, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("select cart state %q: %w", key, err)
	}
	return value, true, nil
}

func (s *Store) Write(ctx context.Context, key string, value []byte) error {
	if _, err := s.db.ExecContext(ctx, upsertValue, key, value); err != nil {
		return fmt.Errorf("upsert cart state %q: %w", key, err)
	}
	return nil
}
