package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	goredis "github.com/go-redis/redis/v8"

	"github.com/Apurer/go-cart-engine/internal/domains/cart/ports"
)

// valueField is the hash field holding the serialized value under each key.
const valueField = "cart"

var _ ports.Store = (*Store)(nil)

// Store keeps cart values in Redis hashes.
type Store struct {
	client *goredis.Client
	logger *slog.Logger
}

// NewStore accepts either a redis:// URL or a plain host:port address.
func NewStore(addr string, logger *slog.Logger) *Store {
	opts, err := goredis.ParseURL(addr)
	if err != nil {
		opts = &goredis.Options{
			Addr:         addr,
			MinIdleConns: 1,
			DialTimeout:  10 * time.Second,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 5 * time.Second,
			PoolSize:     10,
		}
	}
	return NewStoreFromClient(goredis.NewClient(opts), logger)
}

func NewStoreFromClient(client *goredis.Client, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{client: client, logger: logger}
}

// Initialize pings Redis until it answers, backing off exponentially up to attempts times.
func (s *Store) Initialize(ctx context.Context, attempts int) error {
	if attempts <= 0 {
		attempts = 1
	}
	for i := 0; i < attempts; i++ {
		err := s.Ping(ctx)
		if err == nil {
			s.logger.Info("redis cart store ready", slog.Int("attempt", i+1))
			return nil
		}
		backoff := time.Duration(250*(1<<uint(i))) * time.Millisecond
		if backoff > 10*time.Second {
			backoff = 10 * time.Second
		}
		s.logger.Warn("redis ping failed",
			slog.Int("attempt", i+1), slog.Duration("backoff", backoff), slog.String("error", err.Error()))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}
	return fmt.Errorf("redis unreachable after %d attempts", attempts)
}

func (s *Store) Ping(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return s.client.Ping(pingCtx).Err()
}

func (s *Store) Read(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := s.client.HGet(ctx, key, valueField).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis HGet %q: %w", key, err)
	}
	return value, true, nil
}

func (s *Store) Write(ctx context.Context, key string, value []byte) error {
	if err := s.client.HSet(ctx, key, valueField, value).Err(); err != nil {
		return fmt.Errorf("redis HSet %q: %w", key, err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.client.Close()
}
