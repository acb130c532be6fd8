package api

import (
	"fmt"
	"os"
	"strings"
	"time"

	cartapp "github.com/Apurer/go-cart-engine/internal/domains/cart/application"
)

// Store backends accepted by CART_STORE.
const (
	StoreMemory   = "memory"
	StoreFile     = "file"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
)

// Config carries environment-driven settings for the cart API process.
type Config struct {
	Port          string
	Store         string
	StorageKey    string
	FilePath      string
	RedisAddr     string
	PostgresDSN   string
	CatalogAPIURL string
	// OracleTimeout bounds each catalog API call. Zero means no bound.
	OracleTimeout time.Duration
	Environment   string
	OTLPEndpoint  string
	LogLevel      string
}

// LoadConfig reads environment variables, applies defaults, and validates basic constraints.
func LoadConfig() (Config, error) {
	cfg := Config{
		Port:          envDefault("PORT", "8080"),
		Store:         strings.ToLower(envDefault("CART_STORE", StoreMemory)),
		StorageKey:    envDefault("CART_STORAGE_KEY", cartapp.DefaultStorageKey),
		FilePath:      envDefault("CART_FILE_PATH", "./data"),
		RedisAddr:     envDefault("REDIS_ADDR", "localhost:6379"),
		PostgresDSN:   strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
		CatalogAPIURL: envDefault("CATALOG_API_URL", "http://localhost:3333"),
		Environment:   envDefault("ENVIRONMENT", "local"),
		OTLPEndpoint:  strings.TrimSpace(os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")),
		LogLevel:      envDefault("LOG_LEVEL", "info"),
	}
	switch cfg.Store {
	case StoreMemory, StoreFile, StoreRedis:
	case StorePostgres:
		if cfg.PostgresDSN == "" {
			return Config{}, fmt.Errorf("POSTGRES_DSN is required when CART_STORE=postgres")
		}
	default:
		return Config{}, fmt.Errorf("CART_STORE must be one of memory, file, redis, postgres; got %q", cfg.Store)
	}
	if raw := strings.TrimSpace(os.Getenv("ORACLE_TIMEOUT")); raw != "" {
		timeout, err := time.ParseDuration(raw)
		if err != nil || timeout < 0 {
			return Config{}, fmt.Errorf("ORACLE_TIMEOUT must be a non-negative duration such as 3s")
		}
		cfg.OracleTimeout = timeout
	}
	return cfg, nil
}

func envDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}
