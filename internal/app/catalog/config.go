package catalog

import (
	"os"
	"strings"
)

// Config carries environment-driven settings for the catalog API process.
type Config struct {
	Port        string
	PostgresDSN string
	// SeedPath points at a {products, stock} JSON document. Empty loads the bundled catalog.
	SeedPath     string
	Environment  string
	OTLPEndpoint string
	LogLevel     string
}

func LoadConfig() Config {
	return Config{
		Port:         envDefault("PORT", "3333"),
		PostgresDSN:  strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
		SeedPath:     strings.TrimSpace(os.Getenv("CATALOG_SEED")),
		Environment:  envDefault("ENVIRONMENT", "local"),
		OTLPEndpoint: strings.TrimSpace(os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")),
		LogLevel:     envDefault("LOG_LEVEL", "info"),
	}
}

func envDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}
