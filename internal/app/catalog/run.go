package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	cataloghttp "github.com/Apurer/go-cart-engine/internal/domains/catalog/adapters/http"
	catalogmemory "github.com/Apurer/go-cart-engine/internal/domains/catalog/adapters/memory"
	catalogpostgres "github.com/Apurer/go-cart-engine/internal/domains/catalog/adapters/persistence/postgres"
	catalogapp "github.com/Apurer/go-cart-engine/internal/domains/catalog/application"
	catalogports "github.com/Apurer/go-cart-engine/internal/domains/catalog/ports"
	"github.com/Apurer/go-cart-engine/internal/platform/httpserver"
	"github.com/Apurer/go-cart-engine/internal/platform/migrations"
	platformobservability "github.com/Apurer/go-cart-engine/internal/platform/observability"
	platformpostgres "github.com/Apurer/go-cart-engine/internal/platform/postgres"
)

const serviceName = "catalog-api"

// Run boots the read-only catalog API and blocks until ctx is cancelled.
func Run(ctx context.Context) error {
	cfg := LoadConfig()
	instruments, shutdown, err := platformobservability.Init(ctx, platformobservability.Options{
		ServiceName:  serviceName,
		Environment:  cfg.Environment,
		OTLPEndpoint: cfg.OTLPEndpoint,
		LogLevel:     platformobservability.ParseLevel(cfg.LogLevel),
	})
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	repo, cleanup := buildRepository(ctx, cfg, logger)
	defer cleanup()
	if err := seed(ctx, cfg, repo); err != nil {
		return err
	}

	router := httpserver.NewRouter(serviceName)
	Register(router, catalogapp.NewService(repo))
	return httpserver.Serve(ctx, ":"+cfg.Port, router, logger)
}

// Register mounts the catalog routes; shared with the contract tests.
func Register(r gin.IRouter, service catalogports.Service) {
	cataloghttp.NewCatalogAPI(service).Register(r)
}

func buildRepository(ctx context.Context, cfg Config, logger *slog.Logger) (catalogports.Repository, func()) {
	if cfg.PostgresDSN == "" {
		logger.Warn("POSTGRES_DSN not set, falling back to in-memory catalog")
		return catalogmemory.NewRepository(), func() {}
	}
	db, err := platformpostgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		logger.Warn("failed to connect to postgres, falling back to memory", slog.String("error", err.Error()))
		return catalogmemory.NewRepository(), func() {}
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Warn("failed to unwrap postgres connection, falling back to memory", slog.String("error", err.Error()))
		return catalogmemory.NewRepository(), func() {}
	}
	if err := migrations.Run(db); err != nil {
		logger.Warn("failed to migrate catalog schema, falling back to memory", slog.String("error", err.Error()))
		_ = sqlDB.Close()
		return catalogmemory.NewRepository(), func() {}
	}
	logger.Info("catalog repository configured with postgres")
	return catalogpostgres.NewRepository(db), func() { _ = sqlDB.Close() }
}

func seed(ctx context.Context, cfg Config, repo catalogports.Repository) error {
	if cfg.SeedPath == "" {
		return catalogapp.LoadDefaultFixtures(ctx, repo)
	}
	f, err := os.Open(cfg.SeedPath)
	if err != nil {
		return fmt.Errorf("open catalog seed: %w", err)
	}
	defer f.Close()
	return catalogapp.LoadFixtures(ctx, repo, f)
}
