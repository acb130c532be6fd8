package api

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	cartcatalogapi "github.com/Apurer/go-cart-engine/internal/domains/cart/adapters/external/catalogapi"
	cartfile "github.com/Apurer/go-cart-engine/internal/domains/cart/adapters/file"
	carthttp "github.com/Apurer/go-cart-engine/internal/domains/cart/adapters/http"
	cartmemory "github.com/Apurer/go-cart-engine/internal/domains/cart/adapters/memory"
	cartnotify "github.com/Apurer/go-cart-engine/internal/domains/cart/adapters/notify"
	cartobs "github.com/Apurer/go-cart-engine/internal/domains/cart/adapters/observability"
	cartpostgres "github.com/Apurer/go-cart-engine/internal/domains/cart/adapters/persistence/postgres"
	cartredis "github.com/Apurer/go-cart-engine/internal/domains/cart/adapters/persistence/redis"
	cartapp "github.com/Apurer/go-cart-engine/internal/domains/cart/application"
	cartdomain "github.com/Apurer/go-cart-engine/internal/domains/cart/domain"
	cartports "github.com/Apurer/go-cart-engine/internal/domains/cart/ports"
	"github.com/Apurer/go-cart-engine/internal/platform/httpserver"
	"github.com/Apurer/go-cart-engine/internal/platform/migrations"
	platformobservability "github.com/Apurer/go-cart-engine/internal/platform/observability"
	platformpostgres "github.com/Apurer/go-cart-engine/internal/platform/postgres"
)

const serviceName = "cart-api"

// Run boots the cart HTTP API and blocks until ctx is cancelled.
func Run(ctx context.Context) error {
	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
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

	store, cleanupStore, err := buildStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer cleanupStore()

	catalog, err := cartcatalogapi.NewClient(cfg.CatalogAPIURL, cartcatalogapi.WithTimeout(cfg.OracleTimeout))
	if err != nil {
		return err
	}
	engine, err := cartapp.NewEngine(ctx, cartapp.Dependencies{
		Stock:    catalog,
		Catalog:  catalog,
		Store:    store,
		Notifier: cartnotify.NewLogger(logger),
	},
		cartapp.WithStorageKey(cfg.StorageKey),
		cartapp.WithLogger(logger),
		cartapp.WithObserver(func(cart cartdomain.Cart) {
			logger.Debug("cart committed", slog.Int("cart.item_count", cart.ItemCount()))
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to restore cart: %w", err)
	}
	service := cartobs.New(engine,
		cartobs.WithLogger(logger),
		cartobs.WithTracer(instruments.Tracer("internal.cart.application")),
		cartobs.WithMeter(instruments.Meter("internal.cart.application")),
	)

	router := httpserver.NewRouter(serviceName)
	carthttp.NewCartAPI(service).Register(router)
	logger.Info("cart API configured",
		slog.String("cart.store", cfg.Store),
		slog.String("cart.key", cfg.StorageKey),
		slog.String("catalog.url", cfg.CatalogAPIURL))
	return httpserver.Serve(ctx, ":"+cfg.Port, router, logger)
}

func buildStore(ctx context.Context, cfg Config, logger *slog.Logger) (cartports.Store, func(), error) {
	switch cfg.Store {
	case StoreFile:
		store, err := cartfile.NewStore(cfg.FilePath)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {}, nil
	case StoreRedis:
		store := cartredis.NewStore(cfg.RedisAddr, logger)
		if err := store.Initialize(ctx, 10); err != nil {
			_ = store.Close()
			return nil, nil, fmt.Errorf("connect redis: %w", err)
		}
		return store, func() { _ = store.Close() }, nil
	case StorePostgres:
		gormDB, err := platformpostgres.Connect(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		migrateErr := migrations.Run(gormDB)
		if sqlDB, err := gormDB.DB(); err == nil {
			_ = sqlDB.Close()
		}
		if migrateErr != nil {
			return nil, nil, fmt.Errorf("migrate postgres: %w", migrateErr)
		}
		db, err := platformpostgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		return cartpostgres.NewStore(db), func() { _ = db.Close() }, nil
	default:
		logger.Warn("CART_STORE=memory, the cart will not survive a restart")
		return cartmemory.NewStore(), func() {}, nil
	}
}
