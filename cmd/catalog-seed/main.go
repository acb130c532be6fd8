package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	catalogpostgres "github.com/Apurer/go-cart-engine/internal/domains/catalog/adapters/persistence/postgres"
	catalogapp "github.com/Apurer/go-cart-engine/internal/domains/catalog/application"
	"github.com/Apurer/go-cart-engine/internal/platform/migrations"
	platformpostgres "github.com/Apurer/go-cart-engine/internal/platform/postgres"
)

// catalog-seed migrates the schema and loads catalog fixtures into PostgreSQL, then exits.
func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	db, err := platformpostgres.Connect(ctx, os.Getenv("POSTGRES_DSN"))
	if err != nil {
		log.Fatalf("cannot seed catalog: %v", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}
	if err := migrations.Run(db); err != nil {
		log.Fatalf("failed to migrate schema: %v", err)
	}

	repo := catalogpostgres.NewRepository(db)
	path := strings.TrimSpace(os.Getenv("CATALOG_SEED"))
	if path == "" {
		err = catalogapp.LoadDefaultFixtures(ctx, repo)
	} else {
		var f *os.File
		if f, err = os.Open(path); err == nil {
			err = catalogapp.LoadFixtures(ctx, repo, f)
			_ = f.Close()
		}
	}
	if err != nil {
		log.Fatalf("failed to seed catalog: %v", err)
	}
	logger.Info("catalog seeded", slog.String("source", path))
}
