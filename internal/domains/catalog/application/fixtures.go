package application

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"

	"github.com/shopspring/decimal"

	"github.com/Apurer/go-cart-engine/internal/domains/catalog/domain"
	"github.com/Apurer/go-cart-engine/internal/domains/catalog/ports"
)

//go:embed fixtures/rocketshoes.json
var defaultFixtures []byte

type fixtureFile struct {
	Products []struct {
		ID    int64           `json:"id"`
		Title string          `json:"title"`
		Price decimal.Decimal `json:"price"`
		Image string          `json:"image"`
		Tags  []string        `json:"tags"`
	} `json:"products"`
	Stock []struct {
		ID     int64 `json:"id"`
		Amount int   `json:"amount"`
	} `json:"stock"`
}

// LoadFixtures validates a {products, stock} document and seeds repo with it.
func LoadFixtures(ctx context.Context, repo ports.Repository, r io.Reader) error {
	var doc fixtureFile
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return fmt.Errorf("decode catalog fixtures: %w", err)
	}
	products := make([]*domain.Product, 0, len(doc.Products))
	for _, raw := range doc.Products {
		p, err := domain.NewProduct(raw.ID, raw.Title, raw.Price, raw.Image, raw.Tags...)
		if err != nil {
			return fmt.Errorf("fixture product %d: %w", raw.ID, mapError(err))
		}
		products = append(products, p)
	}
	stock := make([]domain.Stock, 0, len(doc.Stock))
	for _, raw := range doc.Stock {
		s, err := domain.NewStock(raw.ID, raw.Amount)
		if err != nil {
			return fmt.Errorf("fixture stock %d: %w", raw.ID, mapError(err))
		}
		stock = append(stock, s)
	}
	return repo.Seed(ctx, products, stock)
}

// LoadDefaultFixtures seeds the bundled sneaker catalog.
func LoadDefaultFixtures(ctx context.Context, repo ports.Repository) error {
	return LoadFixtures(ctx, repo, bytes.NewReader(defaultFixtures))
}
