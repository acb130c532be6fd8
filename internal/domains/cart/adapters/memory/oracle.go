package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/Apurer/go-cart-engine/internal/domains/cart/domain"
	"github.com/Apurer/go-cart-engine/internal/domains/cart/ports"
)

var (
	_ ports.StockOracle   = (*Oracle)(nil)
	_ ports.CatalogOracle = (*Oracle)(nil)
)

// Oracle answers stock and catalog lookups from seeded data.
type Oracle struct {
	mu      sync.RWMutex
	catalog map[int64]domain.CatalogItem
	stock   map[int64]int
}

func NewOracle() *Oracle {
	return &Oracle{catalog: map[int64]domain.CatalogItem{}, stock: map[int64]int{}}
}

// Seed registers a product with its available stock.
func (o *Oracle) Seed(item domain.CatalogItem, available int) *Oracle {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.catalog[item.ID] = item
	o.stock[item.ID] = available
	return o
}

// SetStock changes the available amount of a seeded product.
func (o *Oracle) SetStock(productID int64, available int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.stock[productID] = available
}

func (o *Oracle) Stock(_ context.Context, productID int64) (domain.Stock, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	available, ok := o.stock[productID]
	if !ok {
		return domain.Stock{}, fmt.Errorf("stock %d: %w", productID, ports.ErrUnknownProduct)
	}
	return domain.NewStock(productID, available)
}

func (o *Oracle) Product(_ context.Context, productID int64) (domain.CatalogItem, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	item, ok := o.catalog[productID]
	if !ok {
		return domain.CatalogItem{}, fmt.Errorf("product %d: %w", productID, ports.ErrUnknownProduct)
	}
	return item, nil
}
