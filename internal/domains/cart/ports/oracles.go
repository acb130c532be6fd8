package ports

import (
	"context"
	"errors"

	"github.com/Apurer/go-cart-engine/internal/domains/cart/domain"
)

// ErrUnknownProduct is returned by oracles that have no record for the identifier.
var ErrUnknownProduct = errors.New("unknown product")

// StockOracle reports the current available quantity of a product. Read-only.
type StockOracle interface {
	Stock(ctx context.Context, productID int64) (domain.Stock, error)
}

// CatalogOracle returns the display data of a product.
type CatalogOracle interface {
	Product(ctx context.Context, productID int64) (domain.CatalogItem, error)
}
