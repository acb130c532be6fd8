package ports

import (
	"context"
	"errors"

	"github.com/Apurer/go-cart-engine/internal/domains/catalog/domain"
)

var ErrNotFound = errors.New("catalog entry not found")

// Repository reads and seeds catalog products and their stock.
type Repository interface {
	Product(ctx context.Context, id int64) (*domain.Product, error)
	Products(ctx context.Context) ([]*domain.Product, error)
	Stock(ctx context.Context, productID int64) (domain.Stock, error)
	// Seed upserts products and stock, used to load fixtures at startup.
	Seed(ctx context.Context, products []*domain.Product, stock []domain.Stock) error
}
