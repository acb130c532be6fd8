package ports

import (
	"context"

	"github.com/Apurer/go-cart-engine/internal/domains/catalog/domain"
)

// Service is the read-only catalog surface consumed by the HTTP adapter.
type Service interface {
	Product(ctx context.Context, id int64) (*domain.Product, error)
	Products(ctx context.Context) ([]*domain.Product, error)
	Stock(ctx context.Context, productID int64) (domain.Stock, error)
}
