package ports

import (
	"context"

	"github.com/Apurer/go-cart-engine/internal/domains/cart/domain"
)

// UpdateAmountInput carries the new absolute amount for a cart entry.
type UpdateAmountInput struct {
	ProductID int64
	Amount    int
}

// Service is the cart's entire public surface (inbound/driving port).
// Every mutation returns the cart as it stands after the call; on error it is the unchanged cart.
type Service interface {
	Cart(ctx context.Context) domain.Cart
	AddItem(ctx context.Context, productID int64) (domain.Cart, error)
	RemoveItem(ctx context.Context, productID int64) (domain.Cart, error)
	UpdateAmount(ctx context.Context, input UpdateAmountInput) (domain.Cart, error)
}
