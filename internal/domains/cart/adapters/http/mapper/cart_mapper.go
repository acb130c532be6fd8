package mapper

import (
	"github.com/shopspring/decimal"

	cartdomain "github.com/Apurer/go-cart-engine/internal/domains/cart/domain"
)

// Item is one cart line as served over HTTP.
type Item struct {
	ID     int64           `json:"id"`
	Name   string          `json:"name"`
	Price  decimal.Decimal `json:"price"`
	Image  string          `json:"image"`
	Amount int             `json:"amount"`
	Total  decimal.Decimal `json:"total"`
}

// Cart is the snapshot body of every cart response.
type Cart struct {
	Items     []Item          `json:"items"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	ItemCount int             `json:"itemCount"`
}

// AddItemRequest is the body of POST /cart/items.
type AddItemRequest struct {
	ProductID int64 `json:"productId" binding:"required"`
}

// UpdateAmountRequest is the body of PUT /cart/items/:productId.
// Amount is a pointer so a missing field can be told apart from zero.
type UpdateAmountRequest struct {
	Amount *int `json:"amount" binding:"required"`
}

func FromDomainCart(cart cartdomain.Cart) Cart {
	items := cart.Items()
	out := Cart{
		Items:     make([]Item, 0, len(items)),
		Subtotal:  cart.Subtotal(),
		ItemCount: cart.ItemCount(),
	}
	for _, item := range items {
		out.Items = append(out.Items, Item{
			ID:     item.ID,
			Name:   item.Name,
			Price:  item.Price,
			Image:  item.Image,
			Amount: item.Amount,
			Total:  item.Total(),
		})
	}
	return out
}
