package application

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Apurer/go-cart-engine/internal/domains/cart/domain"
)

// productRecord is the persisted shape of a cart entry. Field order is the wire order.
type productRecord struct {
	ID     int64           `json:"id"`
	Name   string          `json:"name"`
	Price  decimal.Decimal `json:"price"`
	Image  string          `json:"image"`
	Amount int             `json:"amount"`
}

// EncodeCart serializes the cart as a JSON array of products in cart order.
func EncodeCart(cart domain.Cart) ([]byte, error) {
	items := cart.Items()
	records := make([]productRecord, 0, len(items))
	for _, item := range items {
		records = append(records, productRecord{
			ID:     item.ID,
			Name:   item.Name,
			Price:  item.Price,
			Image:  item.Image,
			Amount: item.Amount,
		})
	}
	return json.Marshal(records)
}

// DecodeCart parses a persisted cart and re-checks every cart invariant.
func DecodeCart(data []byte) (domain.Cart, error) {
	var records []productRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return domain.Cart{}, fmt.Errorf("decode cart: %w", err)
	}
	items := make([]domain.Product, 0, len(records))
	for _, rec := range records {
		items = append(items, domain.Product{
			ID:     rec.ID,
			Name:   rec.Name,
			Price:  rec.Price,
			Image:  rec.Image,
			Amount: rec.Amount,
		})
	}
	cart, err := domain.NewCart(items...)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("decode cart: %w", err)
	}
	return cart, nil
}
