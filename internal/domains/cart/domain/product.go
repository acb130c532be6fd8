package domain

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidProductID = errors.New("product id must be greater than zero")
	ErrInvalidAmount    = errors.New("amount must be greater than zero")
	ErrNegativeStock    = errors.New("available stock must not be negative")
)

// CatalogItem is the display data the catalog knows about a product.
// The cart never interprets anything but the identifier.
type CatalogItem struct {
	ID    int64
	Name  string
	Price decimal.Decimal
	Image string
}

// Product is a catalog item placed in the cart with an amount.
type Product struct {
	ID     int64
	Name   string
	Price  decimal.Decimal
	Image  string
	Amount int
}

// NewProduct builds a cart entry from catalog data.
func NewProduct(item CatalogItem, amount int) (Product, error) {
	p := Product{
		ID:     item.ID,
		Name:   item.Name,
		Price:  item.Price,
		Image:  item.Image,
		Amount: amount,
	}
	if err := p.Validate(); err != nil {
		return Product{}, err
	}
	return p, nil
}

// Validate enforces entry invariants.
func (p Product) Validate() error {
	if p.ID <= 0 {
		return ErrInvalidProductID
	}
	if p.Amount < 1 {
		return ErrInvalidAmount
	}
	return nil
}

// WithAmount returns a copy of the entry carrying the new amount.
func (p Product) WithAmount(amount int) Product {
	p.Amount = amount
	return p
}

// Total is price times amount.
func (p Product) Total() decimal.Decimal {
	return p.Price.Mul(decimal.NewFromInt(int64(p.Amount)))
}

// Stock is the available quantity reported for a product.
type Stock struct {
	ProductID int64
	Available int
}

// NewStock validates stock reported by an oracle.
func NewStock(productID int64, available int) (Stock, error) {
	if productID <= 0 {
		return Stock{}, ErrInvalidProductID
	}
	if available < 0 {
		return Stock{}, ErrNegativeStock
	}
	return Stock{ProductID: productID, Available: available}, nil
}

// Allows reports whether amount fits into the available stock.
func (s Stock) Allows(amount int) bool {
	return amount <= s.Available
}
