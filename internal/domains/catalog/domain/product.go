package domain

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidID     = errors.New("product id must be greater than zero")
	ErrTitleRequired = errors.New("product title is required")
	ErrNegativePrice = errors.New("product price must not be negative")
	ErrNegativeStock = errors.New("stock amount must not be negative")
)

// Product is a sellable catalog entry.
type Product struct {
	ID    int64
	Title string
	Price decimal.Decimal
	Image string
	Tags  []string
}

func NewProduct(id int64, title string, price decimal.Decimal, image string, tags ...string) (*Product, error) {
	p := &Product{
		ID:    id,
		Title: strings.TrimSpace(title),
		Price: price,
		Image: strings.TrimSpace(image),
		Tags:  append([]string(nil), tags...),
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Product) Validate() error {
	if p.ID <= 0 {
		return ErrInvalidID
	}
	if p.Title == "" {
		return ErrTitleRequired
	}
	if p.Price.IsNegative() {
		return ErrNegativePrice
	}
	return nil
}

// Stock is the quantity on hand for one product.
type Stock struct {
	ProductID int64
	Amount    int
}

func NewStock(productID int64, amount int) (Stock, error) {
	if productID <= 0 {
		return Stock{}, ErrInvalidID
	}
	if amount < 0 {
		return Stock{}, ErrNegativeStock
	}
	return Stock{ProductID: productID, Amount: amount}, nil
}
