package mapper

import (
	"github.com/shopspring/decimal"

	catalogdomain "github.com/Apurer/go-cart-engine/internal/domains/catalog/domain"
)

// Product is the body of GET /products/:id.
type Product struct {
	ID    int64           `json:"id"`
	Title string          `json:"title"`
	Price decimal.Decimal `json:"price"`
	Image string          `json:"image"`
	Tags  []string        `json:"tags,omitempty"`
}

// Stock is the body of GET /stock/:id.
type Stock struct {
	ID     int64 `json:"id"`
	Amount int   `json:"amount"`
}

func FromDomainProduct(p *catalogdomain.Product) Product {
	if p == nil {
		return Product{}
	}
	return Product{ID: p.ID, Title: p.Title, Price: p.Price, Image: p.Image, Tags: p.Tags}
}

func FromDomainProducts(list []*catalogdomain.Product) []Product {
	out := make([]Product, 0, len(list))
	for _, p := range list {
		out = append(out, FromDomainProduct(p))
	}
	return out
}

func FromDomainStock(s catalogdomain.Stock) Stock {
	return Stock{ID: s.ProductID, Amount: s.Amount}
}
