package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/Apurer/go-cart-engine/internal/domains/catalog/domain"
	"github.com/Apurer/go-cart-engine/internal/domains/catalog/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory catalog.
type Repository struct {
	mu       sync.RWMutex
	products map[int64]*domain.Product
	stock    map[int64]int
}

func NewRepository() *Repository {
	return &Repository{products: map[int64]*domain.Product{}, stock: map[int64]int{}}
}

func (r *Repository) Product(_ context.Context, id int64) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.products[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return clone(p), nil
}

// Products lists the catalog ordered by id.
func (r *Repository) Products(_ context.Context) ([]*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domain.Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, clone(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *Repository) Stock(_ context.Context, productID int64) (domain.Stock, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	amount, ok := r.stock[productID]
	if !ok {
		return domain.Stock{}, ports.ErrNotFound
	}
	return domain.Stock{ProductID: productID, Amount: amount}, nil
}

func (r *Repository) Seed(_ context.Context, products []*domain.Product, stock []domain.Stock) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range products {
		if p == nil {
			continue
		}
		r.products[p.ID] = clone(p)
	}
	for _, s := range stock {
		r.stock[s.ProductID] = s.Amount
	}
	return nil
}

func clone(p *domain.Product) *domain.Product {
	c := *p
	c.Tags = append([]string(nil), p.Tags...)
	return &c
}

// Reset drops every product and stock entry.
func (r *Repository) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products = map[int64]*domain.Product{}
	r.stock = map[int64]int{}
}
