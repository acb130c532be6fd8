package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var ErrDuplicateProduct = errors.New("product appears more than once in cart")

// Cart is an immutable, insertion-ordered list of products unique by id.
// Every change returns a new Cart; entries held by a previous Cart are never modified.
type Cart struct {
	items []Product
}

// EmptyCart returns a cart without entries.
func EmptyCart() Cart {
	return Cart{}
}

// NewCart validates the entries and builds a cart preserving their order.
func NewCart(items ...Product) (Cart, error) {
	seen := make(map[int64]struct{}, len(items))
	copied := make([]Product, 0, len(items))
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return Cart{}, fmt.Errorf("product %d: %w", item.ID, err)
		}
		if _, ok := seen[item.ID]; ok {
			return Cart{}, fmt.Errorf("product %d: %w", item.ID, ErrDuplicateProduct)
		}
		seen[item.ID] = struct{}{}
		copied = append(copied, item)
	}
	return Cart{items: copied}, nil
}

// Items returns a copy of the entries in insertion order.
func (c Cart) Items() []Product {
	out := make([]Product, len(c.items))
	copy(out, c.items)
	return out
}

func (c Cart) Len() int { return len(c.items) }

// ItemCount is the number of distinct products in the cart.
func (c Cart) ItemCount() int { return len(c.items) }

// Find returns the entry for productID.
func (c Cart) Find(productID int64) (Product, bool) {
	if i := c.index(productID); i >= 0 {
		return c.items[i], true
	}
	return Product{}, false
}

// Subtotal sums price times amount over all entries.
func (c Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.items {
		total = total.Add(item.Total())
	}
	return total
}

// WithProduct appends p, or replaces the entry with the same id in place.
func (c Cart) WithProduct(p Product) (Cart, error) {
	if err := p.Validate(); err != nil {
		return c, err
	}
	next := c.Items()
	if i := c.index(p.ID); i >= 0 {
		next[i] = p
	} else {
		next = append(next, p)
	}
	return Cart{items: next}, nil
}

// WithAmount replaces the amount of an existing entry.
// ok is false when no entry matches productID.
func (c Cart) WithAmount(productID int64, amount int) (next Cart, ok bool, err error) {
	existing, found := c.Find(productID)
	if !found {
		return c, false, nil
	}
	next, err = c.WithProduct(existing.WithAmount(amount))
	if err != nil {
		return c, true, err
	}
	return next, true, nil
}

// Without drops the entry for productID. ok is false when nothing matched.
func (c Cart) Without(productID int64) (Cart, bool) {
	next := make([]Product, 0, len(c.items))
	for _, item := range c.items {
		if item.ID != productID {
			next = append(next, item)
		}
	}
	if len(next) == len(c.items) {
		return c, false
	}
	return Cart{items: next}, true
}

// Equal compares ids, amounts and catalog fields in order.
func (c Cart) Equal(other Cart) bool {
	if len(c.items) != len(other.items) {
		return false
	}
	for i := range c.items {
		a, b := c.items[i], other.items[i]
		if a.ID != b.ID || a.Amount != b.Amount || a.Name != b.Name || a.Image != b.Image || !a.Price.Equal(b.Price) {
			return false
		}
	}
	return true
}

func (c Cart) index(productID int64) int {
	for i, item := range c.items {
		if item.ID == productID {
			return i
		}
	}
	return -1
}
