package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/Apurer/go-cart-engine/internal/domains/cart/domain"
	"github.com/Apurer/go-cart-engine/internal/domains/cart/ports"
)

// DefaultStorageKey is the store key holding the serialized cart.
const DefaultStorageKey = "@RocketShoes:cart"

// Messages handed to the notifier.
const (
	MsgAddFailed     = "could not add product"
	MsgRemoveFailed  = "could not remove product"
	MsgUpdateFailed  = "could not update product amount"
	MsgOutOfStock    = "requested amount is out of stock"
	MsgAdded         = "product added to cart"
	MsgRemoved       = "product removed from cart"
	MsgAmountUpdated = "product amount updated"
)

// Dependencies are the collaborators the engine consults.
type Dependencies struct {
	Stock    ports.StockOracle
	Catalog  ports.CatalogOracle
	Store    ports.Store
	Notifier ports.Notifier
}

// Option customizes the engine.
type Option func(*Engine)

// WithStorageKey overrides DefaultStorageKey.
func WithStorageKey(key string) Option {
	return func(e *Engine) {
		if key != "" {
			e.key = key
		}
	}
}

// WithLogger sets the logger used for load diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithObserver registers fn to receive every committed cart.
// Observers run while the engine is locked and must not call back into it.
func WithObserver(fn func(domain.Cart)) Option {
	return func(e *Engine) {
		if fn != nil {
			e.observers = append(e.observers, fn)
		}
	}
}

// Engine owns the authoritative cart. Mutations are serialized; reads never block on them.
type Engine struct {
	stock     ports.StockOracle
	catalog   ports.CatalogOracle
	store     ports.Store
	notifier  ports.Notifier
	key       string
	logger    *slog.Logger
	observers []func(domain.Cart)

	mu      sync.Mutex
	current atomic.Pointer[domain.Cart]
}

// NewEngine wires the engine and restores the cart persisted under the storage key.
// Absent or malformed data yields an empty cart; a failing store read is returned.
func NewEngine(ctx context.Context, deps Dependencies, opts ...Option) (*Engine, error) {
	if deps.Stock == nil || deps.Catalog == nil || deps.Store == nil {
		return nil, errors.New("cart engine requires stock, catalog and store dependencies")
	}
	e := &Engine{
		stock:    deps.Stock,
		catalog:  deps.Catalog,
		store:    deps.Store,
		notifier: deps.Notifier,
		key:      DefaultStorageKey,
		logger:   slog.New(slog.DiscardHandler),
	}
	if e.notifier == nil {
		e.notifier = discardNotifier{}
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	if err := e.load(ctx); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *Engine) load(ctx context.Context) error {
	cart := domain.EmptyCart()
	raw, found, err := e.store.Read(ctx, e.key)
	if err != nil {
		return fmt.Errorf("read cart %q: %w", e.key, err)
	}
	if found {
		decoded, err := DecodeCart(raw)
		if err != nil {
			e.logger.LogAttrs(ctx, slog.LevelWarn, "discarding malformed persisted cart",
				slog.String("cart.key", e.key), slog.String("error", err.Error()))
		} else {
			cart = decoded
		}
	}
	e.current.Store(&cart)
	return nil
}

// Cart returns the committed cart.
func (e *Engine) Cart(_ context.Context) domain.Cart {
	return *e.current.Load()
}

// AddItem puts one more unit of productID into the cart, inserting it when absent.
func (e *Engine) AddItem(ctx context.Context, productID int64) (domain.Cart, error) {
	ctx = context.WithoutCancel(ctx)
	e.mu.Lock()
	defer e.mu.Unlock()
	current := e.Cart(ctx)

	var (
		stock domain.Stock
		item  domain.CatalogItem
		g     errgroup.Group
	)
	g.Go(func() error {
		s, err := e.stock.Stock(ctx, productID)
		if err != nil {
			return dependencyError(fmt.Sprintf("fetch stock of product %d", productID), err)
		}
		stock = s
		return nil
	})
	g.Go(func() error {
		it, err := e.catalog.Product(ctx, productID)
		if err != nil {
			return dependencyError(fmt.Sprintf("fetch catalog entry of product %d", productID), err)
		}
		item = it
		return nil
	})
	if err := g.Wait(); err != nil {
		return e.fail(ctx, current, MsgAddFailed, err)
	}

	var entry domain.Product
	if existing, ok := current.Find(productID); ok {
		entry = existing.WithAmount(existing.Amount + 1)
	} else {
		item.ID = productID
		p, err := domain.NewProduct(item, 1)
		if err != nil {
			return e.fail(ctx, current, MsgAddFailed, mapError(err))
		}
		entry = p
	}
	if !stock.Allows(entry.Amount) {
		return e.fail(ctx, current, MsgOutOfStock, outOfStock(productID, entry.Amount, stock))
	}

	next, err := current.WithProduct(entry)
	if err != nil {
		return e.fail(ctx, current, MsgAddFailed, mapError(err))
	}
	return e.commit(ctx, current, next, MsgAddFailed, MsgAdded)
}

// RemoveItem drops productID from the cart. No stock is consulted.
func (e *Engine) RemoveItem(ctx context.Context, productID int64) (domain.Cart, error) {
	ctx = context.WithoutCancel(ctx)
	e.mu.Lock()
	defer e.mu.Unlock()
	current := e.Cart(ctx)

	next, ok := current.Without(productID)
	if !ok {
		return e.fail(ctx, current, MsgRemoveFailed, fmt.Errorf("%w: product %d", ErrNotInCart, productID))
	}
	return e.commit(ctx, current, next, MsgRemoveFailed, MsgRemoved)
}

// UpdateAmount sets the absolute amount of a product already in the cart.
func (e *Engine) UpdateAmount(ctx context.Context, input ports.UpdateAmountInput) (domain.Cart, error) {
	ctx = context.WithoutCancel(ctx)
	e.mu.Lock()
	defer e.mu.Unlock()
	current := e.Cart(ctx)

	if input.Amount <= 0 {
		return e.fail(ctx, current, MsgUpdateFailed, mapError(domain.ErrInvalidAmount))
	}
	stock, err := e.stock.Stock(ctx, input.ProductID)
	if err != nil {
		return e.fail(ctx, current, MsgUpdateFailed,
			dependencyError(fmt.Sprintf("fetch stock of product %d", input.ProductID), err))
	}
	if !stock.Allows(input.Amount) {
		return e.fail(ctx, current, MsgOutOfStock, outOfStock(input.ProductID, input.Amount, stock))
	}
	next, found, err := current.WithAmount(input.ProductID, input.Amount)
	if err != nil {
		return e.fail(ctx, current, MsgUpdateFailed, mapError(err))
	}
	if !found {
		return e.fail(ctx, current, MsgUpdateFailed, fmt.Errorf("%w: product %d", ErrNotInCart, input.ProductID))
	}
	return e.commit(ctx, current, next, MsgUpdateFailed, MsgAmountUpdated)
}

// commit persists next and only then publishes it.
func (e *Engine) commit(ctx context.Context, current, next domain.Cart, failMsg, okMsg string) (domain.Cart, error) {
	payload, err := EncodeCart(next)
	if err != nil {
		return e.fail(ctx, current, failMsg, dependencyError("encode cart", err))
	}
	if err := e.store.Write(ctx, e.key, payload); err != nil {
		return e.fail(ctx, current, failMsg, dependencyError("persist cart", err))
	}
	e.current.Store(&next)
	for _, observe := range e.observers {
		observe(next)
	}
	e.notifier.ReportSuccess(ctx, okMsg)
	return next, nil
}

func (e *Engine) fail(ctx context.Context, current domain.Cart, msg string, err error) (domain.Cart, error) {
	e.notifier.ReportError(ctx, msg)
	return current, err
}

func outOfStock(productID int64, wanted int, stock domain.Stock) error {
	return fmt.Errorf("%w: product %d wants %d, %d available", ErrInsufficientStock, productID, wanted, stock.Available)
}

type discardNotifier struct{}

func (discardNotifier) ReportError(context.Context, string)   {}
func (discardNotifier) ReportSuccess(context.Context, string) {}

var _ ports.Service = (*Engine)(nil)
