package application

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cartmemory "github.com/Apurer/go-cart-engine/internal/domains/cart/adapters/memory"
	"github.com/Apurer/go-cart-engine/internal/domains/cart/domain"
	"github.com/Apurer/go-cart-engine/internal/domains/cart/ports"
)

type fixture struct {
	oracle   *cartmemory.Oracle
	store    *flakyStore
	notifier *cartmemory.Notifier
	seeded   int
}

type flakyStore struct {
	*cartmemory.Store
	failWrites bool
	failReads  bool
}

func (s *flakyStore) Read(ctx context.Context, key string) ([]byte, bool, error) {
	if s.failReads {
		return nil, false, errors.New("store unreachable")
	}
	return s.Store.Read(ctx, key)
}

func (s *flakyStore) Write(ctx context.Context, key string, value []byte) error {
	if s.failWrites {
		return errors.New("disk full")
	}
	return s.Store.Write(ctx, key, value)
}

// ctxOracle fails lookups once its context is cancelled.
type ctxOracle struct {
	*cartmemory.Oracle
}

func (o ctxOracle) Stock(ctx context.Context, id int64) (domain.Stock, error) {
	if err := ctx.Err(); err != nil {
		return domain.Stock{}, err
	}
	return o.Oracle.Stock(ctx, id)
}

func (o ctxOracle) Product(ctx context.Context, id int64) (domain.CatalogItem, error) {
	if err := ctx.Err(); err != nil {
		return domain.CatalogItem{}, err
	}
	return o.Oracle.Product(ctx, id)
}

func catalogItem(id int64) domain.CatalogItem {
	return domain.CatalogItem{
		ID:    id,
		Name:  "Tênis de Caminhada Leve Confortável",
		Price: decimal.RequireFromString("179.9"),
		Image: "https://rocketseat-cdn.s3-sa-east-1.amazonaws.com/modulo-redux/tenis1.jpg",
	}
}

func entry(id int64, amount int) domain.Product {
	p, err := domain.NewProduct(catalogItem(id), amount)
	if err != nil {
		panic(err)
	}
	return p
}

func newFixture() *fixture {
	return &fixture{
		oracle:   cartmemory.NewOracle(),
		store:    &flakyStore{Store: cartmemory.NewStore()},
		notifier: cartmemory.NewNotifier(),
	}
}

func (f *fixture) seedCart(t *testing.T, items ...domain.Product) {
	t.Helper()
	cart, err := domain.NewCart(items...)
	require.NoError(t, err)
	payload, err := EncodeCart(cart)
	require.NoError(t, err)
	require.NoError(t, f.store.Store.Write(context.Background(), DefaultStorageKey, payload))
	f.seeded++
}

// writes counts store writes made by the engine, excluding seeding.
func (f *fixture) writes() int {
	return f.store.Writes() - f.seeded
}

func (f *fixture) engine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	engine, err := NewEngine(context.Background(), Dependencies{
		Stock:    f.oracle,
		Catalog:  f.oracle,
		Store:    f.store,
		Notifier: f.notifier,
	}, opts...)
	require.NoError(t, err)
	return engine
}

func (f *fixture) persisted(t *testing.T) []byte {
	t.Helper()
	raw, found, err := f.store.Store.Read(context.Background(), DefaultStorageKey)
	require.NoError(t, err)
	if !found {
		return nil
	}
	return raw
}

func amounts(cart domain.Cart) map[int64]int {
	out := map[int64]int{}
	for _, item := range cart.Items() {
		out[item.ID] = item.Amount
	}
	return out
}

func TestAddItem_TwiceIncrementsAmount(t *testing.T) {
	f := newFixture()
	f.oracle.Seed(catalogItem(1), 5)
	engine := f.engine(t)
	ctx := context.Background()

	_, err := engine.AddItem(ctx, 1)
	require.NoError(t, err)
	cart, err := engine.AddItem(ctx, 1)
	require.NoError(t, err)

	require.Equal(t, map[int64]int{1: 2}, amounts(cart))
	require.Equal(t, map[int64]int{1: 2}, amounts(engine.Cart(ctx)))
	require.Equal(t, []string{MsgAdded, MsgAdded}, f.notifier.Successes())
	require.Empty(t, f.notifier.Errors())

	persisted, err := DecodeCart(f.persisted(t))
	require.NoError(t, err)
	require.True(t, persisted.Equal(cart))
}

func TestAddItem_RejectsWhenStockExhausted(t *testing.T) {
	f := newFixture()
	f.oracle.Seed(catalogItem(1), 5)
	f.seedCart(t, entry(1, 5))
	engine := f.engine(t)
	before := f.persisted(t)

	cart, err := engine.AddItem(context.Background(), 1)

	require.ErrorIs(t, err, ErrInsufficientStock)
	require.Equal(t, OutcomeValidationFailed, Classify(err))
	require.Equal(t, map[int64]int{1: 5}, amounts(cart))
	require.Equal(t, []string{MsgOutOfStock}, f.notifier.Errors())
	require.Equal(t, before, f.persisted(t))
	require.Zero(t, f.writes())
}

func TestAddItem_FirstAddRequiresStock(t *testing.T) {
	f := newFixture()
	f.oracle.Seed(catalogItem(1), 0)
	engine := f.engine(t)

	cart, err := engine.AddItem(context.Background(), 1)

	require.ErrorIs(t, err, ErrInsufficientStock)
	require.Zero(t, cart.Len())
	require.Nil(t, f.persisted(t))
}

func TestAddItem_UnknownProductIsDependencyFailure(t *testing.T) {
	f := newFixture()
	engine := f.engine(t)

	_, err := engine.AddItem(context.Background(), 99)

	require.ErrorIs(t, err, ErrDependency)
	require.ErrorIs(t, err, ports.ErrUnknownProduct)
	require.Equal(t, OutcomeDependencyFailed, Classify(err))
	require.Equal(t, []string{MsgAddFailed}, f.notifier.Errors())
}

func TestAddItem_KeepsOtherEntriesAndOrder(t *testing.T) {
	f := newFixture()
	f.oracle.Seed(catalogItem(1), 5).Seed(catalogItem(2), 5).Seed(catalogItem(3), 5)
	f.seedCart(t, entry(3, 1), entry(1, 1))
	engine := f.engine(t)

	cart, err := engine.AddItem(context.Background(), 2)
	require.NoError(t, err)
	cart, err = engine.AddItem(context.Background(), 3)
	require.NoError(t, err)

	ids := []int64{}
	for _, item := range cart.Items() {
		ids = append(ids, item.ID)
	}
	require.Equal(t, []int64{3, 1, 2}, ids)
	require.Equal(t, map[int64]int{3: 2, 1: 1, 2: 1}, amounts(cart))
}

func TestAddItem_NeverDuplicatesEntries(t *testing.T) {
	f := newFixture()
	for id := int64(1); id <= 4; id++ {
		f.oracle.Seed(catalogItem(id), 3)
	}
	engine := f.engine(t)
	ctx := context.Background()

	sequence := []int64{1, 2, 1, 3, 4, 4, 2, 1, 1, 3, 3, 3, 4}
	for _, id := range sequence {
		_, _ = engine.AddItem(ctx, id)
	}

	cart := engine.Cart(ctx)
	seen := map[int64]bool{}
	for _, item := range cart.Items() {
		require.False(t, seen[item.ID], "duplicate product %d", item.ID)
		seen[item.ID] = true
		require.LessOrEqual(t, item.Amount, 3)
	}
	require.Len(t, seen, 4)
}

func TestAddItem_StoreFailureLeavesStateUntouched(t *testing.T) {
	f := newFixture()
	f.oracle.Seed(catalogItem(1), 5)
	f.seedCart(t, entry(1, 1))
	engine := f.engine(t)
	before := engine.Cart(context.Background())
	f.store.failWrites = true

	cart, err := engine.AddItem(context.Background(), 1)

	require.ErrorIs(t, err, ErrDependency)
	require.True(t, cart.Equal(before))
	require.True(t, engine.Cart(context.Background()).Equal(before))
	require.Equal(t, []string{MsgAddFailed}, f.notifier.Errors())
}

func TestAddItem_IgnoresCallerCancellation(t *testing.T) {
	f := newFixture()
	f.oracle.Seed(catalogItem(1), 5)
	engine, err := NewEngine(context.Background(), Dependencies{
		Stock:   ctxOracle{f.oracle},
		Catalog: ctxOracle{f.oracle},
		Store:   f.store,
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cart, err := engine.AddItem(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, map[int64]int{1: 1}, amounts(cart))
}

func TestAddItem_ConcurrentCallsRespectStock(t *testing.T) {
	f := newFixture()
	f.oracle.Seed(catalogItem(1), 20)
	engine := f.engine(t)

	const callers = 50
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		rejected int
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := engine.AddItem(context.Background(), 1); err != nil {
				mu.Lock()
				rejected++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	require.Equal(t, map[int64]int{1: 20}, amounts(engine.Cart(context.Background())))
	require.Equal(t, callers-20, rejected)
	require.Equal(t, 20, f.writes())
}

func TestRemoveItem_MissingProduct(t *testing.T) {
	f := newFixture()
	f.seedCart(t, entry(1, 2))
	engine := f.engine(t)
	before := f.persisted(t)

	cart, err := engine.RemoveItem(context.Background(), 2)

	require.ErrorIs(t, err, ErrNotInCart)
	require.Equal(t, OutcomeNotFound, Classify(err))
	require.Equal(t, map[int64]int{1: 2}, amounts(cart))
	require.Equal(t, []string{MsgRemoveFailed}, f.notifier.Errors())
	require.Equal(t, before, f.persisted(t))

	_, err = engine.RemoveItem(context.Background(), 2)
	require.ErrorIs(t, err, ErrNotInCart)
	require.Equal(t, before, f.persisted(t))
	require.Zero(t, f.writes())
}

func TestRemoveItem_PersistsFilteredCart(t *testing.T) {
	f := newFixture()
	f.seedCart(t, entry(1, 2), entry(2, 1))
	engine := f.engine(t)

	cart, err := engine.RemoveItem(context.Background(), 1)

	require.NoError(t, err)
	require.Equal(t, map[int64]int{2: 1}, amounts(cart))
	persisted, err := DecodeCart(f.persisted(t))
	require.NoError(t, err)
	require.True(t, persisted.Equal(cart))
}

func TestRemoveItem_StoreFailure(t *testing.T) {
	f := newFixture()
	f.seedCart(t, entry(1, 2))
	engine := f.engine(t)
	f.store.failWrites = true

	cart, err := engine.RemoveItem(context.Background(), 1)

	require.ErrorIs(t, err, ErrDependency)
	require.Equal(t, map[int64]int{1: 2}, amounts(cart))
	require.Equal(t, map[int64]int{1: 2}, amounts(engine.Cart(context.Background())))
}

func TestUpdateAmount(t *testing.T) {
	tests := []struct {
		name      string
		input     ports.UpdateAmountInput
		stock     int
		wantErr   error
		wantCart  map[int64]int
		wantNotes []string
		wantWrite bool
	}{
		{
			name:      "zero amount is rejected before any lookup",
			input:     ports.UpdateAmountInput{ProductID: 1, Amount: 0},
			stock:     3,
			wantErr:   ErrInvalidInput,
			wantCart:  map[int64]int{1: 1},
			wantNotes: []string{MsgUpdateFailed},
		},
		{
			name:      "negative amount",
			input:     ports.UpdateAmountInput{ProductID: 1, Amount: -2},
			stock:     3,
			wantErr:   ErrInvalidInput,
			wantCart:  map[int64]int{1: 1},
			wantNotes: []string{MsgUpdateFailed},
		},
		{
			name:      "amount above stock",
			input:     ports.UpdateAmountInput{ProductID: 1, Amount: 4},
			stock:     3,
			wantErr:   ErrInsufficientStock,
			wantCart:  map[int64]int{1: 1},
			wantNotes: []string{MsgOutOfStock},
		},
		{
			name:      "amount equal to stock",
			input:     ports.UpdateAmountInput{ProductID: 1, Amount: 3},
			stock:     3,
			wantCart:  map[int64]int{1: 3},
			wantWrite: true,
		},
		{
			name:      "product not in cart",
			input:     ports.UpdateAmountInput{ProductID: 2, Amount: 1},
			stock:     3,
			wantErr:   ErrNotInCart,
			wantCart:  map[int64]int{1: 1},
			wantNotes: []string{MsgUpdateFailed},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture()
			f.oracle.Seed(catalogItem(1), tc.stock).Seed(catalogItem(2), tc.stock)
			f.seedCart(t, entry(1, 1))
			engine := f.engine(t)

			cart, err := engine.UpdateAmount(context.Background(), tc.input)

			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tc.wantCart, amounts(cart))
			assert.Equal(t, tc.wantCart, amounts(engine.Cart(context.Background())))
			assert.Equal(t, tc.wantNotes, f.notifier.Errors())
			if tc.wantWrite {
				assert.Equal(t, 1, f.writes())
				persisted, err := DecodeCart(f.persisted(t))
				require.NoError(t, err)
				assert.Equal(t, tc.wantCart, amounts(persisted))
			} else {
				assert.Zero(t, f.writes())
			}
		})
	}
}

func TestUpdateAmount_InvalidAmountSkipsOracle(t *testing.T) {
	f := newFixture()
	f.seedCart(t, entry(1, 1))
	engine := f.engine(t)

	// No stock is seeded: a lookup would surface as a dependency failure.
	_, err := engine.UpdateAmount(context.Background(), ports.UpdateAmountInput{ProductID: 1, Amount: 0})

	require.ErrorIs(t, err, ErrInvalidInput)
	require.NotErrorIs(t, err, ErrDependency)
}

func TestUpdateAmount_StockLookupFailure(t *testing.T) {
	f := newFixture()
	f.seedCart(t, entry(1, 1))
	engine := f.engine(t)

	_, err := engine.UpdateAmount(context.Background(), ports.UpdateAmountInput{ProductID: 1, Amount: 2})

	require.ErrorIs(t, err, ErrDependency)
	require.Equal(t, []string{MsgUpdateFailed}, f.notifier.Errors())
}

func TestNewEngine_RestoresPersistedCart(t *testing.T) {
	f := newFixture()
	f.seedCart(t, entry(2, 3), entry(1, 1))

	engine := f.engine(t)

	items := engine.Cart(context.Background()).Items()
	require.Len(t, items, 2)
	require.Equal(t, int64(2), items[0].ID)
	require.Equal(t, 3, items[0].Amount)
}

func TestNewEngine_MalformedDataYieldsEmptyCart(t *testing.T) {
	payloads := map[string]string{
		"not json":      `{"broken"`,
		"wrong shape":   `{"id":1}`,
		"duplicate ids": `[{"id":1,"amount":1},{"id":1,"amount":2}]`,
		"zero amount":   `[{"id":1,"amount":0}]`,
	}
	for name, payload := range payloads {
		t.Run(name, func(t *testing.T) {
			f := newFixture()
			require.NoError(t, f.store.Store.Write(context.Background(), DefaultStorageKey, []byte(payload)))

			engine := f.engine(t)

			require.Zero(t, engine.Cart(context.Background()).Len())
		})
	}
}

func TestNewEngine_StoreReadFailure(t *testing.T) {
	f := newFixture()
	f.store.failReads = true

	_, err := NewEngine(context.Background(), Dependencies{Stock: f.oracle, Catalog: f.oracle, Store: f.store})

	require.Error(t, err)
}

func TestNewEngine_RequiresDependencies(t *testing.T) {
	_, err := NewEngine(context.Background(), Dependencies{})
	require.Error(t, err)
}

func TestEngine_CustomKeyAndObservers(t *testing.T) {
	f := newFixture()
	f.oracle.Seed(catalogItem(1), 2)
	var observed []domain.Cart
	engine := f.engine(t,
		WithStorageKey("tests:cart"),
		WithObserver(func(c domain.Cart) { observed = append(observed, c) }),
	)

	_, err := engine.AddItem(context.Background(), 1)
	require.NoError(t, err)
	_, err = engine.RemoveItem(context.Background(), 5)
	require.Error(t, err)

	require.Len(t, observed, 1)
	require.Equal(t, map[int64]int{1: 1}, amounts(observed[0]))
	raw, found, err := f.store.Store.Read(context.Background(), "tests:cart")
	require.NoError(t, err)
	require.True(t, found)
	require.NotEmpty(t, raw)
	require.Nil(t, f.persisted(t))
}
