package cart_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/ecommerce-pricing/internal/cart"
	"github.com/jcmexdev/ecommerce-pricing/internal/cart/memstore"
	"github.com/jcmexdev/ecommerce-pricing/internal/pricing/domain"
)

var now = time.Date(2025, 11, 18, 12, 0, 0, 0, time.UTC)

type fakeCatalog struct {
	mu       sync.Mutex
	products map[int64]domain.Product
	err      error
}

func (f *fakeCatalog) GetProduct(_ context.Context, id int64) (domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return domain.Product{}, f.err
	}
	p, ok := f.products[id]
	if !ok {
		return domain.Product{}, domain.ErrProductNotFound
	}
	return p, nil
}

func (f *fakeCatalog) setPrice(id int64, price int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := f.products[id]
	p.Price = decimal.NewFromInt(price)
	f.products[id] = p
}

func (f *fakeCatalog) delete(id int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.products, id)
}

type fakeDiscounts struct {
	discounts []domain.Discount
	err       error
}

func (f *fakeDiscounts) ActiveDiscounts(context.Context, time.Time) ([]domain.Discount, error) {
	return f.discounts, f.err
}

func ptr[T any](v T) *T { return &v }

func newService(t *testing.T, discounts ...domain.Discount) (*cart.Service, *fakeCatalog, *fakeDiscounts) {
	t.Helper()
	catalog := &fakeCatalog{products: map[int64]domain.Product{
		1: {ID: 1, Name: "Widget", Price: decimal.NewFromInt(100), Stock: 2, CategoryID: 10},
		2: {ID: 2, Name: "Gadget", Price: decimal.NewFromInt(50), Stock: 10, CategoryID: 20},
		3: {ID: 3, Name: "Sold out", Price: decimal.NewFromInt(5), Stock: 0, CategoryID: 20},
	}}
	src := &fakeDiscounts{discounts: discounts}
	svc := cart.NewService(memstore.New(0), catalog, src, decimal.NewFromInt(10), cart.WithClock(func() time.Time { return now }))
	return svc, catalog, src
}

func window(d domain.Discount) domain.Discount {
	d.Active = true
	d.StartDate = now.Add(-time.Hour)
	d.EndDate = now.Add(time.Hour)
	return d
}

func requireDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	require.Truef(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got)
}

func TestService_AddItem(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	res, err := svc.AddItem(ctx, "s1", 1)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, 1, res.Quantity)
	requireDecimal(t, "100", res.RowTotal)
	requireDecimal(t, "100", res.CartTotal)
	assert.False(t, res.Removed)
}

func TestService_AddItemStockInsufficient(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := svc.AddItem(ctx, "s1", 1)
		require.NoError(t, err)
	}

	res, err := svc.AddItem(ctx, "s1", 1)
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, cart.MsgStockInsufficient, res.Message)
	assert.Equal(t, 2, res.Quantity)
	requireDecimal(t, "200", res.RowTotal)
	requireDecimal(t, "200", res.CartTotal)

	res, err = svc.AddItem(ctx, "s1", 3)
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, 0, res.Quantity)
	assert.False(t, res.Removed)
}

func TestService_ProductNotFound(t *testing.T) {
	svc, _, _ := newService(t)

	res, err := svc.AddItem(context.Background(), "s1", 404)
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, cart.MsgProductNotFound, res.Message)
}

func TestService_CatalogFailureIsAnError(t *testing.T) {
	svc, catalog, _ := newService(t)
	catalog.err = errors.New("db down")

	_, err := svc.AddItem(context.Background(), "s1", 1)
	assert.Error(t, err)
}

func TestService_SessionsAreIsolated(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "alice", 2)
	require.NoError(t, err)

	bob, err := svc.View(ctx, "bob")
	require.NoError(t, err)
	assert.Empty(t, bob.Lines)

	alice, err := svc.View(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, alice.Lines, 1)
}

func TestService_DecrementAndRemove(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	_, _ = svc.AddItem(ctx, "s1", 2)
	_, _ = svc.AddItem(ctx, "s1", 2)
	_, _ = svc.AddItem(ctx, "s1", 1)

	res, err := svc.DecrementItem(ctx, "s1", 2)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, 1, res.Quantity)
	requireDecimal(t, "50", res.RowTotal)
	requireDecimal(t, "150", res.CartTotal)

	res, err = svc.DecrementItem(ctx, "s1", 2)
	require.NoError(t, err)
	assert.True(t, res.Removed)
	assert.Equal(t, 0, res.Quantity)
	requireDecimal(t, "100", res.CartTotal)

	res, err = svc.RemoveItem(ctx, "s1", 1)
	require.NoError(t, err)
	assert.True(t, res.Removed)
	requireDecimal(t, "0", res.CartTotal)
}

func TestService_RemovedOnlyWhenALineGoes(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	res, err := svc.DecrementItem(ctx, "s1", 2)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.False(t, res.Removed, "no line to remove")

	res, err = svc.SetQuantity(ctx, "s1", 2, 0)
	require.NoError(t, err)
	assert.False(t, res.Removed)

	res, err = svc.RemoveItem(ctx, "s1", 2)
	require.NoError(t, err)
	assert.False(t, res.Removed)

	_, _ = svc.AddItem(ctx, "s1", 2)
	res, err = svc.RemoveItem(ctx, "s1", 2)
	require.NoError(t, err)
	assert.True(t, res.Removed)
}

func TestService_DecrementDeletedProduct(t *testing.T) {
	svc, catalog, _ := newService(t)
	ctx := context.Background()
	_, _ = svc.AddItem(ctx, "s1", 2)
	_, _ = svc.AddItem(ctx, "s1", 2)
	catalog.delete(2)

	res, err := svc.DecrementItem(ctx, "s1", 2)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, 1, res.Quantity)

	res, err = svc.DecrementItem(ctx, "s1", 2)
	require.NoError(t, err)
	assert.True(t, res.Removed)

	c, err := svc.Load(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, c.Empty())
}

func TestService_SetQuantity(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()
	_, _ = svc.AddItem(ctx, "s1", 2)

	res, err := svc.SetQuantity(ctx, "s1", 2, 7)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, 7, res.Quantity)
	requireDecimal(t, "350", res.CartTotal)

	res, err = svc.SetQuantity(ctx, "s1", 2, 11)
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, cart.MsgStockInsufficient, res.Message)
	assert.Equal(t, 7, res.Quantity)

	res, err = svc.SetQuantity(ctx, "s1", 2, -3)
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, cart.MsgInvalidQuantity, res.Message)

	res, err = svc.SetQuantity(ctx, "s1", 2, 0)
	require.NoError(t, err)
	assert.True(t, res.Removed)
}

func TestService_TotalsUseLivePrices(t *testing.T) {
	svc, catalog, src := newService(t)
	ctx := context.Background()
	_, _ = svc.AddItem(ctx, "s1", 2)
	_, _ = svc.AddItem(ctx, "s1", 2)

	catalog.setPrice(2, 60)
	sum, err := svc.View(ctx, "s1")
	require.NoError(t, err)
	requireDecimal(t, "120", sum.Subtotal)

	src.discounts = []domain.Discount{window(domain.Discount{ID: 1, Kind: domain.KindPercentage, Value: decimal.NewFromInt(50)})}
	sum, err = svc.View(ctx, "s1")
	require.NoError(t, err)
	requireDecimal(t, "60", sum.Subtotal)
}

func TestService_ViewDeliveryFee(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	empty, err := svc.View(ctx, "s1")
	require.NoError(t, err)
	requireDecimal(t, "0", empty.DeliveryFee)

	_, _ = svc.AddItem(ctx, "s1", 2)
	sum, err := svc.View(ctx, "s1")
	require.NoError(t, err)
	assert.False(t, sum.FreeShipping)
	requireDecimal(t, "10", sum.DeliveryFee)
	requireDecimal(t, "60", sum.Total)
}

func TestService_FreeShipping_ScenarioD(t *testing.T) {
	fs := window(domain.Discount{ID: 1, Kind: domain.KindFreeShipping, TargetProductID: ptr(int64(1))})
	svc, _, _ := newService(t, fs)
	ctx := context.Background()

	_, _ = svc.AddItem(ctx, "s1", 1)
	_, _ = svc.AddItem(ctx, "s1", 2)

	sum, err := svc.View(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, sum.FreeShipping)
	requireDecimal(t, "0", sum.DeliveryFee)
	requireDecimal(t, "150", sum.Subtotal)
	requireDecimal(t, "150", sum.Total)
	requireDecimal(t, "100", sum.Lines[0].Quote.DiscountedUnitPrice)
}

func TestService_PercentageDiscount_ScenarioB(t *testing.T) {
	d := window(domain.Discount{ID: 1, Kind: domain.KindPercentage, Value: decimal.NewFromInt(20), TargetCategoryID: ptr(int64(10))})
	svc, _, _ := newService(t, d)
	ctx := context.Background()

	_, _ = svc.AddItem(ctx, "s1", 1)
	res, err := svc.AddItem(ctx, "s1", 1)
	require.NoError(t, err)
	requireDecimal(t, "160", res.RowTotal)

	sum, err := svc.View(ctx, "s1")
	require.NoError(t, err)
	requireDecimal(t, "80", sum.Lines[0].Quote.DiscountedUnitPrice)
	requireDecimal(t, "40", sum.Lines[0].Quote.Savings)
}

func TestService_DiscountSourceFailure(t *testing.T) {
	svc, _, src := newService(t)
	src.err = errors.New("boom")

	_, err := svc.View(context.Background(), "s1")
	assert.Error(t, err)
}

func TestService_ConcurrentAddsRespectStock(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	var mu sync.Mutex
	accepted := 0
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := svc.AddItem(ctx, "s1", 1)
			if err == nil && res.Success {
				mu.Lock()
				accepted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 2, accepted)
	sum, err := svc.View(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 2, sum.Lines[0].Quote.Quantity)
}

func TestService_Discard(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()
	_, _ = svc.AddItem(ctx, "s1", 2)

	require.NoError(t, svc.Discard(ctx, "s1"))
	sum, err := svc.View(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, sum.Lines)
}
