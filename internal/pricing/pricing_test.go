package pricing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/ecommerce-pricing/internal/pricing/domain"
)

var (
	now     = time.Date(2025, 11, 18, 12, 0, 0, 0, time.UTC)
	widget  = domain.Product{ID: 1, Name: "Widget", Price: decimal.NewFromInt(100), Stock: 5, CategoryID: 10}
	gadget  = domain.Product{ID: 2, Name: "Gadget", Price: decimal.NewFromInt(40), Stock: 5, CategoryID: 20}
	twoDays = 48 * time.Hour
)

func ptr[T any](v T) *T { return &v }

func percentage(id int64, value int64) domain.Discount {
	return domain.Discount{
		ID:        id,
		Kind:      domain.KindPercentage,
		Value:     decimal.NewFromInt(value),
		Active:    true,
		StartDate: now.Add(-twoDays),
		EndDate:   now.Add(twoDays),
		CreatedAt: now.Add(-twoDays),
	}
}

func freeShipping(id int64) domain.Discount {
	d := percentage(id, 0)
	d.Kind = domain.KindFreeShipping
	return d
}

func requireDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	require.Truef(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got)
}

func TestResolve_NoDiscount(t *testing.T) {
	e := NewEngine(nil, now)

	_, ok := e.Resolve(widget)
	assert.False(t, ok)
	requireDecimal(t, "100", e.DiscountedPrice(widget, widget.Price))
}

func TestResolve_Targets(t *testing.T) {
	byProduct := percentage(1, 10)
	byProduct.TargetProductID = ptr(widget.ID)
	byCategory := percentage(2, 15)
	byCategory.TargetCategoryID = ptr(gadget.CategoryID)

	e := NewEngine([]domain.Discount{byProduct, byCategory}, now)

	d, ok := e.Resolve(widget)
	require.True(t, ok)
	assert.Equal(t, int64(1), d.ID)

	d, ok = e.Resolve(gadget)
	require.True(t, ok)
	assert.Equal(t, int64(2), d.ID)

	_, ok = e.Resolve(domain.Product{ID: 99, CategoryID: 99})
	assert.False(t, ok)
}

func TestResolve_Precedence(t *testing.T) {
	global := percentage(1, 5)
	byCategory := percentage(2, 10)
	byCategory.TargetCategoryID = ptr(widget.CategoryID)
	byProduct := percentage(3, 20)
	byProduct.TargetProductID = ptr(widget.ID)

	// Order of the snapshot must not matter.
	for _, snapshot := range [][]domain.Discount{
		{global, byCategory, byProduct},
		{byProduct, byCategory, global},
		{byCategory, global, byProduct},
	} {
		d, ok := NewEngine(snapshot, now).Resolve(widget)
		require.True(t, ok)
		assert.Equal(t, int64(3), d.ID)
	}

	d, ok := NewEngine([]domain.Discount{global, byCategory}, now).Resolve(widget)
	require.True(t, ok)
	assert.Equal(t, int64(2), d.ID)
}

func TestResolve_TieBreak(t *testing.T) {
	older := percentage(1, 10)
	newer := percentage(2, 30)
	newer.CreatedAt = older.CreatedAt.Add(time.Hour)

	d, ok := NewEngine([]domain.Discount{newer, older}, now).Resolve(widget)
	require.True(t, ok)
	assert.Equal(t, int64(2), d.ID)

	sameTimeLow := percentage(4, 10)
	sameTimeHigh := percentage(9, 10)
	d, ok = NewEngine([]domain.Discount{sameTimeHigh, sameTimeLow}, now).Resolve(widget)
	require.True(t, ok)
	assert.Equal(t, int64(9), d.ID)
}

func TestResolve_Idempotent(t *testing.T) {
	a := percentage(1, 10)
	b := percentage(2, 10)
	e := NewEngine([]domain.Discount{a, b}, now)

	first, _ := e.Resolve(widget)
	second, _ := e.Resolve(widget)
	assert.Equal(t, first.ID, second.ID)
}

func TestResolve_ExpiredDiscountIgnored(t *testing.T) {
	expired := percentage(1, 50)
	expired.StartDate = now.Add(-10 * twoDays)
	expired.EndDate = now.Add(-time.Minute)

	_, ok := NewEngine([]domain.Discount{expired}, now).Resolve(widget)
	assert.False(t, ok)
}

func TestResolve_InvalidWindowAndInactiveIgnored(t *testing.T) {
	inverted := percentage(1, 50)
	inverted.StartDate, inverted.EndDate = inverted.EndDate, inverted.StartDate
	inactive := percentage(2, 50)
	inactive.Active = false
	future := percentage(3, 50)
	future.StartDate = now.Add(time.Hour)

	e := NewEngine([]domain.Discount{inverted, inactive, future}, now)
	_, ok := e.Resolve(widget)
	assert.False(t, ok)
	assert.Empty(t, e.Active())
}

func TestDiscountedPrice_Percentage(t *testing.T) {
	e := NewEngine([]domain.Discount{percentage(1, 20)}, now)
	requireDecimal(t, "80", e.DiscountedPrice(widget, widget.Price))
}

func TestDiscountedPrice_ClampedAtZero(t *testing.T) {
	e := NewEngine([]domain.Discount{percentage(1, 150)}, now)
	requireDecimal(t, "0", e.DiscountedPrice(widget, widget.Price))
}

func TestDiscountedPrice_MonotonicInValue(t *testing.T) {
	prev := widget.Price
	for v := int64(0); v <= 100; v += 5 {
		e := NewEngine([]domain.Discount{percentage(1, v)}, now)
		got := e.DiscountedPrice(widget, widget.Price)

		want := widget.Price.Mul(decimal.NewFromInt(100 - v)).Div(decimal.NewFromInt(100))
		requireDecimal(t, want.String(), got)
		assert.True(t, got.LessThanOrEqual(prev), "value %d raised the price", v)
		prev = got
	}
}

func TestFreeShipping_IdentityPrice(t *testing.T) {
	e := NewEngine([]domain.Discount{freeShipping(1)}, now)

	requireDecimal(t, "100", e.DiscountedPrice(widget, widget.Price))
	requireDecimal(t, "300", e.RowTotal(widget, 3, widget.Price))
	assert.True(t, e.HasFreeShipping(widget))
	requireDecimal(t, "0", DiscountAmount(widget.Price, freeShipping(1)))
}

func TestRowTotal_ScenarioA_NoDiscount(t *testing.T) {
	e := NewEngine(nil, now)
	requireDecimal(t, "300", e.RowTotal(widget, 3, widget.Price))
	assert.False(t, e.HasFreeShipping(widget))
}

func TestRowTotal_ScenarioB_Percentage(t *testing.T) {
	e := NewEngine([]domain.Discount{percentage(1, 20)}, now)

	q := e.Quote(widget, 2)
	requireDecimal(t, "80", q.DiscountedUnitPrice)
	requireDecimal(t, "160", q.RowTotal)
	requireDecimal(t, "40", q.Savings)
	require.NotNil(t, q.Discount)
	assert.Equal(t, domain.KindPercentage, q.Discount.Kind)
	assert.False(t, q.FreeShipping)
}

func TestRowTotal_PerUnitBeforeMultiply(t *testing.T) {
	odd := domain.Product{ID: 5, Price: decimal.RequireFromString("19.99"), Stock: 10}
	e := NewEngine([]domain.Discount{percentage(1, 15)}, now)

	for qty := 1; qty <= 7; qty++ {
		want := e.DiscountedPrice(odd, odd.Price).Mul(decimal.NewFromInt(int64(qty)))
		assert.True(t, want.Equal(e.RowTotal(odd, qty, odd.Price)), "qty %d", qty)
	}
}

func TestQuote_NoDiscount(t *testing.T) {
	q := NewEngine(nil, now).Quote(gadget, 3)

	requireDecimal(t, "40", q.UnitPrice)
	requireDecimal(t, "40", q.DiscountedUnitPrice)
	requireDecimal(t, "120", q.RowTotal)
	requireDecimal(t, "0", q.Savings)
	assert.Nil(t, q.Discount)
}
