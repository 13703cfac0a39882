package catalog_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/ecommerce-pricing/internal/catalog"
	"github.com/jcmexdev/ecommerce-pricing/internal/notify"
	"github.com/jcmexdev/ecommerce-pricing/internal/pricing/domain"
	"github.com/jcmexdev/ecommerce-pricing/internal/storage/sqlite"
)

func newService(t *testing.T) (*catalog.Service, *notify.Recorder) {
	t.Helper()
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	rec := &notify.Recorder{}
	return catalog.NewService(store, store, store, notify.NewNotifier(rec), 20), rec
}

func TestCreateProduct_Validation(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.CreateProduct(ctx, domain.Product{Name: "  ", Price: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, domain.ErrInvalidProduct)

	_, err = svc.CreateProduct(ctx, domain.Product{Name: "Widget", Price: decimal.NewFromInt(-1)})
	assert.ErrorIs(t, err, domain.ErrInvalidProduct)

	_, err = svc.CreateProduct(ctx, domain.Product{Name: "Widget", Price: decimal.NewFromInt(1), Stock: -3})
	assert.ErrorIs(t, err, domain.ErrInvalidProduct)

	p, err := svc.CreateProduct(ctx, domain.Product{Name: " Widget ", Price: decimal.NewFromInt(10), Stock: 3})
	require.NoError(t, err)
	assert.Equal(t, "Widget", p.Name)
	assert.NotZero(t, p.ID)
}

func TestSetStock_Alerts(t *testing.T) {
	svc, rec := newService(t)
	ctx := context.Background()

	p, err := svc.CreateProduct(ctx, domain.Product{Name: "Widget", Price: decimal.NewFromInt(10), Stock: 50})
	require.NoError(t, err)

	_, err = svc.SetStock(ctx, p.ID, 30)
	require.NoError(t, err)
	assert.Empty(t, rec.Kinds(), "still above threshold")

	_, err = svc.SetStock(ctx, p.ID, 15)
	require.NoError(t, err)
	_, err = svc.SetStock(ctx, p.ID, 0)
	require.NoError(t, err)
	lvl, err := svc.SetStock(ctx, p.ID, 40)
	require.NoError(t, err)
	assert.Equal(t, domain.StockLevel{ProductID: p.ID, Name: "Widget", Before: 0, After: 40}, lvl)

	assert.Equal(t, []notify.Kind{notify.KindStockLow, notify.KindStockRupture, notify.KindProductRestock}, rec.Kinds())

	_, err = svc.SetStock(ctx, p.ID, -1)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
	_, err = svc.SetStock(ctx, 999, 1)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func validDiscount() domain.Discount {
	start := time.Now().Add(-time.Hour).UTC()
	return domain.Discount{
		Name:      "Spring sale",
		Kind:      domain.KindPercentage,
		Value:     decimal.NewFromInt(20),
		StartDate: start,
		EndDate:   start.Add(48 * time.Hour),
		Active:    true,
		PromoCode: "SPRING",
	}
}

func TestCreateDiscount_Validation(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(d *domain.Discount)
	}{
		{"missing name", func(d *domain.Discount) { d.Name = "" }},
		{"unknown kind", func(d *domain.Discount) { d.Kind = "BOGO" }},
		{"zero value", func(d *domain.Discount) { d.Value = decimal.Zero }},
		{"over hundred", func(d *domain.Discount) { d.Value = decimal.NewFromInt(101) }},
		{"start after end", func(d *domain.Discount) { d.StartDate = d.EndDate.Add(time.Minute) }},
		{"start equals end", func(d *domain.Discount) { d.StartDate = d.EndDate }},
		{"both targets", func(d *domain.Discount) {
			pid, cid := int64(1), int64(2)
			d.TargetProductID, d.TargetCategoryID = &pid, &cid
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDiscount()
			tt.mutate(&d)
			_, err := svc.CreateDiscount(ctx, d, "admin")
			assert.ErrorIs(t, err, domain.ErrInvalidDiscount)
		})
	}

	fs := validDiscount()
	fs.Kind = domain.KindFreeShipping
	fs.Value = decimal.Zero
	_, err := svc.CreateDiscount(ctx, fs, "admin")
	assert.NoError(t, err, "free shipping carries no value")
}

func TestDiscountLifecycle(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	d, err := svc.CreateDiscount(ctx, validDiscount(), "admin")
	require.NoError(t, err)
	assert.Equal(t, "admin", d.CreatedBy)

	found, err := svc.DiscountByPromoCode(ctx, " SPRING ")
	require.NoError(t, err)
	assert.Equal(t, d.ID, found.ID)

	toggled, err := svc.ToggleDiscount(ctx, d.ID, "ops")
	require.NoError(t, err)
	assert.False(t, toggled.Active)
	assert.Equal(t, "ops", toggled.ModifiedBy)

	_, err = svc.DiscountByPromoCode(ctx, "SPRING")
	assert.ErrorIs(t, err, domain.ErrDiscountNotFound, "inactive discounts are not looked up")

	active, err := svc.ActiveDiscounts(ctx, time.Now())
	require.NoError(t, err)
	assert.Empty(t, active)

	upd := toggled
	upd.Name = "Summer sale"
	upd.Value = decimal.NewFromInt(35)
	upd.Active = true
	got, err := svc.UpdateDiscount(ctx, upd, "ops")
	require.NoError(t, err)
	assert.Equal(t, "admin", got.CreatedBy)

	stored, err := svc.GetDiscount(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, "Summer sale", stored.Name)
	assert.True(t, decimal.NewFromInt(35).Equal(stored.Value))

	second, err := svc.CreateDiscount(ctx, validDiscount(), "admin")
	require.NoError(t, err)
	all, err := svc.ListDiscounts(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID, "newest first")

	require.NoError(t, svc.DeleteDiscount(ctx, d.ID))
	assert.ErrorIs(t, svc.DeleteDiscount(ctx, d.ID), domain.ErrDiscountNotFound)
	_, err = svc.ToggleDiscount(ctx, d.ID, "ops")
	assert.ErrorIs(t, err, domain.ErrDiscountNotFound)
	_, err = svc.DiscountByPromoCode(ctx, "")
	assert.ErrorIs(t, err, domain.ErrDiscountNotFound)
}
