package catalog_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/ecommerce-pricing/internal/pricing/domain"
)

func TestCategories_Lifecycle(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.CreateCategory(ctx, "   ")
	assert.ErrorIs(t, err, domain.ErrInvalidCategory)

	books, err := svc.CreateCategory(ctx, " Books ")
	require.NoError(t, err)
	assert.Equal(t, "Books", books.Name)

	_, err = svc.CreateCategory(ctx, "BOOKS")
	assert.ErrorIs(t, err, domain.ErrInvalidCategory)

	renamed, err := svc.RenameCategory(ctx, books.ID, "Novels")
	require.NoError(t, err)
	assert.Equal(t, "Novels", renamed.Name)
	_, err = svc.RenameCategory(ctx, books.ID, "")
	assert.ErrorIs(t, err, domain.ErrInvalidCategory)

	p, err := svc.CreateProduct(ctx, domain.Product{Name: "Dune", Price: decimal.NewFromInt(9), CategoryID: books.ID})
	require.NoError(t, err)
	assert.ErrorIs(t, svc.DeleteCategory(ctx, books.ID), domain.ErrCategoryInUse)

	require.NoError(t, svc.DeleteProduct(ctx, p.ID))
	require.NoError(t, svc.PurgeProduct(ctx, p.ID))
	require.NoError(t, svc.DeleteCategory(ctx, books.ID))

	_, err = svc.GetCategory(ctx, books.ID)
	assert.ErrorIs(t, err, domain.ErrCategoryNotFound)
	cats, err := svc.ListCategories(ctx)
	require.NoError(t, err)
	assert.Empty(t, cats)
}

func TestUpdateProduct(t *testing.T) {
	svc, rec := newService(t)
	ctx := context.Background()

	p, err := svc.CreateProduct(ctx, domain.Product{Name: "Widget", Price: decimal.NewFromInt(10), Stock: 5})
	require.NoError(t, err)

	_, err = svc.UpdateProduct(ctx, domain.Product{ID: p.ID, Name: " ", Price: decimal.NewFromInt(10)})
	assert.ErrorIs(t, err, domain.ErrInvalidProduct)
	_, err = svc.UpdateProduct(ctx, domain.Product{ID: p.ID, Name: "Widget", Price: decimal.NewFromInt(-1)})
	assert.ErrorIs(t, err, domain.ErrInvalidProduct)

	got, err := svc.UpdateProduct(ctx, domain.Product{ID: p.ID, Name: " Widget Pro ", Price: decimal.NewFromInt(15), Stock: -4, Image: "pro.png"})
	require.NoError(t, err)
	assert.Equal(t, "Widget Pro", got.Name)
	assert.True(t, decimal.NewFromInt(15).Equal(got.Price))
	assert.Equal(t, "pro.png", got.Image)
	assert.Equal(t, 5, got.Stock)
	assert.Empty(t, rec.Kinds(), "editing never raises stock alerts")

	_, err = svc.UpdateProduct(ctx, domain.Product{ID: 999, Name: "Ghost", Price: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestTrash(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	p, err := svc.CreateProduct(ctx, domain.Product{Name: "Widget", Price: decimal.NewFromInt(10), Stock: 5})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteProduct(ctx, p.ID))
	_, err = svc.GetProduct(ctx, p.ID)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
	live, err := svc.ListProducts(ctx, domain.ProductFilter{})
	require.NoError(t, err)
	assert.Empty(t, live)

	trash, err := svc.Trash(ctx)
	require.NoError(t, err)
	require.Len(t, trash, 1)
	assert.Equal(t, p.ID, trash[0].ID)

	restored, err := svc.RestoreProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, restored.Deleted)
	assert.Equal(t, 5, restored.Stock)

	_, err = svc.RestoreProduct(ctx, p.ID)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
	assert.ErrorIs(t, svc.PurgeProduct(ctx, p.ID), domain.ErrProductNotFound, "only trashed products can be purged")
}

func TestListProducts_Search(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	garden, err := svc.CreateCategory(ctx, "Garden")
	require.NoError(t, err)
	hose, err := svc.CreateProduct(ctx, domain.Product{Name: "Hose", Price: decimal.NewFromInt(20), CategoryID: garden.ID})
	require.NoError(t, err)
	_, err = svc.CreateProduct(ctx, domain.Product{Name: "Lamp", Price: decimal.NewFromInt(30)})
	require.NoError(t, err)

	found, err := svc.ListProducts(ctx, domain.ProductFilter{Query: "  hos "})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, hose.ID, found[0].ID)

	found, err = svc.ListProducts(ctx, domain.ProductFilter{CategoryID: garden.ID})
	require.NoError(t, err)
	require.Len(t, found, 1)

	all, err := svc.ListProducts(ctx, domain.ProductFilter{Query: "   "})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
