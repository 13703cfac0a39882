package catalog

import (
	"context"
	"time"

	"github.com/jcmexdev/ecommerce-pricing/internal/pricing/domain"
)

type ProductRepository interface {
	CreateProduct(ctx context.Context, p domain.Product) (domain.Product, error)
	GetProduct(ctx context.Context, id int64) (domain.Product, error)
	ListProducts(ctx context.Context, f domain.ProductFilter) ([]domain.Product, error)
	UpdateProduct(ctx context.Context, p domain.Product) error
	SetStock(ctx context.Context, id int64, stock int) (domain.StockLevel, error)

	DeleteProduct(ctx context.Context, id int64) error
	DeletedProducts(ctx context.Context) ([]domain.Product, error)
	RestoreProduct(ctx context.Context, id int64) error
	PurgeProduct(ctx context.Context, id int64) error
}

type CategoryRepository interface {
	CreateCategory(ctx context.Context, name string) (domain.Category, error)
	GetCategory(ctx context.Context, id int64) (domain.Category, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
	UpdateCategory(ctx context.Context, c domain.Category) error
	DeleteCategory(ctx context.Context, id int64) error
}

type DiscountRepository interface {
	CreateDiscount(ctx context.Context, d domain.Discount) (domain.Discount, error)
	GetDiscount(ctx context.Context, id int64) (domain.Discount, error)
	ListDiscounts(ctx context.Context) ([]domain.Discount, error)
	ActiveDiscounts(ctx context.Context, at time.Time) ([]domain.Discount, error)
	DiscountByPromoCode(ctx context.Context, code string, at time.Time) (domain.Discount, error)
	UpdateDiscount(ctx context.Context, d domain.Discount) error
	DeleteDiscount(ctx context.Context, id int64) error
}

// StockNotifier receives the alerts raised by stock changes.
type StockNotifier interface {
	StockRupture(ctx context.Context, productID int64, name string)
	StockLow(ctx context.Context, productID int64, name string, qty int)
	ProductRestock(ctx context.Context, productID int64, name string, qty int)
}
