package ports

import (
	"context"

	"github.com/jcmexdev/ecommerce-pricing/internal/cart"
	"github.com/jcmexdev/ecommerce-pricing/internal/checkout"
	"github.com/jcmexdev/ecommerce-pricing/internal/coordinator/sagalog"
	"github.com/jcmexdev/ecommerce-pricing/internal/pricing"
	"github.com/jcmexdev/ecommerce-pricing/internal/pricing/domain"
)

// PricingService quotes products, in process or through the pricing service.
type PricingService interface {
	Quote(ctx context.Context, productID int64, qty int) (pricing.Quote, error)
	ResolveDiscount(ctx context.Context, productID int64) (*domain.Discount, error)
}

type CartService interface {
	AddItem(ctx context.Context, sessionID string, productID int64) (cart.MutationResult, error)
	DecrementItem(ctx context.Context, sessionID string, productID int64) (cart.MutationResult, error)
	SetQuantity(ctx context.Context, sessionID string, productID int64, qty int) (cart.MutationResult, error)
	RemoveItem(ctx context.Context, sessionID string, productID int64) (cart.MutationResult, error)
	View(ctx context.Context, sessionID string) (cart.Summary, error)
}

type CheckoutService interface {
	Checkout(ctx context.Context, req checkout.Request) (domain.Order, error)
	GetOrder(ctx context.Context, id string) (domain.Order, error)
	UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (domain.Order, error)
	SagaHistory(ctx context.Context, orderID string) ([]sagalog.SagaLog, error)
}

type CatalogService interface {
	ListProducts(ctx context.Context, f domain.ProductFilter) ([]domain.Product, error)
	GetProduct(ctx context.Context, id int64) (domain.Product, error)
	CreateProduct(ctx context.Context, p domain.Product) (domain.Product, error)
	UpdateProduct(ctx context.Context, p domain.Product) (domain.Product, error)
	SetStock(ctx context.Context, id int64, stock int) (domain.StockLevel, error)

	DeleteProduct(ctx context.Context, id int64) error
	Trash(ctx context.Context) ([]domain.Product, error)
	RestoreProduct(ctx context.Context, id int64) (domain.Product, error)
	PurgeProduct(ctx context.Context, id int64) error

	ListCategories(ctx context.Context) ([]domain.Category, error)
	GetCategory(ctx context.Context, id int64) (domain.Category, error)
	CreateCategory(ctx context.Context, name string) (domain.Category, error)
	RenameCategory(ctx context.Context, id int64, name string) (domain.Category, error)
	DeleteCategory(ctx context.Context, id int64) error

	ListDiscounts(ctx context.Context) ([]domain.Discount, error)
	GetDiscount(ctx context.Context, id int64) (domain.Discount, error)
	CreateDiscount(ctx context.Context, d domain.Discount, by string) (domain.Discount, error)
	UpdateDiscount(ctx context.Context, d domain.Discount, by string) (domain.Discount, error)
	ToggleDiscount(ctx context.Context, id int64, by string) (domain.Discount, error)
	DeleteDiscount(ctx context.Context, id int64) error
	DiscountByPromoCode(ctx context.Context, code string) (domain.Discount, error)
}
