package cart

import (
	"context"
	"time"

	"github.com/jcmexdev/ecommerce-pricing/internal/pricing/domain"
)

// Store persists carts by session id. Load returns a fresh empty cart when
// the session has none yet.
type Store interface {
	Load(ctx context.Context, sessionID string) (*Cart, error)
	Save(ctx context.Context, c *Cart) error
	Delete(ctx context.Context, sessionID string) error
}

// Catalog looks up live products. Missing or soft-deleted products yield
// domain.ErrProductNotFound.
type Catalog interface {
	GetProduct(ctx context.Context, id int64) (domain.Product, error)
}

// DiscountSource lists the discounts in effect at a point in time.
type DiscountSource interface {
	ActiveDiscounts(ctx context.Context, at time.Time) ([]domain.Discount, error)
}
