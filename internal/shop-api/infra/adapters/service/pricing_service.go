package service

import (
	"context"
	"time"

	"github.com/jcmexdev/ecommerce-pricing/internal/pricing"
	"github.com/jcmexdev/ecommerce-pricing/internal/pricing/domain"
	"github.com/jcmexdev/ecommerce-pricing/internal/shop-api/core/ports"
)

type ProductSource interface {
	GetProduct(ctx context.Context, id int64) (domain.Product, error)
}

type DiscountSource interface {
	ActiveDiscounts(ctx context.Context, at time.Time) ([]domain.Discount, error)
}

// Ensure localPricingService implements the port at compile time.
var _ ports.PricingService = (*localPricingService)(nil)

// localPricingService prices in process against the shop database.
type localPricingService struct {
	products  ProductSource
	discounts DiscountSource
	now       func() time.Time
}

func NewLocalPricingService(products ProductSource, discounts DiscountSource) ports.PricingService {
	return &localPricingService{products: products, discounts: discounts, now: time.Now}
}

func (s *localPricingService) load(ctx context.Context, productID int64) (domain.Product, *pricing.Engine, error) {
	p, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return domain.Product{}, nil, err
	}
	now := s.now()
	active, err := s.discounts.ActiveDiscounts(ctx, now)
	if err != nil {
		return domain.Product{}, nil, err
	}
	return p, pricing.NewEngine(active, now), nil
}

func (s *localPricingService) Quote(ctx context.Context, productID int64, qty int) (pricing.Quote, error) {
	if qty < 0 {
		return pricing.Quote{}, domain.ErrInvalidQuantity
	}
	p, e, err := s.load(ctx, productID)
	if err != nil {
		return pricing.Quote{}, err
	}
	return e.Quote(p, qty), nil
}

func (s *localPricingService) ResolveDiscount(ctx context.Context, productID int64) (*domain.Discount, error) {
	p, e, err := s.load(ctx, productID)
	if err != nil {
		return nil, err
	}
	d, ok := e.Resolve(p)
	if !ok {
		return nil, nil
	}
	return &d, nil
}
