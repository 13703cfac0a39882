package pricingrpc

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jcmexdev/ecommerce-pricing/internal/pricing"
	"github.com/jcmexdev/ecommerce-pricing/internal/pricing/domain"
)

type QuoteRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

type QuoteResponse struct {
	ProductID           int64            `json:"product_id"`
	Quantity            int              `json:"quantity"`
	UnitPrice           decimal.Decimal  `json:"unit_price"`
	DiscountedUnitPrice decimal.Decimal  `json:"discounted_unit_price"`
	RowTotal            decimal.Decimal  `json:"row_total"`
	Savings             decimal.Decimal  `json:"savings"`
	FreeShipping        bool             `json:"free_shipping"`
	Discount            *DiscountMessage `json:"discount,omitempty"`
}

type ResolveDiscountRequest struct {
	ProductID int64 `json:"product_id"`
}

type ResolveDiscountResponse struct {
	Found    bool             `json:"found"`
	Discount *DiscountMessage `json:"discount,omitempty"`
}

type DiscountMessage struct {
	ID               int64           `json:"id"`
	Name             string          `json:"name"`
	Kind             string          `json:"kind"`
	Value            decimal.Decimal `json:"value"`
	StartDate        time.Time       `json:"start_date"`
	EndDate          time.Time       `json:"end_date"`
	PromoCode        string          `json:"promo_code,omitempty"`
	TargetProductID  *int64          `json:"target_product_id,omitempty"`
	TargetCategoryID *int64          `json:"target_category_id,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
}

func toDiscountMessage(d *domain.Discount) *DiscountMessage {
	if d == nil {
		return nil
	}
	return &DiscountMessage{
		ID:               d.ID,
		Name:             d.Name,
		Kind:             string(d.Kind),
		Value:            d.Value,
		StartDate:        d.StartDate,
		EndDate:          d.EndDate,
		PromoCode:        d.PromoCode,
		TargetProductID:  d.TargetProductID,
		TargetCategoryID: d.TargetCategoryID,
		CreatedAt:        d.CreatedAt,
	}
}

func (m *DiscountMessage) toDomain() *domain.Discount {
	if m == nil {
		return nil
	}
	return &domain.Discount{
		ID:               m.ID,
		Name:             m.Name,
		Kind:             domain.DiscountKind(m.Kind),
		Value:            m.Value,
		StartDate:        m.StartDate,
		EndDate:          m.EndDate,
		Active:           true,
		PromoCode:        m.PromoCode,
		TargetProductID:  m.TargetProductID,
		TargetCategoryID: m.TargetCategoryID,
		CreatedAt:        m.CreatedAt,
	}
}

func toQuoteResponse(q pricing.Quote) *QuoteResponse {
	return &QuoteResponse{
		ProductID:           q.ProductID,
		Quantity:            q.Quantity,
		UnitPrice:           q.UnitPrice,
		DiscountedUnitPrice: q.DiscountedUnitPrice,
		RowTotal:            q.RowTotal,
		Savings:             q.Savings,
		FreeShipping:        q.FreeShipping,
		Discount:            toDiscountMessage(q.Discount),
	}
}

func (r *QuoteResponse) toQuote() pricing.Quote {
	return pricing.Quote{
		ProductID:           r.ProductID,
		Quantity:            r.Quantity,
		UnitPrice:           r.UnitPrice,
		DiscountedUnitPrice: r.DiscountedUnitPrice,
		RowTotal:            r.RowTotal,
		Savings:             r.Savings,
		FreeShipping:        r.FreeShipping,
		Discount:            r.Discount.toDomain(),
	}
}
