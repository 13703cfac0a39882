package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/jcmexdev/ecommerce-pricing/internal/pricing/domain"
)

var hundred = decimal.NewFromInt(100)

// DiscountAmount is the per-unit reduction d grants on price.
func DiscountAmount(price decimal.Decimal, d domain.Discount) decimal.Decimal {
	if d.Kind != domain.KindPercentage {
		return decimal.Zero
	}
	return price.Mul(d.Value).Div(hundred)
}

// DiscountedPrice applies the resolved discount to price. Free shipping never
// changes the unit price. The result is clamped at zero.
func (e *Engine) DiscountedPrice(p domain.Product, price decimal.Decimal) decimal.Decimal {
	d, ok := e.Resolve(p)
	if !ok || d.Kind != domain.KindPercentage {
		return price
	}
	return applyPercentage(price, d)
}

func applyPercentage(price decimal.Decimal, d domain.Discount) decimal.Decimal {
	return decimal.Max(decimal.Zero, price.Sub(DiscountAmount(price, d)))
}

// RowTotal is the post-discount subtotal for qty units of p sold at unit.
// The discount applies per unit before multiplying.
func (e *Engine) RowTotal(p domain.Product, qty int, unit decimal.Decimal) decimal.Decimal {
	q := decimal.NewFromInt(int64(qty))
	d, ok := e.Resolve(p)
	if !ok {
		return unit.Mul(q)
	}
	switch d.Kind {
	case domain.KindPercentage:
		return e.DiscountedPrice(p, unit).Mul(q)
	default:
		return unit.Mul(q)
	}
}

func (e *Engine) HasFreeShipping(p domain.Product) bool {
	d, ok := e.Resolve(p)
	return ok && d.Kind == domain.KindFreeShipping
}

// Quote is the priced view of qty units of a product.
type Quote struct {
	ProductID           int64
	Quantity            int
	UnitPrice           decimal.Decimal
	DiscountedUnitPrice decimal.Decimal
	RowTotal            decimal.Decimal
	Savings             decimal.Decimal
	FreeShipping        bool
	Discount            *domain.Discount
}

// Quote prices qty units of p at its current catalog price.
func (e *Engine) Quote(p domain.Product, qty int) Quote {
	rowTotal := e.RowTotal(p, qty, p.Price)
	q := Quote{
		ProductID:           p.ID,
		Quantity:            qty,
		UnitPrice:           p.Price,
		DiscountedUnitPrice: e.DiscountedPrice(p, p.Price),
		RowTotal:            rowTotal,
		Savings:             p.Price.Mul(decimal.NewFromInt(int64(qty))).Sub(rowTotal),
		FreeShipping:        e.HasFreeShipping(p),
	}
	if d, ok := e.Resolve(p); ok {
		q.Discount = &d
	}
	return q
}
