// Package pricing resolves promotional discounts for products and computes
// discounted unit prices and row totals.
//
// An Engine is built from a snapshot of discounts and a reference time.
// Everything it does is a pure function of that snapshot, so one Engine can be
// shared by concurrent readers for the duration of a request.
package pricing

import (
	"time"

	"github.com/jcmexdev/ecommerce-pricing/internal/pricing/domain"
)

type Engine struct {
	now    time.Time
	active []domain.Discount
}

// NewEngine keeps only the discounts in effect at now. Discounts with an
// inverted window are dropped here and never reach resolution.
func NewEngine(discounts []domain.Discount, now time.Time) *Engine {
	active := make([]domain.Discount, 0, len(discounts))
	for _, d := range discounts {
		if d.InEffect(now) {
			active = append(active, d)
		}
	}
	return &Engine{now: now, active: active}
}

// Now is the reference time of the snapshot.
func (e *Engine) Now() time.Time { return e.now }

// Active returns the in-effect discounts of the snapshot.
func (e *Engine) Active() []domain.Discount {
	out := make([]domain.Discount, len(e.active))
	copy(out, e.active)
	return out
}

// Resolve returns the single discount that applies to p.
//
// Precedence: a product-targeted discount beats a category-targeted one,
// which beats a global one. Within the same level the most recently created
// discount wins, then the highest ID.
func (e *Engine) Resolve(p domain.Product) (domain.Discount, bool) {
	var (
		best  domain.Discount
		found bool
	)
	for _, d := range e.active {
		if !d.AppliesTo(p) {
			continue
		}
		if !found || outranks(d, best, p) {
			best, found = d, true
		}
	}
	return best, found
}

// specificity ranks how precisely d targets p. Only called for discounts that
// apply to p.
func specificity(d domain.Discount, p domain.Product) int {
	switch {
	case d.TargetProductID != nil && *d.TargetProductID == p.ID:
		return 2
	case d.TargetCategoryID != nil && *d.TargetCategoryID == p.CategoryID:
		return 1
	default:
		return 0
	}
}

func outranks(a, b domain.Discount, p domain.Product) bool {
	sa, sb := specificity(a, p), specificity(b, p)
	if sa != sb {
		return sa > sb
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID > b.ID
}
