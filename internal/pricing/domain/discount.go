package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type DiscountKind string

const (
	KindPercentage   DiscountKind = "PERCENTAGE"
	KindFreeShipping DiscountKind = "FREE_SHIPPING"
)

func (k DiscountKind) Valid() bool {
	return k == KindPercentage || k == KindFreeShipping
}

// Discount is a time-bounded promotional rule. When both targets are nil the
// discount applies to every product.
type Discount struct {
	ID          int64
	Name        string
	Description string
	Kind        DiscountKind
	// Value is the percentage magnitude (20 means 20%). Ignored for FreeShipping.
	Value decimal.Decimal

	// Stored for administration, not enforced when pricing.
	MinimumAmount     *decimal.Decimal
	MinimumQuantity   *int
	MaxUsageCount     *int
	CurrentUsageCount int

	StartDate time.Time
	EndDate   time.Time
	Active    bool
	PromoCode string

	TargetProductID  *int64
	TargetCategoryID *int64

	CreatedBy  string
	CreatedAt  time.Time
	ModifiedBy string
	ModifiedAt *time.Time
}

// IsValid reports whether the discount is switched on and has a coherent window.
func (d Discount) IsValid() bool {
	return d.Active && !d.StartDate.After(d.EndDate)
}

// InEffect reports whether the discount is valid and t falls inside its window.
func (d Discount) InEffect(t time.Time) bool {
	return d.IsValid() && !t.Before(d.StartDate) && !t.After(d.EndDate)
}

func (d Discount) IsGlobal() bool {
	return d.TargetProductID == nil && d.TargetCategoryID == nil
}

// AppliesTo reports whether the discount targets p, either directly, through
// its category, or globally.
func (d Discount) AppliesTo(p Product) bool {
	if d.IsGlobal() {
		return true
	}
	if d.TargetProductID != nil && *d.TargetProductID == p.ID {
		return true
	}
	return d.TargetCategoryID != nil && *d.TargetCategoryID == p.CategoryID
}
