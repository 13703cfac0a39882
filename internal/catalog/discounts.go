package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jcmexdev/ecommerce-pricing/internal/pricing/domain"
)

func validateDiscount(d domain.Discount) error {
	switch {
	case strings.TrimSpace(d.Name) == "":
		return fmt.Errorf("%w: name is required", domain.ErrInvalidDiscount)
	case !d.Kind.Valid():
		return fmt.Errorf("%w: unknown kind %q", domain.ErrInvalidDiscount, d.Kind)
	case d.Kind == domain.KindPercentage && !d.Value.IsPositive():
		return fmt.Errorf("%w: value must be greater than zero", domain.ErrInvalidDiscount)
	case d.Kind == domain.KindPercentage && d.Value.GreaterThan(hundred):
		return fmt.Errorf("%w: percentage cannot exceed 100", domain.ErrInvalidDiscount)
	case d.StartDate.IsZero() || d.EndDate.IsZero():
		return fmt.Errorf("%w: start and end dates are required", domain.ErrInvalidDiscount)
	case !d.StartDate.Before(d.EndDate):
		return fmt.Errorf("%w: start date must be before end date", domain.ErrInvalidDiscount)
	case d.TargetProductID != nil && d.TargetCategoryID != nil:
		return fmt.Errorf("%w: target a product or a category, not both", domain.ErrInvalidDiscount)
	}
	return nil
}

// ListDiscounts returns every discount, newest first.
func (s *Service) ListDiscounts(ctx context.Context) ([]domain.Discount, error) {
	return s.discounts.ListDiscounts(ctx)
}

func (s *Service) GetDiscount(ctx context.Context, id int64) (domain.Discount, error) {
	return s.discounts.GetDiscount(ctx, id)
}

// ActiveDiscounts returns the discounts in effect at the given time.
func (s *Service) ActiveDiscounts(ctx context.Context, at time.Time) ([]domain.Discount, error) {
	return s.discounts.ActiveDiscounts(ctx, at)
}

func (s *Service) CreateDiscount(ctx context.Context, d domain.Discount, by string) (domain.Discount, error) {
	if err := validateDiscount(d); err != nil {
		return domain.Discount{}, err
	}
	d.Name = strings.TrimSpace(d.Name)
	d.PromoCode = strings.TrimSpace(d.PromoCode)
	d.CreatedBy = by
	d.CreatedAt = s.now().UTC()
	d.CurrentUsageCount = 0

	created, err := s.discounts.CreateDiscount(ctx, d)
	if err != nil {
		return domain.Discount{}, err
	}
	slog.InfoContext(ctx, "discount created", "discount_id", created.ID, "name", created.Name, "kind", created.Kind)
	return created, nil
}

// UpdateDiscount replaces the editable fields of an existing discount.
func (s *Service) UpdateDiscount(ctx context.Context, d domain.Discount, by string) (domain.Discount, error) {
	current, err := s.discounts.GetDiscount(ctx, d.ID)
	if err != nil {
		return domain.Discount{}, err
	}
	if err := validateDiscount(d); err != nil {
		return domain.Discount{}, err
	}

	now := s.now().UTC()
	d.Name = strings.TrimSpace(d.Name)
	d.PromoCode = strings.TrimSpace(d.PromoCode)
	d.CreatedBy = current.CreatedBy
	d.CreatedAt = current.CreatedAt
	d.CurrentUsageCount = current.CurrentUsageCount
	d.ModifiedBy = by
	d.ModifiedAt = &now

	if err := s.discounts.UpdateDiscount(ctx, d); err != nil {
		return domain.Discount{}, err
	}
	slog.InfoContext(ctx, "discount updated", "discount_id", d.ID)
	return d, nil
}

// ToggleDiscount flips the active flag and returns the updated discount.
func (s *Service) ToggleDiscount(ctx context.Context, id int64, by string) (domain.Discount, error) {
	d, err := s.discounts.GetDiscount(ctx, id)
	if err != nil {
		return domain.Discount{}, err
	}
	now := s.now().UTC()
	d.Active = !d.Active
	d.ModifiedBy = by
	d.ModifiedAt = &now

	if err := s.discounts.UpdateDiscount(ctx, d); err != nil {
		return domain.Discount{}, err
	}
	slog.InfoContext(ctx, "discount toggled", "discount_id", id, "active", d.Active)
	return d, nil
}

func (s *Service) DeleteDiscount(ctx context.Context, id int64) error {
	if err := s.discounts.DeleteDiscount(ctx, id); err != nil {
		return err
	}
	slog.InfoContext(ctx, "discount deleted", "discount_id", id)
	return nil
}

// DiscountByPromoCode returns the discount currently in effect for code.
func (s *Service) DiscountByPromoCode(ctx context.Context, code string) (domain.Discount, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return domain.Discount{}, domain.ErrDiscountNotFound
	}
	return s.discounts.DiscountByPromoCode(ctx, code, s.now())
}
