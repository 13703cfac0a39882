package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jcmexdev/ecommerce-pricing/internal/pricing/domain"
)

const discountColumns = `
	id, name, description, kind, value, minimum_amount, minimum_quantity,
	max_usage_count, current_usage_count, start_date, end_date, is_active,
	promo_code, target_product_id, target_category_id, created_by, created_at,
	modified_by, modified_at`

func scanDiscount(row rowScanner) (domain.Discount, error) {
	var (
		d                     domain.Discount
		kind, value           string
		minAmount             sql.NullString
		minQty, maxUsage      sql.NullInt64
		start, end, createdAt string
		active                int
		targetProd, targetCat sql.NullInt64
		modifiedAt            sql.NullString
	)
	err := row.Scan(
		&d.ID, &d.Name, &d.Description, &kind, &value, &minAmount, &minQty,
		&maxUsage, &d.CurrentUsageCount, &start, &end, &active,
		&d.PromoCode, &targetProd, &targetCat, &d.CreatedBy, &createdAt,
		&d.ModifiedBy, &modifiedAt,
	)
	if err != nil {
		return domain.Discount{}, err
	}

	d.Kind = domain.DiscountKind(kind)
	d.Active = active == 1
	d.MinimumQuantity = intPtr(minQty)
	d.MaxUsageCount = intPtr(maxUsage)
	d.TargetProductID = int64Ptr(targetProd)
	d.TargetCategoryID = int64Ptr(targetCat)

	if d.Value, err = parseDecimal(value); err != nil {
		return domain.Discount{}, err
	}
	if d.MinimumAmount, err = parseOptionalDecimal(minAmount); err != nil {
		return domain.Discount{}, err
	}
	if d.StartDate, err = parseTime(start); err != nil {
		return domain.Discount{}, err
	}
	if d.EndDate, err = parseTime(end); err != nil {
		return domain.Discount{}, err
	}
	if d.CreatedAt, err = parseTime(createdAt); err != nil {
		return domain.Discount{}, err
	}
	if d.ModifiedAt, err = parseOptionalTime(modifiedAt); err != nil {
		return domain.Discount{}, err
	}
	return d, nil
}

func (s *Store) queryDiscounts(ctx context.Context, q string, args ...any) ([]domain.Discount, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: query discounts: %w", err)
	}
	defer rows.Close()

	var out []domain.Discount
	for rows.Next() {
		d, err := scanDiscount(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scan discount: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *Store) CreateDiscount(ctx context.Context, d domain.Discount) (domain.Discount, error) {
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now().UTC()
	}
	const q = `
		INSERT INTO discounts
			(name, description, kind, value, minimum_amount, minimum_quantity,
			 max_usage_count, current_usage_count, start_date, end_date, is_active,
			 promo_code, target_product_id, target_category_id, created_by, created_at,
			 modified_by, modified_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	res, err := s.db.ExecContext(ctx, q,
		d.Name, d.Description, string(d.Kind), d.Value.String(),
		optionalDecimal(d.MinimumAmount), optionalInt(d.MinimumQuantity),
		optionalInt(d.MaxUsageCount), d.CurrentUsageCount,
		formatTime(d.StartDate), formatTime(d.EndDate), boolToInt(d.Active),
		d.PromoCode, optionalInt64(d.TargetProductID), optionalInt64(d.TargetCategoryID),
		d.CreatedBy, formatTime(d.CreatedAt), d.ModifiedBy, formatOptionalTime(d.ModifiedAt),
	)
	if err != nil {
		return domain.Discount{}, fmt.Errorf("sqlite: create discount %q: %w", d.Name, err)
	}
	if d.ID, err = res.LastInsertId(); err != nil {
		return domain.Discount{}, fmt.Errorf("sqlite: create discount %q: %w", d.Name, err)
	}
	return d, nil
}

func (s *Store) GetDiscount(ctx context.Context, id int64) (domain.Discount, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+discountColumns+` FROM discounts WHERE id = ?`, id)
	d, err := scanDiscount(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Discount{}, fmt.Errorf("sqlite: discount %d: %w", id, domain.ErrDiscountNotFound)
	}
	if err != nil {
		return domain.Discount{}, fmt.Errorf("sqlite: get discount %d: %w", id, err)
	}
	return d, nil
}

// ListDiscounts returns every discount, newest first.
func (s *Store) ListDiscounts(ctx context.Context) ([]domain.Discount, error) {
	return s.queryDiscounts(ctx, `SELECT `+discountColumns+` FROM discounts ORDER BY created_at DESC, id DESC`)
}

// ActiveDiscounts returns discounts switched on whose window contains at.
func (s *Store) ActiveDiscounts(ctx context.Context, at time.Time) ([]domain.Discount, error) {
	ts := formatTime(at)
	return s.queryDiscounts(ctx,
		`SELECT `+discountColumns+` FROM discounts
		 WHERE is_active = 1 AND start_date <= ? AND end_date >= ?
		 ORDER BY id`, ts, ts)
}

// DiscountByPromoCode returns the in-effect discount carrying code.
func (s *Store) DiscountByPromoCode(ctx context.Context, code string, at time.Time) (domain.Discount, error) {
	ts := formatTime(at)
	row := s.db.QueryRowContext(ctx,
		`SELECT `+discountColumns+` FROM discounts
		 WHERE promo_code = ? AND is_active = 1 AND start_date <= ? AND end_date >= ?
		 ORDER BY created_at DESC LIMIT 1`, code, ts, ts)
	d, err := scanDiscount(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Discount{}, fmt.Errorf("sqlite: promo code %q: %w", code, domain.ErrDiscountNotFound)
	}
	if err != nil {
		return domain.Discount{}, fmt.Errorf("sqlite: promo code %q: %w", code, err)
	}
	return d, nil
}

func (s *Store) UpdateDiscount(ctx context.Context, d domain.Discount) error {
	const q = `
		UPDATE discounts SET
			name = ?, description = ?, kind = ?, value = ?, minimum_amount = ?,
			minimum_quantity = ?, max_usage_count = ?, start_date = ?, end_date = ?,
			is_active = ?, promo_code = ?, target_product_id = ?, target_category_id = ?,
			modified_by = ?, modified_at = ?
		WHERE id = ?`

	res, err := s.db.ExecContext(ctx, q,
		d.Name, d.Description, string(d.Kind), d.Value.String(), optionalDecimal(d.MinimumAmount),
		optionalInt(d.MinimumQuantity), optionalInt(d.MaxUsageCount),
		formatTime(d.StartDate), formatTime(d.EndDate),
		boolToInt(d.Active), d.PromoCode, optionalInt64(d.TargetProductID), optionalInt64(d.TargetCategoryID),
		d.ModifiedBy, formatOptionalTime(d.ModifiedAt), d.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: update discount %d: %w", d.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("sqlite: discount %d: %w", d.ID, domain.ErrDiscountNotFound)
	}
	return nil
}

func (s *Store) DeleteDiscount(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM discounts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: delete discount %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("sqlite: discount %d: %w", id, domain.ErrDiscountNotFound)
	}
	return nil
}
