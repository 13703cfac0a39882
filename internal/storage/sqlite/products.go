package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jcmexdev/ecommerce-pricing/internal/pricing/domain"
)

// CreateCategory adds a category. Names are unique regardless of case.
func (s *Store) CreateCategory(ctx context.Context, name string) (domain.Category, error) {
	var c domain.Category
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if err := categoryNameFree(ctx, tx, name, 0); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `INSERT INTO categories (name) VALUES (?)`, name)
		if err != nil {
			return fmt.Errorf("sqlite: create category %q: %w", name, err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("sqlite: create category %q: %w", name, err)
		}
		c = domain.Category{ID: id, Name: name}
		return nil
	})
	return c, err
}

func (s *Store) GetCategory(ctx context.Context, id int64) (domain.Category, error) {
	c := domain.Category{ID: id}
	err := s.db.QueryRowContext(ctx, `SELECT name FROM categories WHERE id = ?`, id).Scan(&c.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Category{}, fmt.Errorf("sqlite: category %d: %w", id, domain.ErrCategoryNotFound)
	}
	if err != nil {
		return domain.Category{}, fmt.Errorf("sqlite: get category %d: %w", id, err)
	}
	return c, nil
}

func (s *Store) ListCategories(ctx context.Context) ([]domain.Category, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list categories: %w", err)
	}
	defer rows.Close()

	var out []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("sqlite: scan category: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) UpdateCategory(ctx context.Context, c domain.Category) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := categoryNameFree(ctx, tx, c.Name, c.ID); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `UPDATE categories SET name = ? WHERE id = ?`, c.Name, c.ID)
		if err != nil {
			return fmt.Errorf("sqlite: update category %d: %w", c.ID, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("sqlite: category %d: %w", c.ID, domain.ErrCategoryNotFound)
		}
		return nil
	})
}

// DeleteCategory removes a category nothing points at. Trashed products still
// count, since restoring them would leave a dangling reference.
func (s *Store) DeleteCategory(ctx context.Context, id int64) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		var n int
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM products WHERE category_id = ?`, id).Scan(&n); err != nil {
			return fmt.Errorf("sqlite: count products of category %d: %w", id, err)
		}
		if n > 0 {
			return fmt.Errorf("sqlite: category %d has %d products: %w", id, n, domain.ErrCategoryInUse)
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("sqlite: delete category %d: %w", id, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("sqlite: category %d: %w", id, domain.ErrCategoryNotFound)
		}
		return nil
	})
}

func categoryNameFree(ctx context.Context, tx *sql.Tx, name string, self int64) error {
	var id int64
	err := tx.QueryRowContext(ctx, `SELECT id FROM categories WHERE name = ?`, name).Scan(&id)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil
	case err != nil:
		return fmt.Errorf("sqlite: lookup category %q: %w", name, err)
	case id == self:
		return nil
	}
	return fmt.Errorf("%w: category %q already exists", domain.ErrInvalidCategory, name)
}

func (s *Store) CreateProduct(ctx context.Context, p domain.Product) (domain.Product, error) {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	const q = `
		INSERT INTO products (name, price, stock, category_id, image, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`

	res, err := s.db.ExecContext(ctx, q, p.Name, p.Price.String(), p.Stock, p.CategoryID, p.Image, formatTime(p.CreatedAt))
	if err != nil {
		return domain.Product{}, fmt.Errorf("sqlite: create product %q: %w", p.Name, err)
	}
	p.ID, err = res.LastInsertId()
	if err != nil {
		return domain.Product{}, fmt.Errorf("sqlite: create product %q: %w", p.Name, err)
	}
	return p, nil
}

const productColumns = `p.id, p.name, p.price, p.stock, p.category_id, p.image, p.is_deleted, p.deleted_at, p.created_at, p.modified_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (domain.Product, error) {
	var (
		p          domain.Product
		price      string
		deleted    int
		deletedAt  sql.NullString
		createdAt  string
		modifiedAt sql.NullString
	)
	if err := row.Scan(&p.ID, &p.Name, &price, &p.Stock, &p.CategoryID, &p.Image, &deleted, &deletedAt, &createdAt, &modifiedAt); err != nil {
		return domain.Product{}, err
	}

	var err error
	if p.Price, err = parseDecimal(price); err != nil {
		return domain.Product{}, err
	}
	if p.CreatedAt, err = parseTime(createdAt); err != nil {
		return domain.Product{}, err
	}
	if p.ModifiedAt, err = parseOptionalTime(modifiedAt); err != nil {
		return domain.Product{}, err
	}
	if p.DeletedAt, err = parseOptionalTime(deletedAt); err != nil {
		return domain.Product{}, err
	}
	p.Deleted = deleted == 1
	return p, nil
}

func (s *Store) queryProducts(ctx context.Context, q string, args ...any) ([]domain.Product, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list products: %w", err)
	}
	defer rows.Close()

	var out []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scan product: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// GetProduct returns a live product. Soft-deleted products are reported as
// not found.
func (s *Store) GetProduct(ctx context.Context, id int64) (domain.Product, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products p WHERE p.id = ? AND p.is_deleted = 0`, id)
	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Product{}, fmt.Errorf("sqlite: product %d: %w", id, domain.ErrProductNotFound)
	}
	if err != nil {
		return domain.Product{}, fmt.Errorf("sqlite: get product %d: %w", id, err)
	}
	return p, nil
}

// ListProducts returns the live products matching f, oldest first.
func (s *Store) ListProducts(ctx context.Context, f domain.ProductFilter) ([]domain.Product, error) {
	var (
		sb   strings.Builder
		args []any
	)
	sb.WriteString(`SELECT ` + productColumns + ` FROM products p LEFT JOIN categories c ON c.id = p.category_id WHERE p.is_deleted = 0`)
	if f.CategoryID != 0 {
		sb.WriteString(` AND p.category_id = ?`)
		args = append(args, f.CategoryID)
	}
	if q := strings.TrimSpace(f.Query); q != "" {
		pattern := "%" + likeEscaper.Replace(q) + "%"
		sb.WriteString(` AND (p.name LIKE ? ESCAPE '\' OR c.name LIKE ? ESCAPE '\')`)
		args = append(args, pattern, pattern)
	}
	sb.WriteString(` ORDER BY p.id`)
	return s.queryProducts(ctx, sb.String(), args...)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// DeletedProducts lists the trash, most recently deleted first.
func (s *Store) DeletedProducts(ctx context.Context) ([]domain.Product, error) {
	return s.queryProducts(ctx, `SELECT `+productColumns+` FROM products p WHERE p.is_deleted = 1 ORDER BY p.deleted_at DESC, p.id DESC`)
}

// UpdateProduct rewrites the descriptive fields of a live product. Stock is
// left alone; it only moves through SetStock and orders.
func (s *Store) UpdateProduct(ctx context.Context, p domain.Product) error {
	const q = `
		UPDATE products SET name = ?, price = ?, category_id = ?, image = ?, modified_at = ?
		WHERE id = ? AND is_deleted = 0`

	res, err := s.db.ExecContext(ctx, q, p.Name, p.Price.String(), p.CategoryID, p.Image, formatTime(time.Now()), p.ID)
	if err != nil {
		return fmt.Errorf("sqlite: update product %d: %w", p.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("sqlite: product %d: %w", p.ID, domain.ErrProductNotFound)
	}
	return nil
}

// SetStock overwrites a product's stock and reports the previous level.
func (s *Store) SetStock(ctx context.Context, id int64, stock int) (domain.StockLevel, error) {
	var lvl domain.StockLevel
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, `SELECT name, stock FROM products WHERE id = ? AND is_deleted = 0`, id).Scan(&lvl.Name, &lvl.Before)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("sqlite: product %d: %w", id, domain.ErrProductNotFound)
		}
		if err != nil {
			return fmt.Errorf("sqlite: read stock %d: %w", id, err)
		}
		if _, err := tx.ExecContext(ctx, `UPDATE products SET stock = ?, modified_at = ? WHERE id = ?`,
			stock, formatTime(time.Now()), id); err != nil {
			return fmt.Errorf("sqlite: set stock %d: %w", id, err)
		}
		lvl.ProductID = id
		lvl.After = stock
		return nil
	})
	return lvl, err
}

// DeleteProduct moves a live product to the trash.
func (s *Store) DeleteProduct(ctx context.Context, id int64) error {
	now := formatTime(time.Now())
	res, err := s.db.ExecContext(ctx, `UPDATE products SET is_deleted = 1, deleted_at = ?, modified_at = ? WHERE id = ? AND is_deleted = 0`,
		now, now, id)
	if err != nil {
		return fmt.Errorf("sqlite: delete product %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("sqlite: product %d: %w", id, domain.ErrProductNotFound)
	}
	return nil
}

// RestoreProduct takes a product out of the trash. Live or unknown ids are
// reported as not found.
func (s *Store) RestoreProduct(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `UPDATE products SET is_deleted = 0, deleted_at = NULL, modified_at = ? WHERE id = ? AND is_deleted = 1`,
		formatTime(time.Now()), id)
	if err != nil {
		return fmt.Errorf("sqlite: restore product %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("sqlite: trashed product %d: %w", id, domain.ErrProductNotFound)
	}
	return nil
}

// PurgeProduct permanently removes a trashed product. Order lines keep their
// own copy of the name and prices, so history survives.
func (s *Store) PurgeProduct(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE id = ? AND is_deleted = 1`, id)
	if err != nil {
		return fmt.Errorf("sqlite: purge product %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("sqlite: trashed product %d: %w", id, domain.ErrProductNotFound)
	}
	return nil
}
