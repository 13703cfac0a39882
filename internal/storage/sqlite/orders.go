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

// PlaceOrder inserts the order with its items and takes the purchased
// quantities out of stock, all in one transaction. Stock never goes below
// zero. The returned levels describe each product's stock change.
func (s *Store) PlaceOrder(ctx context.Context, o domain.Order) ([]domain.StockLevel, error) {
	var levels []domain.StockLevel
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		const insertOrder = `
			INSERT INTO orders
				(id, session_id, customer_name, email, first_name, last_name, phone, address,
				 payment_method, status, subtotal, delivery_fee, total, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

		c := o.Customer
		if _, err := tx.ExecContext(ctx, insertOrder,
			o.ID, o.SessionID, c.Name, c.Email, c.FirstName, c.LastName, c.Phone, c.Address,
			string(o.PaymentMethod), string(o.Status), o.Subtotal.String(), o.DeliveryFee.String(),
			o.Total.String(), formatTime(o.CreatedAt),
		); err != nil {
			return fmt.Errorf("sqlite: insert order %s: %w", o.ID, err)
		}

		for _, it := range o.Items {
			var lvl domain.StockLevel
			err := tx.QueryRowContext(ctx, `SELECT name, stock FROM products WHERE id = ?`, it.ProductID).
				Scan(&lvl.Name, &lvl.Before)
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("sqlite: product %d: %w", it.ProductID, domain.ErrProductNotFound)
			}
			if err != nil {
				return fmt.Errorf("sqlite: read stock %d: %w", it.ProductID, err)
			}

			taken := min(it.Quantity, lvl.Before)
			lvl.ProductID = it.ProductID
			lvl.After = lvl.Before - taken

			if _, err := tx.ExecContext(ctx, `UPDATE products SET stock = ?, modified_at = ? WHERE id = ?`,
				lvl.After, formatTime(o.CreatedAt), it.ProductID); err != nil {
				return fmt.Errorf("sqlite: decrement stock %d: %w", it.ProductID, err)
			}

			const insertItem = `
				INSERT INTO order_items
					(order_id, product_id, product_name, quantity, unit_price,
					 discounted_unit_price, row_total, stock_taken)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
			if _, err := tx.ExecContext(ctx, insertItem,
				o.ID, it.ProductID, it.ProductName, it.Quantity, it.UnitPrice.String(),
				it.DiscountedUnitPrice.String(), it.RowTotal.String(), taken,
			); err != nil {
				return fmt.Errorf("sqlite: insert order item %s/%d: %w", o.ID, it.ProductID, err)
			}
			levels = append(levels, lvl)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return levels, nil
}

// CancelOrder marks the order CANCELLED and puts back the stock it took.
// Cancelling an already cancelled order is a no-op. Orders past the
// cancellable statuses are rejected with domain.ErrInvalidStatus.
func (s *Store) CancelOrder(ctx context.Context, id string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		var status string
		err := tx.QueryRowContext(ctx, `SELECT status FROM orders WHERE id = ?`, id).Scan(&status)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("sqlite: order %s: %w", id, domain.ErrOrderNotFound)
		}
		if err != nil {
			return fmt.Errorf("sqlite: read order %s: %w", id, err)
		}
		if domain.OrderStatus(status) == domain.StatusCancelled {
			return nil
		}

		// The status guard and the write are one statement, so stock is
		// restored at most once per order.
		now := formatTime(time.Now())
		n, err := transition(ctx, tx, id, domain.StatusCancelled, now)
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("sqlite: order %s is %s: %w", id, status, domain.ErrInvalidStatus)
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE products SET
				stock = stock + (SELECT COALESCE(SUM(stock_taken), 0) FROM order_items
				                 WHERE order_items.order_id = ? AND order_items.product_id = products.id),
				modified_at = ?
			WHERE id IN (SELECT product_id FROM order_items WHERE order_id = ?)`,
			id, now, id); err != nil {
			return fmt.Errorf("sqlite: restore stock for %s: %w", id, err)
		}
		return nil
	})
}

// UpdateOrderStatus moves an order along its lifecycle. Cancellation goes
// through CancelOrder so the stock comes back.
func (s *Store) UpdateOrderStatus(ctx context.Context, id string, status domain.OrderStatus) error {
	if status == domain.StatusCancelled {
		return fmt.Errorf("sqlite: order %s: cancel through CancelOrder: %w", id, domain.ErrInvalidStatus)
	}
	return s.withTx(ctx, func(tx *sql.Tx) error {
		n, err := transition(ctx, tx, id, status, formatTime(time.Now()))
		if err != nil {
			return err
		}
		if n > 0 {
			return nil
		}

		var current string
		err = tx.QueryRowContext(ctx, `SELECT status FROM orders WHERE id = ?`, id).Scan(&current)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("sqlite: order %s: %w", id, domain.ErrOrderNotFound)
		}
		if err != nil {
			return fmt.Errorf("sqlite: read order %s: %w", id, err)
		}
		return fmt.Errorf("sqlite: order %s is %s, cannot move to %s: %w", id, current, status, domain.ErrInvalidStatus)
	})
}

// transition sets the order's status only if its current status may lead to
// next, and returns the number of rows changed.
func transition(ctx context.Context, tx *sql.Tx, id string, next domain.OrderStatus, now string) (int64, error) {
	from := domain.StatusesLeadingTo(next)
	if len(from) == 0 {
		return 0, nil
	}

	args := []any{string(next), now, id}
	for _, st := range from {
		args = append(args, string(st))
	}
	q := `UPDATE orders SET status = ?, modified_at = ? WHERE id = ? AND status IN (?` +
		strings.Repeat(", ?", len(from)-1) + `)`

	res, err := tx.ExecContext(ctx, q, args...)
	if err != nil {
		return 0, fmt.Errorf("sqlite: update order %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("sqlite: update order %s: %w", id, err)
	}
	return n, nil
}

const orderColumns = `
	id, session_id, customer_name, email, first_name, last_name, phone, address,
	payment_method, status, subtotal, delivery_fee, total, created_at, modified_at`

func scanOrder(row rowScanner) (domain.Order, error) {
	var (
		o                    domain.Order
		method, status       string
		subtotal, fee, total string
		createdAt            string
		modifiedAt           sql.NullString
	)
	c := &o.Customer
	if err := row.Scan(
		&o.ID, &o.SessionID, &c.Name, &c.Email, &c.FirstName, &c.LastName, &c.Phone, &c.Address,
		&method, &status, &subtotal, &fee, &total, &createdAt, &modifiedAt,
	); err != nil {
		return domain.Order{}, err
	}

	o.PaymentMethod = domain.PaymentMethod(method)
	o.Status = domain.OrderStatus(status)

	var err error
	if o.Subtotal, err = parseDecimal(subtotal); err != nil {
		return domain.Order{}, err
	}
	if o.DeliveryFee, err = parseDecimal(fee); err != nil {
		return domain.Order{}, err
	}
	if o.Total, err = parseDecimal(total); err != nil {
		return domain.Order{}, err
	}
	if o.CreatedAt, err = parseTime(createdAt); err != nil {
		return domain.Order{}, err
	}
	if o.ModifiedAt, err = parseOptionalTime(modifiedAt); err != nil {
		return domain.Order{}, err
	}
	return o, nil
}

func (s *Store) GetOrder(ctx context.Context, id string) (domain.Order, error) {
	o, err := scanOrder(s.db.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Order{}, fmt.Errorf("sqlite: order %s: %w", id, domain.ErrOrderNotFound)
	}
	if err != nil {
		return domain.Order{}, fmt.Errorf("sqlite: get order %s: %w", id, err)
	}

	items, err := s.orderItems(ctx, id)
	if err != nil {
		return domain.Order{}, err
	}
	o.Items = items
	return o, nil
}

func (s *Store) orderItems(ctx context.Context, orderID string) ([]domain.OrderItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT product_id, product_name, quantity, unit_price, discounted_unit_price, row_total
		FROM order_items WHERE order_id = ? ORDER BY id`, orderID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list items of %s: %w", orderID, err)
	}
	defer rows.Close()

	var out []domain.OrderItem
	for rows.Next() {
		var (
			it                   domain.OrderItem
			unit, discounted, rt string
		)
		if err := rows.Scan(&it.ProductID, &it.ProductName, &it.Quantity, &unit, &discounted, &rt); err != nil {
			return nil, fmt.Errorf("sqlite: scan item of %s: %w", orderID, err)
		}
		if it.UnitPrice, err = parseDecimal(unit); err != nil {
			return nil, err
		}
		if it.DiscountedUnitPrice, err = parseDecimal(discounted); err != nil {
			return nil, err
		}
		if it.RowTotal, err = parseDecimal(rt); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}
