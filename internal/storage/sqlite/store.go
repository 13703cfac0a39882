// Package sqlite persists the catalog, discounts, orders and the checkout saga
// log in a single SQLite database.
//
// WAL mode is enabled on Open so HTTP readers never block the checkout writer.
// Money is stored as decimal TEXT and timestamps as fixed-width UTC TEXT so
// that string comparison orders them correctly.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	// Pure-Go driver, no CGO needed in the container image.
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS categories (
    id    INTEGER PRIMARY KEY AUTOINCREMENT,
    name  TEXT    NOT NULL UNIQUE COLLATE NOCASE
);

CREATE TABLE IF NOT EXISTS products (
    id           INTEGER PRIMARY KEY AUTOINCREMENT,
    name         TEXT    NOT NULL,
    price        TEXT    NOT NULL,
    stock        INTEGER NOT NULL DEFAULT 0 CHECK (stock >= 0),
    category_id  INTEGER NOT NULL DEFAULT 0,
    image        TEXT    NOT NULL DEFAULT '',
    is_deleted   INTEGER NOT NULL DEFAULT 0,
    deleted_at   TEXT,
    created_at   TEXT    NOT NULL,
    modified_at  TEXT
);

CREATE INDEX IF NOT EXISTS idx_products_category ON products(category_id, is_deleted);

CREATE TABLE IF NOT EXISTS discounts (
    id                  INTEGER PRIMARY KEY AUTOINCREMENT,
    name                TEXT    NOT NULL,
    description         TEXT    NOT NULL DEFAULT '',
    kind                TEXT    NOT NULL,
    value               TEXT    NOT NULL DEFAULT '0',
    minimum_amount      TEXT,
    minimum_quantity    INTEGER,
    max_usage_count     INTEGER,
    current_usage_count INTEGER NOT NULL DEFAULT 0,
    start_date          TEXT    NOT NULL,
    end_date            TEXT    NOT NULL,
    is_active           INTEGER NOT NULL DEFAULT 1,
    promo_code          TEXT    NOT NULL DEFAULT '',
    target_product_id   INTEGER,
    target_category_id  INTEGER,
    created_by          TEXT    NOT NULL DEFAULT '',
    created_at          TEXT    NOT NULL,
    modified_by         TEXT    NOT NULL DEFAULT '',
    modified_at         TEXT
);

CREATE INDEX IF NOT EXISTS idx_discounts_active ON discounts(is_active, start_date, end_date);

CREATE TABLE IF NOT EXISTS orders (
    id              TEXT PRIMARY KEY,
    session_id      TEXT NOT NULL DEFAULT '',
    customer_name   TEXT NOT NULL DEFAULT '',
    email           TEXT NOT NULL DEFAULT '',
    first_name      TEXT NOT NULL DEFAULT '',
    last_name       TEXT NOT NULL DEFAULT '',
    phone           TEXT NOT NULL DEFAULT '',
    address         TEXT NOT NULL DEFAULT '',
    payment_method  TEXT NOT NULL,
    status          TEXT NOT NULL,
    subtotal        TEXT NOT NULL,
    delivery_fee    TEXT NOT NULL,
    total           TEXT NOT NULL,
    created_at      TEXT NOT NULL,
    modified_at     TEXT
);

-- stock_taken is the amount actually removed from stock (the decrement is
-- floored at zero), so a cancellation restores exactly that much.
CREATE TABLE IF NOT EXISTS order_items (
    id                     INTEGER PRIMARY KEY AUTOINCREMENT,
    order_id               TEXT    NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
    product_id             INTEGER NOT NULL,
    product_name           TEXT    NOT NULL,
    quantity               INTEGER NOT NULL,
    unit_price             TEXT    NOT NULL,
    discounted_unit_price  TEXT    NOT NULL,
    row_total              TEXT    NOT NULL,
    stock_taken            INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_order_items_order_id ON order_items(order_id);

CREATE TABLE IF NOT EXISTS saga_logs (
    id              INTEGER PRIMARY KEY AUTOINCREMENT,
    saga_id         TEXT        NOT NULL,
    status          TEXT        NOT NULL,
    current_step    TEXT        NOT NULL DEFAULT '',
    payload         TEXT,
    error_messages  TEXT        NOT NULL DEFAULT '[]',
    trace_id        TEXT        NOT NULL DEFAULT '',
    span_id         TEXT        NOT NULL DEFAULT '',
    updated_at      TEXT        NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_saga_logs_saga_id ON saga_logs(saga_id, updated_at);
CREATE INDEX IF NOT EXISTS idx_saga_logs_trace_id ON saga_logs(trace_id);
`

// Store is the SQLite implementation of the catalog, discount, order and
// saga log repositories.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and applies the schema.
//
//	store, err := sqlite.Open("./data/shop.db")
func Open(path string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(on)&_pragma=busy_timeout(5000)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %q: %w", path, err)
	}

	// One writer connection; checkout transactions serialize on it.
	db.SetMaxOpenConns(1)

	if err := applySchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("sqlite: apply schema: %w", err)
	}
	return nil
}

// withTx runs fn inside a transaction, rolling back on any error.
func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: commit: %w", err)
	}
	return nil
}
