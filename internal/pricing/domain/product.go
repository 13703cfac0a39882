package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Category struct {
	ID   int64
	Name string
}

// Product is the catalog entry the pricing core reads. Price and Stock are
// always the latest committed values; carts never cache them.
type Product struct {
	ID         int64
	Name       string
	Price      decimal.Decimal
	Stock      int
	CategoryID int64
	Image      string
	Deleted    bool
	DeletedAt  *time.Time
	CreatedAt  time.Time
	ModifiedAt *time.Time
}

// ProductFilter narrows a catalog listing. Query matches the product name or
// its category name, case-insensitively; zero fields match everything.
type ProductFilter struct {
	CategoryID int64
	Query      string
}

func (p Product) InStock() bool {
	return p.Stock > 0
}
