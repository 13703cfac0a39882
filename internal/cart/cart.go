// Package cart holds the per-session shopping cart and the service that
// prices it against the live catalog.
package cart

import (
	"fmt"
	"time"

	"github.com/jcmexdev/ecommerce-pricing/internal/pricing/domain"
)

// Line references a product by id only. Price and stock are read from the
// catalog whenever the cart is priced.
type Line struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

type Cart struct {
	SessionID string    `json:"session_id"`
	Lines     []Line    `json:"lines"`
	UpdatedAt time.Time `json:"updated_at"`
}

func New(sessionID string) *Cart {
	return &Cart{SessionID: sessionID, Lines: []Line{}}
}

func (c *Cart) index(productID int64) int {
	for i, l := range c.Lines {
		if l.ProductID == productID {
			return i
		}
	}
	return -1
}

// Quantity returns the quantity held for productID, 0 if there is no line.
func (c *Cart) Quantity(productID int64) int {
	if i := c.index(productID); i >= 0 {
		return c.Lines[i].Quantity
	}
	return 0
}

func (c *Cart) Empty() bool { return len(c.Lines) == 0 }

// Add puts one more unit of p in the cart. The cart is left untouched when
// the product has no stock left for it.
func (c *Cart) Add(p domain.Product) error {
	i := c.index(p.ID)
	current := 0
	if i >= 0 {
		current = c.Lines[i].Quantity
	}
	if current+1 > p.Stock {
		return fmt.Errorf("add product %d: %w", p.ID, domain.ErrStockInsufficient)
	}
	if i >= 0 {
		c.Lines[i].Quantity++
		return nil
	}
	c.Lines = append(c.Lines, Line{ProductID: p.ID, Quantity: 1})
	return nil
}

// Decrement removes one unit, dropping the line when it reaches zero.
func (c *Cart) Decrement(productID int64) {
	i := c.index(productID)
	if i < 0 {
		return
	}
	if c.Lines[i].Quantity <= 1 {
		c.removeAt(i)
		return
	}
	c.Lines[i].Quantity--
}

// SetQuantity overwrites the quantity of an existing line. Zero removes it.
// The same stock ceiling as Add applies.
func (c *Cart) SetQuantity(p domain.Product, qty int) error {
	if qty < 0 {
		return fmt.Errorf("set quantity %d for product %d: %w", qty, p.ID, domain.ErrInvalidQuantity)
	}
	if qty == 0 {
		c.Remove(p.ID)
		return nil
	}
	i := c.index(p.ID)
	if i < 0 {
		return nil
	}
	if qty > p.Stock {
		return fmt.Errorf("set quantity %d for product %d: %w", qty, p.ID, domain.ErrStockInsufficient)
	}
	c.Lines[i].Quantity = qty
	return nil
}

func (c *Cart) Remove(productID int64) {
	if i := c.index(productID); i >= 0 {
		c.removeAt(i)
	}
}

func (c *Cart) Clear() {
	c.Lines = []Line{}
}

func (c *Cart) removeAt(i int) {
	c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
}
