// Package payment is the boundary to the card payment provider.
package payment

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jcmexdev/ecommerce-pricing/internal/pricing/domain"
)

// Gateway charges and refunds orders.
type Gateway interface {
	// Charge returns the provider transaction id, or an error wrapping
	// domain.ErrPaymentDeclined when the provider refuses the payment.
	Charge(ctx context.Context, orderID string, amount decimal.Decimal) (string, error)
	Refund(ctx context.Context, orderID string) error
}

// InMemoryGateway accepts every charge up to a limit. It stands in for the
// real provider in local runs and tests.
type InMemoryGateway struct {
	mu       sync.Mutex
	limit    decimal.Decimal
	payments map[string]decimal.Decimal
}

var _ Gateway = (*InMemoryGateway)(nil)

// NewInMemoryGateway declines any charge above limit. A zero limit accepts all.
func NewInMemoryGateway(limit decimal.Decimal) *InMemoryGateway {
	return &InMemoryGateway{
		limit:    limit,
		payments: make(map[string]decimal.Decimal),
	}
}

func (g *InMemoryGateway) Charge(ctx context.Context, orderID string, amount decimal.Decimal) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	slog.InfoContext(ctx, "processing charge", "order_id", orderID, "amount", amount.StringFixed(2))

	if !g.limit.IsZero() && amount.GreaterThan(g.limit) {
		slog.WarnContext(ctx, "charge declined: amount exceeds limit", "order_id", orderID, "amount", amount.StringFixed(2))
		return "", fmt.Errorf("charge %s for order %s: %w", amount.StringFixed(2), orderID, domain.ErrPaymentDeclined)
	}

	g.payments[orderID] = amount
	return uuid.NewString(), nil
}

func (g *InMemoryGateway) Refund(ctx context.Context, orderID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	amount, ok := g.payments[orderID]
	if !ok {
		slog.WarnContext(ctx, "no payment found to refund", "order_id", orderID)
		return nil
	}
	slog.InfoContext(ctx, "refunding payment", "order_id", orderID, "amount", amount.StringFixed(2))
	delete(g.payments, orderID)
	return nil
}

// Charged reports the amount currently held for orderID.
func (g *InMemoryGateway) Charged(orderID string) (decimal.Decimal, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	amount, ok := g.payments[orderID]
	return amount, ok
}
