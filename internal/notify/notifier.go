package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"
)

// Notifier builds shop events and hands them to a Publisher. Publishing is
// best effort: failures are logged and never fail the caller.
type Notifier struct {
	pub Publisher
}

func NewNotifier(pub Publisher) *Notifier {
	return &Notifier{pub: pub}
}

func (n *Notifier) send(ctx context.Context, e Event) {
	if err := n.pub.Publish(ctx, e); err != nil {
		slog.ErrorContext(ctx, "failed to publish notification", "kind", e.Kind, "error", err)
	}
}

func (n *Notifier) OrderCreated(ctx context.Context, orderID, sessionID string, total decimal.Decimal) {
	n.send(ctx, Event{
		Kind:      KindOrderCreated,
		Audience:  AudienceCustomer,
		OrderID:   orderID,
		SessionID: sessionID,
		Amount:    &total,
		Message:   fmt.Sprintf("Order %s has been placed.", orderID),
	})
}

func (n *Notifier) HighValueOrder(ctx context.Context, orderID string, total decimal.Decimal) {
	n.send(ctx, Event{
		Kind:     KindHighValueOrder,
		Audience: AudienceAdmin,
		OrderID:  orderID,
		Amount:   &total,
		Message:  fmt.Sprintf("High value order %s: %s.", orderID, total.StringFixed(2)),
	})
}

func (n *Notifier) OrderStatusChanged(ctx context.Context, orderID, status string) {
	n.send(ctx, Event{
		Kind:     KindOrderStatus,
		Audience: AudienceCustomer,
		OrderID:  orderID,
		Status:   status,
		Message:  fmt.Sprintf("Order %s is now %s.", orderID, status),
	})
}

func (n *Notifier) PaymentSuccessful(ctx context.Context, orderID string, amount decimal.Decimal) {
	n.send(ctx, Event{
		Kind:     KindPaymentSuccessful,
		Audience: AudienceAll,
		OrderID:  orderID,
		Amount:   &amount,
		Message:  fmt.Sprintf("Payment received for order %s.", orderID),
	})
}

func (n *Notifier) PaymentFailed(ctx context.Context, orderID string) {
	n.send(ctx, Event{
		Kind:     KindPaymentFailed,
		Audience: AudienceCustomer,
		OrderID:  orderID,
		Message:  fmt.Sprintf("Payment for order %s failed.", orderID),
	})
}

func (n *Notifier) StockRupture(ctx context.Context, productID int64, name string) {
	zero := 0
	n.send(ctx, Event{
		Kind:      KindStockRupture,
		Audience:  AudienceAdmin,
		ProductID: productID,
		Quantity:  &zero,
		Message:   fmt.Sprintf("%s is out of stock.", name),
	})
}

func (n *Notifier) StockLow(ctx context.Context, productID int64, name string, qty int) {
	n.send(ctx, Event{
		Kind:      KindStockLow,
		Audience:  AudienceAdmin,
		ProductID: productID,
		Quantity:  &qty,
		Message:   fmt.Sprintf("%s is running low: %d left.", name, qty),
	})
}

func (n *Notifier) ProductRestock(ctx context.Context, productID int64, name string, qty int) {
	n.send(ctx, Event{
		Kind:      KindProductRestock,
		Audience:  AudienceAll,
		ProductID: productID,
		Quantity:  &qty,
		Message:   fmt.Sprintf("%s is back in stock.", name),
	})
}
