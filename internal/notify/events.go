// Package notify publishes shop notifications (order lifecycle, stock
// alerts) as JSON events. Delivery to users and admins happens downstream.
package notify

import (
	"time"

	"github.com/shopspring/decimal"
)

type Kind string

const (
	KindOrderCreated      Kind = "order.created"
	KindOrderStatus       Kind = "order.status_changed"
	KindHighValueOrder    Kind = "admin.high_value_order"
	KindPaymentSuccessful Kind = "payment.successful"
	KindPaymentFailed     Kind = "payment.failed"
	KindStockLow          Kind = "admin.stock_low"
	KindStockRupture      Kind = "admin.stock_rupture"
	KindProductRestock    Kind = "product.restock"
)

// Audience tells consumers who the notification is for.
type Audience string

const (
	AudienceCustomer Audience = "customer"
	AudienceAdmin    Audience = "admin"
	AudienceAll      Audience = "all"
)

type Event struct {
	ID         string           `json:"id"`
	Kind       Kind             `json:"kind"`
	Audience   Audience         `json:"audience"`
	OrderID    string           `json:"order_id,omitempty"`
	SessionID  string           `json:"session_id,omitempty"`
	ProductID  int64            `json:"product_id,omitempty"`
	Quantity   *int             `json:"quantity,omitempty"`
	Amount     *decimal.Decimal `json:"amount,omitempty"`
	Status     string           `json:"status,omitempty"`
	Message    string           `json:"message"`
	OccurredAt time.Time        `json:"occurred_at"`
}
