package domain

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	StatusProcessing OrderStatus = "PROCESSING"
	StatusConfirmed  OrderStatus = "CONFIRMED"
	StatusPaid       OrderStatus = "PAID"
	StatusPreparing  OrderStatus = "PREPARING"
	StatusShipping   OrderStatus = "SHIPPING"
	StatusDelivered  OrderStatus = "DELIVERED"
	StatusCancelled  OrderStatus = "CANCELLED"
)

var orderStatuses = []OrderStatus{
	StatusProcessing,
	StatusConfirmed,
	StatusPaid,
	StatusPreparing,
	StatusShipping,
	StatusDelivered,
	StatusCancelled,
}

// orderTransitions lists where an order may go from each status. DELIVERED
// and CANCELLED have no entry: they are terminal. Once an order ships it can
// no longer be cancelled.
var orderTransitions = map[OrderStatus][]OrderStatus{
	StatusProcessing: {StatusConfirmed, StatusPaid, StatusCancelled},
	StatusConfirmed:  {StatusPaid, StatusPreparing, StatusShipping, StatusCancelled},
	StatusPaid:       {StatusPreparing, StatusShipping, StatusCancelled},
	StatusPreparing:  {StatusShipping, StatusCancelled},
	StatusShipping:   {StatusDelivered},
}

func (s OrderStatus) Valid() bool {
	return slices.Contains(orderStatuses, s)
}

func (s OrderStatus) Terminal() bool {
	return len(orderTransitions[s]) == 0
}

func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	return slices.Contains(orderTransitions[s], next)
}

// StatusesLeadingTo returns the statuses from which next is reachable, in
// lifecycle order.
func StatusesLeadingTo(next OrderStatus) []OrderStatus {
	var out []OrderStatus
	for _, from := range orderStatuses {
		if from.CanTransitionTo(next) {
			out = append(out, from)
		}
	}
	return out
}

type PaymentMethod string

const (
	PaymentCOD  PaymentMethod = "COD"
	PaymentCard PaymentMethod = "CARD"
)

func (m PaymentMethod) Valid() bool {
	return m == PaymentCOD || m == PaymentCard
}

// Customer holds the delivery details captured at checkout.
type Customer struct {
	Name      string
	Email     string
	FirstName string
	LastName  string
	Phone     string
	Address   string
}

// Order is immutable once placed, apart from its status. Item prices are
// snapshots taken at submission time.
type Order struct {
	ID            string
	SessionID     string
	Customer      Customer
	PaymentMethod PaymentMethod
	Status        OrderStatus
	Items         []OrderItem
	Subtotal      decimal.Decimal
	DeliveryFee   decimal.Decimal
	Total         decimal.Decimal
	CreatedAt     time.Time
	ModifiedAt    *time.Time
}

type OrderItem struct {
	ProductID           int64
	ProductName         string
	Quantity            int
	UnitPrice           decimal.Decimal
	DiscountedUnitPrice decimal.Decimal
	RowTotal            decimal.Decimal
}
