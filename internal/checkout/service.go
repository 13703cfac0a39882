// Package checkout turns a session cart into an order. The order is placed,
// paid and confirmed as a saga so that a failed payment cancels the order and
// restores its stock.
package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/jcmexdev/ecommerce-pricing/internal/cart"
	"github.com/jcmexdev/ecommerce-pricing/internal/coordinator"
	"github.com/jcmexdev/ecommerce-pricing/internal/coordinator/sagalog"
	"github.com/jcmexdev/ecommerce-pricing/internal/payment"
	"github.com/jcmexdev/ecommerce-pricing/internal/pricing/domain"
)

// DefaultHighValueThreshold is the order total above which admins are told.
var DefaultHighValueThreshold = decimal.NewFromInt(500000)

var tracer = otel.Tracer("github.com/jcmexdev/ecommerce-pricing/internal/checkout")

type OrderStore interface {
	PlaceOrder(ctx context.Context, o domain.Order) ([]domain.StockLevel, error)
	CancelOrder(ctx context.Context, id string) error
	UpdateOrderStatus(ctx context.Context, id string, status domain.OrderStatus) error
	GetOrder(ctx context.Context, id string) (domain.Order, error)
}

type Carts interface {
	Load(ctx context.Context, sessionID string) (*cart.Cart, error)
	Summarize(ctx context.Context, c *cart.Cart) (cart.Summary, error)
	Discard(ctx context.Context, sessionID string) error
}

type StockChecker interface {
	CheckStock(ctx context.Context, lvl domain.StockLevel)
}

type Notifier interface {
	OrderCreated(ctx context.Context, orderID, sessionID string, total decimal.Decimal)
	HighValueOrder(ctx context.Context, orderID string, total decimal.Decimal)
	OrderStatusChanged(ctx context.Context, orderID, status string)
	PaymentSuccessful(ctx context.Context, orderID string, amount decimal.Decimal)
	PaymentFailed(ctx context.Context, orderID string)
}

// SagaStore records checkout sagas and reads them back.
type SagaStore interface {
	sagalog.Repository
	sagalog.Reader
}

type Request struct {
	SessionID     string
	Customer      domain.Customer
	PaymentMethod domain.PaymentMethod
}

func (r Request) validate() error {
	if r.SessionID == "" {
		return fmt.Errorf("%w: session is required", domain.ErrInvalidCheckout)
	}
	if !r.PaymentMethod.Valid() {
		return fmt.Errorf("%w: unknown payment method %q", domain.ErrInvalidCheckout, r.PaymentMethod)
	}
	if strings.TrimSpace(r.Customer.Name) == "" {
		return fmt.Errorf("%w: customer name is required", domain.ErrInvalidCheckout)
	}
	if _, err := mail.ParseAddress(r.Customer.Email); err != nil {
		return fmt.Errorf("%w: invalid email", domain.ErrInvalidCheckout)
	}
	if strings.TrimSpace(r.Customer.Address) == "" {
		return fmt.Errorf("%w: delivery address is required", domain.ErrInvalidCheckout)
	}
	return nil
}

type Service struct {
	orders    OrderStore
	carts     Carts
	gateway   payment.Gateway
	stock     StockChecker
	notifier  Notifier
	sagas     SagaStore // nil-safe
	threshold decimal.Decimal
	now       func() time.Time
}

type Option func(*Service)

func WithSagaLog(store SagaStore) Option {
	return func(s *Service) { s.sagas = store }
}

func WithHighValueThreshold(t decimal.Decimal) Option {
	return func(s *Service) { s.threshold = t }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(orders OrderStore, carts Carts, gateway payment.Gateway, stock StockChecker, notifier Notifier, opts ...Option) *Service {
	s := &Service{
		orders:    orders,
		carts:     carts,
		gateway:   gateway,
		stock:     stock,
		notifier:  notifier,
		threshold: DefaultHighValueThreshold,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Checkout prices the session cart, places the order and, for card
// payments, charges it. A declined card returns the cancelled order together
// with an error wrapping domain.ErrPaymentDeclined; the cart is kept.
func (s *Service) Checkout(ctx context.Context, req Request) (domain.Order, error) {
	ctx, span := tracer.Start(ctx, "checkout.Checkout")
	defer span.End()

	if err := req.validate(); err != nil {
		return domain.Order{}, err
	}

	c, err := s.carts.Load(ctx, req.SessionID)
	if err != nil {
		return domain.Order{}, err
	}
	summary, err := s.carts.Summarize(ctx, c)
	if err != nil {
		return domain.Order{}, err
	}
	if len(summary.Lines) == 0 {
		return domain.Order{}, domain.ErrEmptyCart
	}

	order := newOrder(req, summary, s.now().UTC())
	span.SetAttributes(
		attribute.String("order.id", order.ID),
		attribute.String("order.payment_method", string(order.PaymentMethod)),
		attribute.String("order.total", order.Total.StringFixed(2)),
	)

	place := NewPlaceOrderStep(s.orders, &order)
	steps := []coordinator.Step{place}
	final := domain.StatusConfirmed
	if order.PaymentMethod == domain.PaymentCard {
		steps = append(steps, NewPaymentStep(s.gateway, order.ID, order.Total))
		final = domain.StatusPaid
	}
	steps = append(steps, NewConfirmOrderStep(s.orders, &order, final))

	payload, err := json.Marshal(order)
	if err != nil {
		return domain.Order{}, fmt.Errorf("checkout: encode saga payload: %w", err)
	}

	slog.InfoContext(ctx, "starting checkout saga", "order_id", order.ID, "session_id", req.SessionID,
		"payment_method", order.PaymentMethod, "total", order.Total.StringFixed(2))

	saga := coordinator.NewOrchestrator(order.ID, steps, s.sagas).WithPayload(string(payload))
	if err := saga.Start(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if errors.Is(err, domain.ErrPaymentDeclined) {
			s.notifier.PaymentFailed(ctx, order.ID)
			return order, err
		}
		return domain.Order{}, err
	}

	if err := s.carts.Discard(ctx, req.SessionID); err != nil {
		slog.WarnContext(ctx, "failed to clear cart after checkout", "session_id", req.SessionID, "error", err)
	}

	s.notifier.OrderCreated(ctx, order.ID, order.SessionID, order.Total)
	if order.PaymentMethod == domain.PaymentCard {
		s.notifier.PaymentSuccessful(ctx, order.ID, order.Total)
	}
	if order.Total.GreaterThan(s.threshold) {
		s.notifier.HighValueOrder(ctx, order.ID, order.Total)
	}
	for _, lvl := range place.Levels() {
		s.stock.CheckStock(ctx, lvl)
	}

	slog.InfoContext(ctx, "checkout completed", "order_id", order.ID, "status", order.Status)
	return order, nil
}

func newOrder(req Request, summary cart.Summary, now time.Time) domain.Order {
	o := domain.Order{
		ID:            uuid.NewString(),
		SessionID:     req.SessionID,
		Customer:      req.Customer,
		PaymentMethod: req.PaymentMethod,
		Status:        domain.StatusProcessing,
		Subtotal:      summary.Subtotal,
		DeliveryFee:   summary.DeliveryFee,
		Total:         summary.Total,
		CreatedAt:     now,
	}
	for _, l := range summary.Lines {
		o.Items = append(o.Items, domain.OrderItem{
			ProductID:           l.Product.ID,
			ProductName:         l.Product.Name,
			Quantity:            l.Quote.Quantity,
			UnitPrice:           l.Quote.UnitPrice,
			DiscountedUnitPrice: l.Quote.DiscountedUnitPrice,
			RowTotal:            l.Quote.RowTotal,
		})
	}
	return o
}

func (s *Service) GetOrder(ctx context.Context, id string) (domain.Order, error) {
	return s.orders.GetOrder(ctx, id)
}

// SagaHistory returns the recorded checkout transitions of an order, oldest
// first.
func (s *Service) SagaHistory(ctx context.Context, orderID string) ([]sagalog.SagaLog, error) {
	if s.sagas == nil {
		return nil, fmt.Errorf("checkout: saga log for %s: %w", orderID, domain.ErrOrderNotFound)
	}
	entries, err := s.sagas.History(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("checkout: saga log for %s: %w", orderID, domain.ErrOrderNotFound)
	}
	return entries, nil
}

// UpdateStatus moves an order to status and notifies the customer. Only the
// transitions allowed by domain.OrderStatus are accepted; cancelling puts the
// order's stock back.
func (s *Service) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (domain.Order, error) {
	if !status.Valid() {
		return domain.Order{}, fmt.Errorf("%w: %q", domain.ErrInvalidStatus, status)
	}
	current, err := s.orders.GetOrder(ctx, id)
	if err != nil {
		return domain.Order{}, err
	}
	if !current.Status.CanTransitionTo(status) {
		return domain.Order{}, fmt.Errorf("%w: order %s is %s, cannot move to %s",
			domain.ErrInvalidStatus, id, current.Status, status)
	}

	if status == domain.StatusCancelled {
		if err := s.orders.CancelOrder(ctx, id); err != nil {
			return domain.Order{}, err
		}
	} else if err := s.orders.UpdateOrderStatus(ctx, id, status); err != nil {
		return domain.Order{}, err
	}

	o, err := s.orders.GetOrder(ctx, id)
	if err != nil {
		return domain.Order{}, err
	}
	slog.InfoContext(ctx, "order status updated", "order_id", id, "status", status)
	s.notifier.OrderStatusChanged(ctx, id, string(status))
	return o, nil
}
