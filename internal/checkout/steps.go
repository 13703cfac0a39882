package checkout

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jcmexdev/ecommerce-pricing/internal/payment"
	"github.com/jcmexdev/ecommerce-pricing/internal/pricing/domain"
)

// --- PlaceOrderStep ---

// PlaceOrderStep persists the order and takes its quantities out of stock.
type PlaceOrderStep struct {
	orders OrderStore
	order  *domain.Order
	levels []domain.StockLevel
}

func NewPlaceOrderStep(orders OrderStore, order *domain.Order) *PlaceOrderStep {
	return &PlaceOrderStep{orders: orders, order: order}
}

func (s *PlaceOrderStep) Name() string { return "Place_Order_Step" }

func (s *PlaceOrderStep) Execute(ctx context.Context) error {
	levels, err := s.orders.PlaceOrder(ctx, *s.order)
	if err != nil {
		return fmt.Errorf("failed to place order: %w", err)
	}
	s.levels = levels
	return nil
}

// Compensate cancels the order, which puts its stock back.
func (s *PlaceOrderStep) Compensate(ctx context.Context) error {
	if err := s.orders.CancelOrder(ctx, s.order.ID); err != nil {
		return err
	}
	s.order.Status = domain.StatusCancelled
	s.levels = nil
	return nil
}

// Levels returns the stock changes made by Execute.
func (s *PlaceOrderStep) Levels() []domain.StockLevel { return s.levels }

// --- PaymentStep ---

type PaymentStep struct {
	gateway payment.Gateway
	orderID string
	amount  decimal.Decimal
	txID    string
}

func NewPaymentStep(gateway payment.Gateway, orderID string, amount decimal.Decimal) *PaymentStep {
	return &PaymentStep{gateway: gateway, orderID: orderID, amount: amount}
}

func (s *PaymentStep) Name() string { return "Payment_Charge_Step" }

func (s *PaymentStep) Execute(ctx context.Context) error {
	txID, err := s.gateway.Charge(ctx, s.orderID, s.amount)
	if err != nil {
		return fmt.Errorf("payment failed for order %s: %w", s.orderID, err)
	}
	s.txID = txID
	return nil
}

func (s *PaymentStep) Compensate(ctx context.Context) error {
	return s.gateway.Refund(ctx, s.orderID)
}

// --- ConfirmOrderStep ---

// ConfirmOrderStep moves the order to its post-checkout status.
type ConfirmOrderStep struct {
	orders OrderStore
	order  *domain.Order
	status domain.OrderStatus
}

func NewConfirmOrderStep(orders OrderStore, order *domain.Order, status domain.OrderStatus) *ConfirmOrderStep {
	return &ConfirmOrderStep{orders: orders, order: order, status: status}
}

func (s *ConfirmOrderStep) Name() string { return "Confirm_Order_Step" }

func (s *ConfirmOrderStep) Execute(ctx context.Context) error {
	if err := s.orders.UpdateOrderStatus(ctx, s.order.ID, s.status); err != nil {
		return fmt.Errorf("failed to confirm order: %w", err)
	}
	s.order.Status = s.status
	return nil
}

// Compensate is a no-op: the last step has nothing to undo.
func (s *ConfirmOrderStep) Compensate(ctx context.Context) error {
	return nil
}
