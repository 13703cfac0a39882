package cart

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jcmexdev/ecommerce-pricing/internal/pricing"
	"github.com/jcmexdev/ecommerce-pricing/internal/pricing/domain"
)

const (
	MsgAdded             = "product added to cart"
	MsgUpdated           = "cart updated"
	MsgRemoved           = "product removed from cart"
	MsgStockInsufficient = "insufficient stock"
	MsgProductNotFound   = "product not found"
	MsgInvalidQuantity   = "invalid quantity"
)

// MutationResult is the outcome of a single cart operation. Business
// rejections are reported here with Success=false; they are never errors.
type MutationResult struct {
	Success   bool            `json:"success"`
	Message   string          `json:"message,omitempty"`
	ProductID int64           `json:"product_id"`
	Quantity  int             `json:"quantity"`
	RowTotal  decimal.Decimal `json:"row_total"`
	CartTotal decimal.Decimal `json:"cart_total"`
	Removed   bool            `json:"removed"`
}

// LineSummary is a priced cart line.
type LineSummary struct {
	Product domain.Product
	Quote   pricing.Quote
}

// Summary is the priced view of a cart.
type Summary struct {
	SessionID    string
	Lines        []LineSummary
	Subtotal     decimal.Decimal
	FreeShipping bool
	DeliveryFee  decimal.Decimal
	Total        decimal.Decimal
}

type Service struct {
	store       Store
	catalog     Catalog
	discounts   DiscountSource
	deliveryFee decimal.Decimal
	now         func() time.Time

	mu    sync.Mutex
	locks map[string]*sessionLock
}

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

type Option func(*Service)

// WithClock overrides the time source used to pick in-effect discounts.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(store Store, catalog Catalog, discounts DiscountSource, deliveryFee decimal.Decimal, opts ...Option) *Service {
	s := &Service{
		store:       store,
		catalog:     catalog,
		discounts:   discounts,
		deliveryFee: deliveryFee,
		now:         time.Now,
		locks:       make(map[string]*sessionLock),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// lock serializes mutations of one session. The returned func releases it.
func (s *Service) lock(sessionID string) func() {
	s.mu.Lock()
	l, ok := s.locks[sessionID]
	if !ok {
		l = &sessionLock{}
		s.locks[sessionID] = l
	}
	l.refs++
	s.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		s.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.locks, sessionID)
		}
		s.mu.Unlock()
	}
}

// Engine builds a pricing snapshot for the current instant.
func (s *Service) Engine(ctx context.Context) (*pricing.Engine, error) {
	now := s.now()
	discounts, err := s.discounts.ActiveDiscounts(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("load active discounts: %w", err)
	}
	return pricing.NewEngine(discounts, now), nil
}

func (s *Service) AddItem(ctx context.Context, sessionID string, productID int64) (MutationResult, error) {
	return s.mutate(ctx, sessionID, productID, MsgAdded, func(c *Cart, p domain.Product) error {
		return c.Add(p)
	})
}

// DecrementItem lowers a line by one. The catalog is not consulted, so lines
// of products deleted since they were added can still be decremented.
func (s *Service) DecrementItem(ctx context.Context, sessionID string, productID int64) (MutationResult, error) {
	return s.edit(ctx, sessionID, productID, MsgUpdated, func(c *Cart) {
		c.Decrement(productID)
	})
}

func (s *Service) SetQuantity(ctx context.Context, sessionID string, productID int64, qty int) (MutationResult, error) {
	return s.mutate(ctx, sessionID, productID, MsgUpdated, func(c *Cart, p domain.Product) error {
		return c.SetQuantity(p, qty)
	})
}

// RemoveItem deletes the line even when the product no longer exists in the
// catalog.
func (s *Service) RemoveItem(ctx context.Context, sessionID string, productID int64) (MutationResult, error) {
	return s.edit(ctx, sessionID, productID, MsgRemoved, func(c *Cart) {
		c.Remove(productID)
	})
}

// edit applies a change that can only shrink the cart and needs no product
// data.
func (s *Service) edit(ctx context.Context, sessionID string, productID int64, okMsg string, op func(*Cart)) (MutationResult, error) {
	unlock := s.lock(sessionID)
	defer unlock()

	c, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return MutationResult{}, fmt.Errorf("load cart %s: %w", sessionID, err)
	}
	before := c.Quantity(productID)
	op(c)
	if err := s.save(ctx, c); err != nil {
		return MutationResult{}, err
	}
	summary, err := s.summarize(ctx, c)
	if err != nil {
		return MutationResult{}, err
	}
	return result(productID, okMsg, before, c, summary), nil
}

// result reports the line of productID after a successful operation.
// Removed is set only when a line existed before and is gone now.
func result(productID int64, msg string, before int, c *Cart, summary Summary) MutationResult {
	after := c.Quantity(productID)
	res := MutationResult{
		Success:   true,
		Message:   msg,
		ProductID: productID,
		Quantity:  after,
		RowTotal:  decimal.Zero,
		CartTotal: summary.Subtotal,
		Removed:   before > 0 && after == 0,
	}
	for _, l := range summary.Lines {
		if l.Product.ID == productID {
			res.RowTotal = l.Quote.RowTotal
		}
	}
	return res
}

func (s *Service) mutate(
	ctx context.Context,
	sessionID string,
	productID int64,
	okMsg string,
	op func(*Cart, domain.Product) error,
) (MutationResult, error) {
	unlock := s.lock(sessionID)
	defer unlock()

	p, err := s.catalog.GetProduct(ctx, productID)
	if errors.Is(err, domain.ErrProductNotFound) {
		return MutationResult{Success: false, Message: MsgProductNotFound, ProductID: productID}, nil
	}
	if err != nil {
		return MutationResult{}, fmt.Errorf("get product %d: %w", productID, err)
	}

	c, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return MutationResult{}, fmt.Errorf("load cart %s: %w", sessionID, err)
	}

	before := c.Quantity(productID)
	opErr := op(c, p)
	switch {
	case opErr == nil:
		if err := s.save(ctx, c); err != nil {
			return MutationResult{}, err
		}
	case errors.Is(opErr, domain.ErrStockInsufficient), errors.Is(opErr, domain.ErrInvalidQuantity):
		slog.InfoContext(ctx, "cart mutation rejected", "session_id", sessionID, "product_id", productID, "reason", opErr)
	default:
		return MutationResult{}, opErr
	}

	summary, err := s.summarize(ctx, c)
	if err != nil {
		return MutationResult{}, err
	}

	res := result(productID, okMsg, before, c, summary)
	switch {
	case errors.Is(opErr, domain.ErrStockInsufficient):
		res.Success = false
		res.Message = MsgStockInsufficient
	case errors.Is(opErr, domain.ErrInvalidQuantity):
		res.Success = false
		res.Message = MsgInvalidQuantity
	}
	return res, nil
}

func (s *Service) save(ctx context.Context, c *Cart) error {
	c.UpdatedAt = s.now().UTC()
	if err := s.store.Save(ctx, c); err != nil {
		return fmt.Errorf("save cart %s: %w", c.SessionID, err)
	}
	return nil
}

// View prices the session's cart against the live catalog.
func (s *Service) View(ctx context.Context, sessionID string) (Summary, error) {
	c, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return Summary{}, fmt.Errorf("load cart %s: %w", sessionID, err)
	}
	return s.summarize(ctx, c)
}

// Load returns the raw cart for a session.
func (s *Service) Load(ctx context.Context, sessionID string) (*Cart, error) {
	return s.store.Load(ctx, sessionID)
}

// Discard drops the session's cart. Called once an order is committed.
func (s *Service) Discard(ctx context.Context, sessionID string) error {
	unlock := s.lock(sessionID)
	defer unlock()
	if err := s.store.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete cart %s: %w", sessionID, err)
	}
	return nil
}

// Summarize prices c with a fresh discount snapshot.
func (s *Service) Summarize(ctx context.Context, c *Cart) (Summary, error) {
	return s.summarize(ctx, c)
}

func (s *Service) summarize(ctx context.Context, c *Cart) (Summary, error) {
	engine, err := s.Engine(ctx)
	if err != nil {
		return Summary{}, err
	}

	sum := Summary{
		SessionID: c.SessionID,
		Lines:     make([]LineSummary, 0, len(c.Lines)),
		Subtotal:  decimal.Zero,
	}
	for _, l := range c.Lines {
		p, err := s.catalog.GetProduct(ctx, l.ProductID)
		if errors.Is(err, domain.ErrProductNotFound) {
			slog.WarnContext(ctx, "cart line references missing product", "session_id", c.SessionID, "product_id", l.ProductID)
			continue
		}
		if err != nil {
			return Summary{}, fmt.Errorf("get product %d: %w", l.ProductID, err)
		}

		q := engine.Quote(p, l.Quantity)
		sum.Lines = append(sum.Lines, LineSummary{Product: p, Quote: q})
		sum.Subtotal = sum.Subtotal.Add(q.RowTotal)
		if q.FreeShipping {
			sum.FreeShipping = true
		}
	}

	sum.DeliveryFee = s.deliveryFee
	if sum.FreeShipping || len(sum.Lines) == 0 {
		sum.DeliveryFee = decimal.Zero
	}
	sum.Total = sum.Subtotal.Add(sum.DeliveryFee)
	return sum, nil
}
