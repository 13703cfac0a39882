package pricingrpc

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/jcmexdev/ecommerce-pricing/internal/pricing"
	"github.com/jcmexdev/ecommerce-pricing/internal/pricing/domain"
)

type ProductSource interface {
	GetProduct(ctx context.Context, id int64) (domain.Product, error)
}

type DiscountSource interface {
	ActiveDiscounts(ctx context.Context, at time.Time) ([]domain.Discount, error)
}

// Server prices products against a fresh discount snapshot per call.
type Server struct {
	products  ProductSource
	discounts DiscountSource
	now       func() time.Time
}

var _ PricingServer = (*Server)(nil)

func NewServer(products ProductSource, discounts DiscountSource) *Server {
	return &Server{products: products, discounts: discounts, now: time.Now}
}

func (s *Server) engine(ctx context.Context) (*pricing.Engine, error) {
	now := s.now()
	active, err := s.discounts.ActiveDiscounts(ctx, now)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load discounts", "error", err)
		return nil, status.Error(codes.Unavailable, "discounts unavailable")
	}
	return pricing.NewEngine(active, now), nil
}

func (s *Server) product(ctx context.Context, id int64) (domain.Product, error) {
	p, err := s.products.GetProduct(ctx, id)
	if errors.Is(err, domain.ErrProductNotFound) {
		return domain.Product{}, status.Errorf(codes.NotFound, "product %d not found", id)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to load product", "product_id", id, "error", err)
		return domain.Product{}, status.Error(codes.Internal, "failed to load product")
	}
	return p, nil
}

func (s *Server) Quote(ctx context.Context, req *QuoteRequest) (*QuoteResponse, error) {
	if req.Quantity < 0 {
		return nil, status.Errorf(codes.InvalidArgument, "quantity must not be negative, got %d", req.Quantity)
	}
	p, err := s.product(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	e, err := s.engine(ctx)
	if err != nil {
		return nil, err
	}
	return toQuoteResponse(e.Quote(p, req.Quantity)), nil
}

func (s *Server) ResolveDiscount(ctx context.Context, req *ResolveDiscountRequest) (*ResolveDiscountResponse, error) {
	p, err := s.product(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	e, err := s.engine(ctx)
	if err != nil {
		return nil, err
	}
	d, ok := e.Resolve(p)
	if !ok {
		return &ResolveDiscountResponse{}, nil
	}
	return &ResolveDiscountResponse{Found: true, Discount: toDiscountMessage(&d)}, nil
}
