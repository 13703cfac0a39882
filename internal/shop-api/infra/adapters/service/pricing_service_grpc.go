package service

import (
	"context"
	"fmt"

	"google.golang.org/grpc"

	"github.com/jcmexdev/ecommerce-pricing/internal/pricing"
	"github.com/jcmexdev/ecommerce-pricing/internal/pricing/domain"
	"github.com/jcmexdev/ecommerce-pricing/internal/pricing/pricingrpc"
	"github.com/jcmexdev/ecommerce-pricing/internal/shop-api/core/ports"
)

// GRPCPricingService is the adapter that talks to the pricing gRPC service.
type GRPCPricingService struct {
	client *pricingrpc.Client
}

var _ ports.PricingService = (*GRPCPricingService)(nil)

func NewGRPCPricingClient(conn grpc.ClientConnInterface) ports.PricingService {
	return &GRPCPricingService{client: pricingrpc.NewClient(conn)}
}

func (s *GRPCPricingService) Quote(ctx context.Context, productID int64, qty int) (pricing.Quote, error) {
	q, err := s.client.Quote(ctx, productID, qty)
	if err != nil {
		return pricing.Quote{}, fmt.Errorf("grpc Quote: %w", err)
	}
	return q, nil
}

func (s *GRPCPricingService) ResolveDiscount(ctx context.Context, productID int64) (*domain.Discount, error) {
	d, err := s.client.ResolveDiscount(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("grpc ResolveDiscount: %w", err)
	}
	return d, nil
}
