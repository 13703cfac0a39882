package pricingrpc

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/jcmexdev/ecommerce-pricing/internal/pricing"
	"github.com/jcmexdev/ecommerce-pricing/internal/pricing/domain"
)

// Client calls a remote pricing service.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) Quote(ctx context.Context, productID int64, qty int) (pricing.Quote, error) {
	out := new(QuoteResponse)
	err := c.cc.Invoke(ctx, QuoteFullMethod, &QuoteRequest{ProductID: productID, Quantity: qty}, out,
		grpc.CallContentSubtype(CodecName))
	if err != nil {
		return pricing.Quote{}, fromStatus(err)
	}
	return out.toQuote(), nil
}

// ResolveDiscount returns the discount that wins for the product, if any.
func (c *Client) ResolveDiscount(ctx context.Context, productID int64) (*domain.Discount, error) {
	out := new(ResolveDiscountResponse)
	err := c.cc.Invoke(ctx, ResolveDiscountFullMethod, &ResolveDiscountRequest{ProductID: productID}, out,
		grpc.CallContentSubtype(CodecName))
	if err != nil {
		return nil, fromStatus(err)
	}
	if !out.Found {
		return nil, nil
	}
	return out.Discount.toDomain(), nil
}

// fromStatus maps gRPC codes back onto domain errors.
func fromStatus(err error) error {
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	switch st.Code() {
	case codes.NotFound:
		return fmt.Errorf("%s: %w", st.Message(), domain.ErrProductNotFound)
	case codes.InvalidArgument:
		return fmt.Errorf("%s: %w", st.Message(), domain.ErrInvalidQuantity)
	}
	return fmt.Errorf("pricing service: %w", err)
}
