// Package pricingrpc exposes the pricing engine over gRPC. Messages travel
// as JSON using the codec registered by this package.
package pricingrpc

import (
	"context"

	"google.golang.org/grpc"
)

const (
	ServiceName               = "pricing.v1.Pricing"
	QuoteFullMethod           = "/" + ServiceName + "/Quote"
	ResolveDiscountFullMethod = "/" + ServiceName + "/ResolveDiscount"
)

// PricingServer is the server API of the pricing service.
type PricingServer interface {
	Quote(context.Context, *QuoteRequest) (*QuoteResponse, error)
	ResolveDiscount(context.Context, *ResolveDiscountRequest) (*ResolveDiscountResponse, error)
}

func RegisterPricingServer(s grpc.ServiceRegistrar, srv PricingServer) {
	s.RegisterService(&ServiceDesc, srv)
}

func quoteHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(QuoteRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PricingServer).Quote(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: QuoteFullMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(PricingServer).Quote(ctx, req.(*QuoteRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func resolveDiscountHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(ResolveDiscountRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PricingServer).ResolveDiscount(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: ResolveDiscountFullMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(PricingServer).ResolveDiscount(ctx, req.(*ResolveDiscountRequest))
	}
	return interceptor(ctx, in, info, handler)
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*PricingServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Quote", Handler: quoteHandler},
		{MethodName: "ResolveDiscount", Handler: resolveDiscountHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "pricing/v1/pricing.proto",
}
