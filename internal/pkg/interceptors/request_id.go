package interceptors

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"

	"github.com/jcmexdev/ecommerce-pricing/internal/pkg/interceptors/constants"
)

// RequestIDFromContext returns the request id set by the HTTP middleware or
// the server interceptor, falling back to incoming metadata.
func RequestIDFromContext(ctx context.Context) string {
	return valueFromContext(ctx, constants.ContextKeyRequestID, constants.HeaderXRequestId)
}

func IdempotencyKeyFromContext(ctx context.Context) string {
	return valueFromContext(ctx, constants.ContextKeyIdempotencyKey, constants.HeaderXIdempotencyKey)
}

func valueFromContext(ctx context.Context, key any, header string) string {
	if v, ok := ctx.Value(key).(string); ok && v != "" {
		return v
	}
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if ids := md.Get(header); len(ids) > 0 {
			return ids[0]
		}
	}
	return ""
}

// ContextWithPropagatedID appends the request id and idempotency key found in
// ctx to the outgoing metadata, skipping keys already present.
func ContextWithPropagatedID(ctx context.Context) context.Context {
	out, _ := metadata.FromOutgoingContext(ctx)
	for _, kv := range [][2]string{
		{constants.HeaderXRequestId, RequestIDFromContext(ctx)},
		{constants.HeaderXIdempotencyKey, IdempotencyKeyFromContext(ctx)},
	} {
		if kv[1] == "" || len(out.Get(kv[0])) > 0 {
			continue
		}
		ctx = metadata.AppendToOutgoingContext(ctx, kv[0], kv[1])
	}
	return ctx
}

// PropagateClientInterceptor forwards request metadata on every outgoing call.
func PropagateClientInterceptor() grpc.UnaryClientInterceptor {
	return func(
		ctx context.Context,
		method string,
		req, reply any,
		cc *grpc.ClientConn,
		invoker grpc.UnaryInvoker,
		opts ...grpc.CallOption,
	) error {
		return invoker(ContextWithPropagatedID(ctx), method, req, reply, cc, opts...)
	}
}
