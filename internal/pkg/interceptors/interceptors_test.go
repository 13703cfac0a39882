package interceptors

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"

	"github.com/jcmexdev/ecommerce-pricing/internal/pkg/interceptors/constants"
)

func TestTraceServerInterceptor(t *testing.T) {
	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs(
		constants.HeaderXRequestId, "req-1",
		constants.HeaderXIdempotencyKey, "idem-1",
	))

	var gotReq, gotIdem string
	handler := func(ctx context.Context, req any) (any, error) {
		gotReq = RequestIDFromContext(ctx)
		gotIdem = IdempotencyKeyFromContext(ctx)
		return "ok", nil
	}

	resp, err := TraceServerInterceptor()(ctx, nil, &grpc.UnaryServerInfo{FullMethod: "/pricing.v1.Pricing/Quote"}, handler)
	require.NoError(t, err)
	assert.Equal(t, "ok", resp)
	assert.Equal(t, "req-1", gotReq)
	assert.Equal(t, "idem-1", gotIdem)
}

func TestContextWithPropagatedID(t *testing.T) {
	ctx := context.WithValue(context.Background(), constants.ContextKeyRequestID, "req-9")
	ctx = ContextWithPropagatedID(ctx)
	ctx = ContextWithPropagatedID(ctx)

	md, ok := metadata.FromOutgoingContext(ctx)
	require.True(t, ok)
	assert.Equal(t, []string{"req-9"}, md.Get(constants.HeaderXRequestId), "appended once")
	assert.Empty(t, md.Get(constants.HeaderXIdempotencyKey))
}

func TestRequestIDFromContext_Empty(t *testing.T) {
	assert.Equal(t, "", RequestIDFromContext(context.Background()))
}
