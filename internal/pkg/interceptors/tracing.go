package interceptors

import (
	"context"
	"log/slog"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/jcmexdev/ecommerce-pricing/internal/pkg/interceptors/constants"
)

// TraceServerInterceptor copies the request id and idempotency key from the
// incoming metadata into the handler context and logs every call.
func TraceServerInterceptor() grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req any,
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (any, error) {
		md, exist := metadata.FromIncomingContext(ctx)
		requestID := ""
		idempotencyID := ""
		if exist {
			if ids := md.Get(constants.HeaderXRequestId); len(ids) > 0 {
				requestID = ids[0]
			}

			if ids := md.Get(constants.HeaderXIdempotencyKey); len(ids) > 0 {
				idempotencyID = ids[0]
			}
		}
		newCtx := context.WithValue(ctx, constants.ContextKeyRequestID, requestID)
		newCtx = context.WithValue(newCtx, constants.ContextKeyIdempotencyKey, idempotencyID)

		start := time.Now()
		resp, err := handler(newCtx, req)

		slog.InfoContext(newCtx, "grpc call",
			"method", info.FullMethod,
			"request_id", requestID,
			"idempotency_key", idempotencyID,
			"code", status.Code(err).String(),
			"duration", time.Since(start),
		)
		return resp, err
	}
}
