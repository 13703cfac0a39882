package middlewares

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"google.golang.org/grpc/metadata"

	"github.com/jcmexdev/ecommerce-pricing/internal/pkg/interceptors/constants"
)

// AttachTracingMetadata stores the request id and idempotency key in the
// request context and in the outgoing gRPC metadata.
func AttachTracingMetadata(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := middleware.GetReqID(r.Context())
		idempotencyKey := r.Header.Get(constants.HeaderXIdempotencyKey)

		ctx := context.WithValue(r.Context(), constants.ContextKeyRequestID, requestID)
		ctx = context.WithValue(ctx, constants.ContextKeyIdempotencyKey, idempotencyKey)
		ctx = metadata.AppendToOutgoingContext(ctx, constants.HeaderXRequestId, requestID)
		if idempotencyKey != "" {
			ctx = metadata.AppendToOutgoingContext(ctx, constants.HeaderXIdempotencyKey, idempotencyKey)
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
