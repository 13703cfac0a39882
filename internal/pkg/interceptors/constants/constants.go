// Package constants holds the header names and context keys shared by the
// HTTP middlewares and the gRPC interceptors.
package constants

type contextKey string

// Header and gRPC metadata names. gRPC metadata keys are lowercase.
const (
	HeaderXRequestId      = "x-request-id"
	HeaderXIdempotencyKey = "x-idempotency-key"
	HeaderXSessionID      = "x-session-id"
	HeaderXAdminUser      = "x-admin-user"
)

const (
	ContextKeyRequestID      contextKey = HeaderXRequestId
	ContextKeyIdempotencyKey contextKey = HeaderXIdempotencyKey
	ContextKeySessionID      contextKey = HeaderXSessionID
)
