package web

import (
	"context"

	"github.com/go-chi/chi/v5/middleware"
)

// RequestIDHeader is the HTTP header carrying the request id in both directions.
const RequestIDHeader = "X-Request-Id"

// RequestIDMetadataKey is the gRPC metadata key carrying the request id.
const RequestIDMetadataKey = "x-request-id"

// WithRequestID stores a request ID in the context under the key used by chi's RequestID middleware,
// so HTTP and gRPC requests share one lookup path.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, middleware.RequestIDKey, id)
}

// GetRequestID retrieves the request ID from the context.
// Returns the request ID and a boolean indicating whether it was found.
func GetRequestID(ctx context.Context) (string, bool) {
	id := middleware.GetReqID(ctx)
	return id, id != ""
}
