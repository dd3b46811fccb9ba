package interceptors

import (
	"context"
	"time"

	"google.golang.org/grpc"
)

// UnaryClientTimeoutInterceptor gives each attempt its own deadline. A zero timeout disables it.
// Placed after the retry interceptor, a slow attempt is cut and retried instead of consuming the caller's budget.
func UnaryClientTimeoutInterceptor(timeout time.Duration) grpc.UnaryClientInterceptor {
	return func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
		if timeout <= 0 {
			return invoker(ctx, method, req, reply, cc, opts...)
		}
		attemptCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		return invoker(attemptCtx, method, req, reply, cc, opts...)
	}
}
