package interceptors

import (
	"context"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/retry"
	"github.com/inventario/inventario/pkg/config"
	"github.com/sony/gobreaker/v2"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// transientCodes are retried and count as failures for the circuit breaker.
// DeadlineExceeded is what a timed out attempt returns; the retry interceptor still stops once the caller's own
// context is done.
var transientCodes = []codes.Code{codes.Unavailable, codes.ResourceExhausted, codes.Aborted, codes.DeadlineExceeded}

// NewRetryInterceptor creates a gRPC unary client interceptor retrying transient errors with exponential backoff.
func NewRetryInterceptor(cfg config.RetryConfig) grpc.UnaryClientInterceptor {
	return retry.UnaryClientInterceptor(
		retry.WithCodes(transientCodes...),
		retry.WithMax(cfg.MaxAttempts),
		retry.WithBackoff(retry.BackoffExponential(cfg.InitialBackoff)),
	)
}

// UnaryCircuitBreakerInterceptor returns a gRPC unary client interceptor that wraps calls in a circuit breaker.
// The breaker decides through its IsSuccessful function which errors trip it.
func UnaryCircuitBreakerInterceptor[T any](cb *gobreaker.CircuitBreaker[T]) grpc.UnaryClientInterceptor {
	return func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
		var zero T
		_, err := cb.Execute(func() (T, error) {
			return zero, invoker(ctx, method, req, reply, cc, opts...)
		})
		return err
	}
}

// NewCircuitBreaker builds a breaker that opens after more than ConsecutiveFailures consecutive transient failures,
// or when the transient failure rate exceeds ErrorRatePercent once more than ConsecutiveFailures calls were counted.
// Business errors such as NotFound or InvalidArgument never trip it.
func NewCircuitBreaker(cfg config.CircuitBreakerConfig) grpc.UnaryClientInterceptor {
	st := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			total := counts.TotalSuccesses + counts.TotalFailures
			return counts.ConsecutiveFailures > cfg.ConsecutiveFailures ||
				(total > cfg.ConsecutiveFailures &&
					float64(counts.TotalFailures)/float64(total)*100 > float64(cfg.ErrorRatePercent))
		},
		IsSuccessful: isSuccessful,
	}
	return UnaryCircuitBreakerInterceptor(gobreaker.NewCircuitBreaker[any](st))
}

func isSuccessful(err error) bool {
	if err == nil {
		return true
	}
	st, ok := status.FromError(err)
	if !ok {
		return false
	}
	for _, code := range transientCodes {
		if st.Code() == code {
			return false
		}
	}
	return true
}
