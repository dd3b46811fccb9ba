// Package product dials the product gRPC API with the client interceptor chain.
package product

import (
	"fmt"

	productv1 "github.com/inventario/inventario/pkg/api/product/v1"
	"github.com/inventario/inventario/pkg/client/grpc/interceptors"
	"github.com/inventario/inventario/pkg/config"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// Client wraps the generated-style client together with its connection.
type Client struct {
	productv1.ProductServiceClient
	conn *grpc.ClientConn
}

// NewClient creates a lazy connection to the product service.
// The per-attempt timeout sits inside the retry loop so every attempt gets a fresh deadline.
func NewClient(cfg config.GrpcClientConfig, resilience config.ResilienceConfig, opts ...grpc.DialOption) (*Client, error) {
	dialOpts := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithStatsHandler(otelgrpc.NewClientHandler()),
		grpc.WithChainUnaryInterceptor(
			interceptors.UnaryClientRequestIDInterceptor(),
			interceptors.NewRetryInterceptor(resilience.Retry),
			interceptors.NewCircuitBreaker(resilience.CircuitBreaker),
			interceptors.UnaryClientTimeoutInterceptor(cfg.Timeout),
		),
	}
	dialOpts = append(dialOpts, opts...)

	conn, err := grpc.NewClient(cfg.Addr, dialOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create product gRPC client for %s: %w", cfg.Addr, err)
	}
	return &Client{
		ProductServiceClient: productv1.NewProductServiceClient(conn),
		conn:                 conn,
	}, nil
}

func (c *Client) Close() error {
	return c.conn.Close()
}
