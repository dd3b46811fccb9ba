package product

import (
	"context"
	"net"
	"testing"
	"time"

	productv1 "github.com/inventario/inventario/pkg/api/product/v1"
	"github.com/inventario/inventario/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

type stubServer struct {
	productv1.UnimplementedProductServiceServer
}

func (stubServer) GetProduct(_ context.Context, req *productv1.GetProductRequest) (*productv1.GetProductResponse, error) {
	if req.Id != 1 {
		return nil, status.Errorf(codes.NotFound, "product %d not found", req.Id)
	}
	return &productv1.GetProductResponse{Product: &productv1.Product{Id: 1, Name: "Playstation 3", Stock: 10}}, nil
}

func newTestClient(t *testing.T) *Client {
	t.Helper()
	lis := bufconn.Listen(1024 * 1024)
	srv := grpc.NewServer()
	productv1.RegisterProductServiceServer(srv, stubServer{})
	go func() {
		_ = srv.Serve(lis)
	}()

	client, err := NewClient(
		config.GrpcClientConfig{Addr: "passthrough://bufnet", Timeout: time.Second},
		config.ResilienceConfig{
			Retry: config.RetryConfig{MaxAttempts: 2, InitialBackoff: 10 * time.Millisecond},
			CircuitBreaker: config.CircuitBreakerConfig{
				Name:                "product",
				MaxRequests:         1,
				ConsecutiveFailures: 5,
				ErrorRatePercent:    50,
				OpenTimeout:         time.Second,
			},
		},
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = client.Close()
		srv.Stop()
		_ = lis.Close()
	})
	return client
}

func TestClient_GetProduct(t *testing.T) {
	// given
	client := newTestClient(t)

	// when
	resp, err := client.GetProduct(context.Background(), &productv1.GetProductRequest{Id: 1})

	// then
	require.NoError(t, err)
	assert.Equal(t, "Playstation 3", resp.Product.Name)
}

func TestClient_GetProduct_NotFound(t *testing.T) {
	// given
	client := newTestClient(t)

	// when
	_, err := client.GetProduct(context.Background(), &productv1.GetProductRequest{Id: 99})

	// then
	assert.Equal(t, codes.NotFound, status.Code(err))
}
