package interceptors

import (
	"context"
	"net"
	"sync/atomic"
	"testing"
	"time"

	productv1 "github.com/inventario/inventario/pkg/api/product/v1"
	"github.com/inventario/inventario/pkg/config"
	"github.com/inventario/inventario/pkg/web"
	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

// slowProductService waits before answering and records the request id it received.
type slowProductService struct {
	productv1.UnimplementedProductServiceServer
	delay     time.Duration
	requestID chan string
}

func (s *slowProductService) GetProduct(ctx context.Context, req *productv1.GetProductRequest) (*productv1.GetProductResponse, error) {
	if md, ok := metadata.FromIncomingContext(ctx); ok && s.requestID != nil {
		if values := md.Get(web.RequestIDMetadataKey); len(values) > 0 {
			s.requestID <- values[0]
		}
	}
	select {
	case <-time.After(s.delay):
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return &productv1.GetProductResponse{Product: &productv1.Product{Id: req.Id}}, nil
}

// hangingProductService hangs on its first hangCalls calls and answers immediately afterwards.
type hangingProductService struct {
	productv1.UnimplementedProductServiceServer
	hangCalls int32
	calls     atomic.Int32
}

func (s *hangingProductService) GetProduct(ctx context.Context, req *productv1.GetProductRequest) (*productv1.GetProductResponse, error) {
	if s.calls.Add(1) <= s.hangCalls {
		select {
		case <-time.After(500 * time.Millisecond):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return &productv1.GetProductResponse{Product: &productv1.Product{Id: req.Id}}, nil
}

func dialService(t *testing.T, svc productv1.ProductServiceServer, interceptors ...grpc.UnaryClientInterceptor) productv1.ProductServiceClient {
	t.Helper()
	lis := bufconn.Listen(1024 * 1024)
	grpcServer := grpc.NewServer()
	productv1.RegisterProductServiceServer(grpcServer, svc)
	go func() {
		_ = grpcServer.Serve(lis)
	}()

	conn, err := grpc.NewClient("passthrough://bufnet",
		grpc.WithContextDialer(func(ctx context.Context, s string) (net.Conn, error) {
			return lis.Dial()
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithChainUnaryInterceptor(interceptors...),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = conn.Close()
		grpcServer.Stop()
		_ = lis.Close()
	})
	return productv1.NewProductServiceClient(conn)
}

func Test_UnaryClientTimeoutInterceptor(t *testing.T) {
	// given
	const serviceDelay = 500 * time.Millisecond
	const clientTimeout = 50 * time.Millisecond
	client := dialService(t, &slowProductService{delay: serviceDelay}, UnaryClientTimeoutInterceptor(clientTimeout))

	// when
	_, err := client.GetProduct(context.Background(), &productv1.GetProductRequest{Id: 1})

	// then
	require.Error(t, err)
	require.Equal(t, codes.DeadlineExceeded, status.Code(err), "Expected DeadlineExceeded error code")
}

func Test_UnaryClientRequestIDInterceptor(t *testing.T) {
	// given
	svc := &slowProductService{requestID: make(chan string, 1)}
	client := dialService(t, svc, UnaryClientRequestIDInterceptor())
	ctx := web.WithRequestID(context.Background(), "req-42")

	// when
	_, err := client.GetProduct(ctx, &productv1.GetProductRequest{Id: 1})

	// then
	require.NoError(t, err)
	require.Equal(t, "req-42", <-svc.requestID)
}

func Test_TimedOutAttemptIsRetried(t *testing.T) {
	// given
	svc := &hangingProductService{hangCalls: 1}
	client := dialService(t, svc,
		NewRetryInterceptor(config.RetryConfig{MaxAttempts: 3, InitialBackoff: 10 * time.Millisecond}),
		UnaryClientTimeoutInterceptor(50*time.Millisecond),
	)

	// when
	resp, err := client.GetProduct(context.Background(), &productv1.GetProductRequest{Id: 7})

	// then
	require.NoError(t, err)
	require.Equal(t, int64(7), resp.Product.Id)
	require.Equal(t, int32(2), svc.calls.Load(), "the slow attempt should be cut and retried once")
}

func Test_HangingServiceTripsBreaker(t *testing.T) {
	// given
	svc := &hangingProductService{hangCalls: 100}
	client := dialService(t, svc,
		NewCircuitBreaker(config.CircuitBreakerConfig{
			Name:                "hanging",
			MaxRequests:         1,
			ConsecutiveFailures: 2,
			ErrorRatePercent:    100,
			OpenTimeout:         time.Minute,
		}),
		UnaryClientTimeoutInterceptor(20*time.Millisecond),
	)

	// when
	for range 3 {
		_, err := client.GetProduct(context.Background(), &productv1.GetProductRequest{Id: 1})
		require.Equal(t, codes.DeadlineExceeded, status.Code(err))
	}
	_, err := client.GetProduct(context.Background(), &productv1.GetProductRequest{Id: 1})

	// then
	require.ErrorIs(t, err, gobreaker.ErrOpenState)
	require.Equal(t, int32(3), svc.calls.Load(), "an open breaker must not reach the service")
}
