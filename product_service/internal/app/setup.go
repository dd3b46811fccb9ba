// Package app contains the application setup for the ProductService.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	productv1 "github.com/inventario/inventario/pkg/api/product/v1"
	"github.com/inventario/inventario/pkg/bootstrap"
	pkgconfig "github.com/inventario/inventario/pkg/config"
	"github.com/inventario/inventario/pkg/kafka"
	"github.com/inventario/inventario/pkg/messaging"
	"github.com/inventario/inventario/pkg/nats"
	"github.com/inventario/inventario/pkg/server"
	"github.com/inventario/inventario/product_service/internal/config"
	"github.com/inventario/inventario/product_service/internal/service"
	"github.com/inventario/inventario/product_service/internal/store"
	grpcImpl "github.com/inventario/inventario/product_service/internal/transport/grpc"
	"github.com/inventario/inventario/product_service/internal/transport/rest"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

const readinessTimeout = 2 * time.Second

type Dependencies struct {
	ProductService service.ProductService
	Store          store.ProductStore
	Logger         *slog.Logger
	// MetricsPath mounts the Prometheus handler when not empty.
	MetricsPath string
}

// NewDependencies wires the service on top of an existing store and publisher.
func NewDependencies(productStore store.ProductStore, publisher messaging.Publisher, logger *slog.Logger) *Dependencies {
	return &Dependencies{
		ProductService: service.NewService(productStore, publisher, logger),
		Store:          productStore,
		Logger:         logger,
	}
}

// SetupDependencies connects the configured store and publisher.
// The returned cleanup releases every opened connection in reverse order.
func SetupDependencies(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Dependencies, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	productStore, closeStore, err := setupStore(ctx, cfg, logger)
	if err != nil {
		return nil, cleanup, err
	}
	closers = append(closers, closeStore)

	publisher, closePublisher, err := setupPublisher(ctx, cfg.Messaging, logger)
	if err != nil {
		return nil, cleanup, err
	}
	closers = append(closers, closePublisher)

	deps := NewDependencies(productStore, publisher, logger)
	if cfg.Telemetry.Metrics.Enabled {
		deps.MetricsPath = cfg.Telemetry.Metrics.Path
	}
	return deps, cleanup, nil
}

func setupStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (store.ProductStore, func(), error) {
	switch cfg.Store.Driver {
	case pkgconfig.StoreDriverMemory:
		logger.Warn("Using in-memory store, data is lost on restart")
		return store.NewMemoryStore(), func() {}, nil

	case pkgconfig.StoreDriverDynamoDB:
		client, err := bootstrap.NewDynamoDBClient(ctx, cfg.DynamoDB)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create DynamoDB client: %w", err)
		}
		dynamoStore := store.NewDynamoStore(client, cfg.DynamoDB.Table)
		if cfg.DynamoDB.CreateTable {
			if err := dynamoStore.CreateTable(ctx, cfg.DynamoDB.Timeout); err != nil {
				return nil, nil, err
			}
			logger.Info("DynamoDB table is ready", "table", cfg.DynamoDB.Table)
		}
		return dynamoStore, func() {}, nil

	default:
		if cfg.Database.Migrate {
			if err := store.Migrate(cfg.Database.URL); err != nil {
				return nil, nil, err
			}
			logger.Info("Database migrations applied")
		}
		dbPool, err := bootstrap.NewDbPool(ctx, cfg.Database.URL, cfg.Database.Timeout)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create database connection pool: %w", err)
		}
		logger.Info("Successfully connected to the database!")
		return store.NewPgStore(dbPool), dbPool.Close, nil
	}
}

func setupPublisher(ctx context.Context, cfg pkgconfig.MessagingConfig, logger *slog.Logger) (messaging.Publisher, func(), error) {
	switch cfg.Driver {
	case pkgconfig.MessagingDriverNATS:
		nc, err := nats.NewClient(cfg.Nats.Url, cfg.Nats.Timeout)
		if err != nil {
			return nil, nil, err
		}
		js, err := nats.NewJetStreamContext(nc)
		if err != nil {
			nc.Close()
			return nil, nil, err
		}
		streamName := cfg.Nats.Stream
		if streamName == "" {
			streamName = messaging.ProductsStream
		}
		if _, err := nats.EnsureStream(ctx, js, streamName, messaging.ProductsSubjects); err != nil {
			nc.Close()
			return nil, nil, err
		}
		logger.Info("Publishing product events to NATS", "stream", streamName)
		return nats.NewNatsPublisher(js), func() { _ = nc.Drain() }, nil

	case pkgconfig.MessagingDriverKafka:
		publisher := kafka.NewPublisher(cfg.Kafka)
		logger.Info("Publishing product events to Kafka", "topic", cfg.Kafka.Topic)
		return publisher, func() {
			if err := publisher.Close(); err != nil {
				logger.Warn("failed to close kafka publisher", "error", err)
			}
		}, nil

	default:
		return messaging.NoopPublisher{}, func() {}, nil
	}
}

// SetupHttpHandler initializes the HTTP routes and middleware for the ProductService application.
// Used by E2E tests to set up the HTTP server with the necessary routes and middleware.
func SetupHttpHandler(deps *Dependencies) http.Handler {
	mux := server.NewChiRouter(deps.Logger)
	wireRoutes(mux, deps)
	return otelhttp.NewHandler(mux, "product-http",
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
	)
}

// wireRoutes sets up the HTTP routes for the ProductService application.
func wireRoutes(mux *chi.Mux, deps *Dependencies) {
	rest.NewHandler(deps.ProductService, deps.Logger).RegisterRoutes(mux)
	rest.NewHALHandler(deps.ProductService, deps.Logger).RegisterRoutes(mux)
	rest.NewHealthHandler(deps.Store, readinessTimeout, deps.Logger).RegisterRoutes(mux)
	if deps.MetricsPath != "" {
		mux.Handle(deps.MetricsPath, promhttp.Handler())
	}
}

// SetupHttpServer creates and configures an HTTP server for the ProductService application.
func SetupHttpServer(deps *Dependencies, cfg *config.Config) *http.Server {
	return server.NewHTTPServer(server.HTTPConfigFrom(cfg.HTTPServer), SetupHttpHandler(deps))
}

// SetupGrpcServer initializes the gRPC server with the product and health services.
func SetupGrpcServer(deps *Dependencies, reflectionEnabled bool) *grpc.Server {
	productRegisterFunc := func(s *grpc.Server) {
		productv1.RegisterProductServiceServer(s, grpcImpl.NewServer(deps.ProductService, deps.Logger))
	}
	healthRegisterFunc := func(s *grpc.Server) {
		healthServer := health.NewServer()
		healthServer.SetServingStatus(productv1.ServiceName, healthpb.HealthCheckResponse_SERVING)
		healthpb.RegisterHealthServer(s, healthServer)
	}
	opts := []grpc.ServerOption{
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(
			server.UnaryRequestIDInterceptor(),
			server.UnaryLoggingInterceptor(deps.Logger.With("component", "grpc")),
		),
	}
	return server.NewGRPCServer(reflectionEnabled, opts, productRegisterFunc, healthRegisterFunc)
}
