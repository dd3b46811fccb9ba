// Package main runs the product service: REST (v1 and HAL v2) and gRPC APIs over the configured store.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "net/http/pprof"

	"github.com/inventario/inventario/pkg/bootstrap"
	"github.com/inventario/inventario/pkg/config/configloader"
	"github.com/inventario/inventario/pkg/telemetry"
	"github.com/inventario/inventario/product_service/internal/app"
	"github.com/inventario/inventario/product_service/internal/config"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
)

const serviceName = "product"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log.Printf("application run failed: %v", err)
		os.Exit(1)
	}
	log.Println("application stopped gracefully")
}

// run initializes the application, connects the store and publisher, and starts the HTTP, gRPC and pprof servers.
func run(ctx context.Context) error {
	cfg, cfgErr := configloader.Load[*config.Config](serviceName)
	if cfgErr != nil {
		return fmt.Errorf("failed to load configuration: %w", cfgErr)
	}
	log.Printf("Configuration loaded: %v", cfg)

	logger := bootstrap.NewLogger(cfg.Log.Level)
	slog.SetDefault(logger)

	shutdownTelemetry, err := setupTelemetry(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer shutdownTelemetry()

	deps, cleanup, err := app.SetupDependencies(ctx, cfg, logger)
	defer cleanup()
	if err != nil {
		return fmt.Errorf("failed to set up dependencies: %w", err)
	}

	httpServer, pprofServer, grpcServer := setupServers(deps, cfg)

	g, gCtx := errgroup.WithContext(ctx)

	serveHTTP(gCtx, g, "HTTP", httpServer, cfg.Shutdown.Timeout, logger)

	// Start the gRPC server
	g.Go(func() error {
		grpcAddr := ":" + cfg.GRPC.Port
		lis, err := net.Listen("tcp", grpcAddr)
		if err != nil {
			return fmt.Errorf("failed to listen on gRPC port: %w", err)
		}
		logger.Info("gRPC server listening", slog.String("addr", grpcAddr))
		return grpcServer.Serve(lis)
	})
	// gracefully shutdown gRPC server on context cancellation
	g.Go(func() error {
		<-gCtx.Done()
		logger.Info("Shutting down gRPC server...")
		stopped := make(chan struct{})
		go func() {
			grpcServer.GracefulStop()
			close(stopped)
		}()
		select {
		case <-stopped:
			logger.Info("gRPC server stopped gracefully.")
			return nil
		case <-time.After(cfg.Shutdown.Timeout):
			logger.Warn("gRPC server graceful stop timed out. Forcing stop.")
			grpcServer.Stop()
			return fmt.Errorf("grpc server graceful stop timed out")
		}
	})

	if cfg.PProf.Enabled {
		serveHTTP(gCtx, g, "pprof", pprofServer, cfg.Shutdown.Timeout, logger)
	}
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("errgroup encountered an error: %w", err)
	}
	return nil
}

// serveHTTP runs srv in g and shuts it down gracefully once ctx is done.
func serveHTTP(ctx context.Context, g *errgroup.Group, name string, srv *http.Server, timeout time.Duration, logger *slog.Logger) {
	g.Go(func() error {
		logger.Info(name+" server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("%s server failed: %w", name, err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("Shutting down " + name + " server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
}

// setupTelemetry installs the tracer and meter providers that are enabled and returns their shutdown.
func setupTelemetry(ctx context.Context, cfg *config.Config, logger *slog.Logger) (func(), error) {
	var shutdowns []func(context.Context) error
	if cfg.Telemetry.Traces.Enabled {
		tp, err := telemetry.NewTracerProvider(ctx, serviceName, cfg.Telemetry)
		if err != nil {
			return nil, err
		}
		shutdowns = append(shutdowns, tp.Shutdown)
	}
	if cfg.Telemetry.Metrics.Enabled {
		mp, err := telemetry.NewMeterProvider(serviceName)
		if err != nil {
			return nil, err
		}
		shutdowns = append(shutdowns, mp.Shutdown)
	}
	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Shutdown.Timeout)
		defer cancel()
		for _, shutdown := range shutdowns {
			if err := shutdown(shutdownCtx); err != nil {
				logger.Warn("failed to shut down telemetry", "error", err)
			}
		}
	}, nil
}

// setupServers builds the HTTP, pprof and gRPC servers.
func setupServers(deps *app.Dependencies, cfg *config.Config) (*http.Server, *http.Server, *grpc.Server) {
	httpServer := app.SetupHttpServer(deps, cfg)
	grpcServer := app.SetupGrpcServer(deps, cfg.GRPC.ReflectionEnabled)
	pprofServer := &http.Server{
		Addr: cfg.PProf.Addr,
	}
	return httpServer, pprofServer, grpcServer
}
