// Package main runs the audit service: it records every product change published on JetStream.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "net/http/pprof"

	"github.com/inventario/inventario/audit_service/internal/config"
	"github.com/inventario/inventario/audit_service/internal/probes"
	"github.com/inventario/inventario/audit_service/internal/subscriber"
	"github.com/inventario/inventario/pkg/bootstrap"
	"github.com/inventario/inventario/pkg/client/grpc/product"
	"github.com/inventario/inventario/pkg/config/configloader"
	"github.com/inventario/inventario/pkg/nats"
	"github.com/inventario/inventario/pkg/telemetry"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
)

const serviceName = "audit"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log.Printf("application run failed: %v", err)
		os.Exit(1)
	}
	log.Println("application stopped gracefully")
}

// run initializes the application, starts the NATS subscriber, and optionally starts the metrics and pprof servers.
func run(ctx context.Context) error {
	cfg, cfgErr := configloader.Load[*config.Config](serviceName)
	if cfgErr != nil {
		return fmt.Errorf("failed to load configuration: %w", cfgErr)
	}
	log.Printf("Configuration loaded: %v", cfg)

	logger := bootstrap.NewLogger(cfg.Log.Level)
	slog.SetDefault(logger)

	if cfg.Telemetry.Traces.Enabled {
		tp, err := telemetry.NewTracerProvider(ctx, serviceName, cfg.Telemetry)
		if err != nil {
			return err
		}
		defer shutdown(cfg.Shutdown.Timeout, "tracer provider", tp.Shutdown, logger)
	}
	if cfg.Telemetry.Metrics.Enabled {
		mp, err := telemetry.NewMeterProvider(serviceName)
		if err != nil {
			return err
		}
		defer shutdown(cfg.Shutdown.Timeout, "meter provider", mp.Shutdown, logger)
	}

	natsConn, err := nats.NewClient(cfg.Nats.Url, cfg.Nats.Timeout)
	if err != nil {
		return fmt.Errorf("failed to create NATS connection: %w", err)
	}
	defer func() { _ = natsConn.Drain() }()
	js, err := nats.NewJetStreamContext(natsConn)
	if err != nil {
		return fmt.Errorf("failed to get JetStream context: %w", err)
	}
	if cfg.Nats.Stream != "" {
		if _, err := nats.EnsureStream(ctx, js, cfg.Nats.Stream, cfg.Subscriber.Subject); err != nil {
			return err
		}
	}

	productClient, err := product.NewClient(cfg.ProductClient, cfg.Resilience)
	if err != nil {
		return err
	}
	defer func() {
		if err := productClient.Close(); err != nil {
			logger.Warn("failed to close product client", "error", err)
		}
	}()
	auditor := subscriber.NewAuditor(productClient, cfg.Audit.LowStockThreshold, logger)

	probeCfg := cfg.ProbesConfig
	defer probes.Clear(logger, probeCfg.ReadinessFileName, probeCfg.LivenessFileName)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("NATS subscriber started")
		err := subscriber.Start(gCtx, js, cfg.Subscriber, auditor, func() {
			if err := probes.MarkReady(probeCfg.ReadinessFileName); err != nil {
				logger.Error("failed to signal readiness", "error", err)
			}
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("subscriber failed", "error", err)
			return err
		}
		logger.Info("subscriber stopped gracefully.")
		return nil
	})

	g.Go(func() error {
		err := probes.RunLiveness(gCtx, probeCfg.LivenessFileName, probeCfg.LivenessInterval, logger)
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})

	// The scrape endpoint has its own listener, independent of pprof.
	if cfg.Telemetry.Metrics.Enabled {
		mux := http.NewServeMux()
		mux.Handle(cfg.Telemetry.Metrics.Path, promhttp.Handler())
		metricsServer := &http.Server{
			Addr:              cfg.Telemetry.Metrics.Addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		serveHTTP(gCtx, g, "metrics", metricsServer, cfg.Shutdown.Timeout, logger)
	}

	// Start the pprof server if enabled
	if cfg.PProf.Enabled {
		pprofServer := &http.Server{
			Addr: cfg.PProf.Addr,
		}
		serveHTTP(gCtx, g, "pprof", pprofServer, cfg.Shutdown.Timeout, logger)
	}

	if err := g.Wait(); err != nil {
		if !errors.Is(err, context.Canceled) {
			return fmt.Errorf("errgroup encountered an error: %w", err)
		}
	}

	return nil
}
