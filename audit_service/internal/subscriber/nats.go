// Package subscriber consumes product change events from JetStream and writes the audit trail.
package subscriber

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	productv1 "github.com/inventario/inventario/pkg/api/product/v1"
	"github.com/inventario/inventario/pkg/config"
	"github.com/inventario/inventario/pkg/messaging/events"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ProductReader resolves the current state of a product.
type ProductReader interface {
	GetProduct(ctx context.Context, in *productv1.GetProductRequest, opts ...grpc.CallOption) (*productv1.GetProductResponse, error)
}

// ackableMsg is the part of jetstream.Msg the auditor needs.
type ackableMsg interface {
	Data() []byte
	Subject() string
	Ack() error
	Nak() error
}

// Auditor turns product events into audit records.
type Auditor struct {
	products          ProductReader
	lowStockThreshold int32
	logger            *slog.Logger
}

func NewAuditor(products ProductReader, lowStockThreshold int32, logger *slog.Logger) *Auditor {
	return &Auditor{
		products:          products,
		lowStockThreshold: lowStockThreshold,
		logger:            logger.With("component", "auditor"),
	}
}

// Start initializes the NATS JetStream consumer and starts multiple worker goroutines to process messages.
// onReady is called once the consumer exists.
func Start(ctx context.Context, js jetstream.JetStream, subscriberCfg config.SubscriberConfig, auditor *Auditor, onReady func()) error {
	cfg := jetstream.ConsumerConfig{
		FilterSubject: subscriberCfg.Subject,
		Durable:       subscriberCfg.Consumer,
		AckPolicy:     jetstream.AckExplicitPolicy,
	}
	consumer, err := js.CreateOrUpdateConsumer(ctx, subscriberCfg.Stream, cfg)
	if err != nil {
		return fmt.Errorf("failed to create consumer %s on stream %s: %w", subscriberCfg.Consumer, subscriberCfg.Stream, err)
	}
	if onReady != nil {
		onReady()
	}
	g, gCtx := errgroup.WithContext(ctx)
	for i := 0; i < subscriberCfg.Workers; i++ {
		g.Go(func() error {
			return auditor.runWorker(gCtx, consumer, subscriberCfg)
		})
	}
	return g.Wait()
}

// runWorker fetches batches from the consumer until ctx is done.
func (a *Auditor) runWorker(ctx context.Context, consumer jetstream.Consumer, cfg config.SubscriberConfig) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			batch, err := consumer.Fetch(cfg.Batch, jetstream.FetchMaxWait(cfg.Timeout))
			if err != nil {
				if errors.Is(err, nats.ErrTimeout) {
					continue
				}
				a.logger.Error("failed to fetch messages", "error", err)
				time.Sleep(cfg.Interval)
				continue
			}
			for msg := range batch.Messages() {
				a.handleMessage(ctx, msg)
			}
			if err := batch.Error(); err != nil && !errors.Is(err, nats.ErrTimeout) {
				a.logger.Warn("batch finished with error", "error", err)
			}
		}
	}
}

// handleMessage audits one event. Malformed payloads and transient lookup failures are redelivered.
func (a *Auditor) handleMessage(ctx context.Context, msg ackableMsg) {
	if msg == nil {
		a.logger.Error("received nil message")
		return
	}
	var event events.ProductEvent
	if err := json.Unmarshal(msg.Data(), &event); err != nil {
		a.logger.Error("failed to unmarshal message", "error", err, "subject", msg.Subject())
		a.nak(msg)
		return
	}

	record := []any{
		slog.String("subject", msg.Subject()),
		slog.Int64("product_id", event.ProductID),
		slog.String("action", event.Action),
		slog.String("occurred_at", event.OccurredAt.Format(time.RFC3339)),
	}

	if event.Action == events.ActionDeleted {
		a.logger.Info("product audit", record...)
		a.ack(msg)
		return
	}

	resp, err := a.products.GetProduct(ctx, &productv1.GetProductRequest{Id: event.ProductID})
	switch {
	case status.Code(err) == codes.NotFound, err == nil && (resp == nil || resp.Product == nil):
		a.logger.Info("product audit, product no longer exists", record...)
		a.ack(msg)
		return
	case err != nil:
		a.logger.Error("failed to fetch product", append(record, slog.Any("error", err))...)
		a.nak(msg)
		return
	}

	product := resp.Product
	a.logger.Info("product audit", append(record,
		slog.String("name", product.Name),
		slog.Int64("price", product.Price),
		slog.Int("stock", int(product.Stock)),
		slog.Bool("active", product.Active),
	)...)
	if product.Stock < a.lowStockThreshold {
		a.logger.Warn("low stock",
			slog.Int64("product_id", product.Id),
			slog.String("name", product.Name),
			slog.Int("stock", int(product.Stock)),
			slog.Int("threshold", int(a.lowStockThreshold)))
	}
	a.ack(msg)
}

func (a *Auditor) ack(msg ackableMsg) {
	if err := msg.Ack(); err != nil {
		a.logger.Error("failed to ack message", "error", err)
	}
}

func (a *Auditor) nak(msg ackableMsg) {
	if err := msg.Nak(); err != nil {
		a.logger.Error("failed to nack message", "error", err)
	}
}
