package bridge

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"go.uber.org/zap"

	"github.com/feral-file/ff-ticketing/internal/adapter"
	"github.com/feral-file/ff-ticketing/internal/domain"
	"github.com/feral-file/ff-ticketing/internal/logger"
	"github.com/feral-file/ff-ticketing/internal/messaging"
	"github.com/feral-file/ff-ticketing/internal/metrics"
	"github.com/feral-file/ff-ticketing/internal/syncer"
)

const (
	outcomeAck  = "ack"
	outcomeNak  = "nak"
	outcomeTerm = "term"
)

// Config holds the configuration for the sync bridge
type Config struct {
	URL            string
	StreamName     string
	ConsumerName   string
	MaxReconnects  int
	ReconnectWait  time.Duration
	ConnectionName string
	AckWaitTimeout time.Duration
	MaxDeliver     int
	// NakDelay defers redelivery after a chain outage; zero redelivers at once
	NakDelay time.Duration
	// WorkerPoolSize bounds the mutations applied concurrently
	WorkerPoolSize  int
	WorkerQueueSize int
}

// Bridge consumes confirmed mutation records and applies them to the cache
type Bridge interface {
	// Run starts consuming until the context is canceled
	Run(ctx context.Context) error
	// Close closes the bridge and cleans up resources
	Close()
}

type bridge struct {
	nc     adapter.NatsConn
	js     adapter.JetStream
	engine syncer.Engine
	json   adapter.JSON
	config Config
}

// NewBridge creates a new sync bridge
func NewBridge(
	cfg Config,
	natsJS adapter.NatsJetStream,
	engine syncer.Engine,
	jsonAdapter adapter.JSON,
) (Bridge, error) {
	opts := []nats.Option{
		nats.Name(cfg.ConnectionName),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			if err != nil {
				logger.Error(err, zap.String("message", "Disconnected from NATS"))
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("Reconnected to NATS", zap.String("url", nc.ConnectedUrl()))
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			logger.Info("NATS connection closed")
		}),
	}

	nc, js, err := natsJS.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS and create JetStream: %w", err)
	}

	return &bridge{
		nc:     nc,
		js:     js,
		engine: engine,
		json:   jsonAdapter,
		config: cfg,
	}, nil
}

// Run starts the sync bridge
func (b *bridge) Run(ctx context.Context) error {
	logger.InfoCtx(ctx, "Starting sync bridge", zap.String("stream", b.config.StreamName), zap.String("consumer", b.config.ConsumerName))

	consumerConfig := jetstream.ConsumerConfig{
		Durable:       b.config.ConsumerName,
		AckPolicy:     jetstream.AckExplicitPolicy,
		AckWait:       b.config.AckWaitTimeout,
		MaxDeliver:    b.config.MaxDeliver,
		FilterSubject: messaging.SubjectPrefix + ".>",
	}

	consumer, err := b.js.EnsureConsumer(ctx, b.config.StreamName, consumerConfig)
	if err != nil {
		return fmt.Errorf("failed to create/update consumer: %w", err)
	}

	consumerInfo, err := consumer.Info(ctx)
	if err != nil {
		return fmt.Errorf("failed to get consumer info: %w", err)
	}
	logger.InfoCtx(ctx, "Consumer created/retrieved", zap.String("consumer", consumerInfo.Name))

	msgChan := make(chan adapter.Message, 100)
	sub, err := consumer.Consume(func(msg adapter.Message) {
		msgChan <- msg
	})
	if err != nil {
		return fmt.Errorf("failed to create subscription: %w", err)
	}
	defer sub.Stop()

	poolSize := b.config.WorkerPoolSize
	if poolSize <= 0 {
		poolSize = 16
	}
	pool := pond.NewPool(poolSize, pond.WithQueueSize(b.config.WorkerQueueSize), pond.WithContext(ctx))
	defer pool.StopAndWait()

	logger.InfoCtx(ctx, "Started consuming mutations", zap.Int("workers", poolSize))

	for {
		select {
		case <-ctx.Done():
			logger.InfoCtx(ctx, "Shutting down sync bridge")
			return ctx.Err()
		case msg := <-msgChan:
			// Mutations of one ticket are serialized by the engine's per-key lock
			pool.Submit(func() {
				b.handleMessage(ctx, msg)
			})
		}
	}
}

// handleMessage applies one mutation record and settles the message
func (b *bridge) handleMessage(ctx context.Context, msg adapter.Message) {
	var deliveries uint64
	if metadata, err := msg.Metadata(); err == nil && metadata != nil {
		deliveries = metadata.NumDelivered
	}

	var mutation domain.Mutation
	if err := b.json.Unmarshal(msg.Data(), &mutation); err != nil {
		logger.ErrorCtx(ctx, err, zap.String("message", "Failed to unmarshal mutation"), zap.String("subject", msg.Subject()))
		b.term(ctx, msg)
		return
	}

	logger.InfoCtx(ctx, "Received mutation", append(logger.Mutation(&mutation), zap.Uint64("deliveryCount", deliveries))...)

	result, err := b.engine.SyncTransaction(ctx, &mutation)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidMutation), errors.Is(err, domain.ErrUnknownChain):
			// Redelivery cannot fix a malformed record
			logger.ErrorCtx(ctx, fmt.Errorf("dropping mutation: %w", err), logger.Mutation(&mutation)...)
			b.term(ctx, msg)
		case errors.Is(err, domain.ErrInvariantViolation):
			// Rejected and logged by the engine; the reconciler owns the ticket now
			b.ack(ctx, msg)
		case errors.Is(err, domain.ErrChainUnreachable):
			logger.WarnCtx(ctx, "Chain unreachable, deferring mutation", append(logger.Mutation(&mutation), zap.Error(err))...)
			b.nak(ctx, msg, b.config.NakDelay)
		default:
			logger.ErrorCtx(ctx, fmt.Errorf("failed to apply mutation: %w", err), logger.Mutation(&mutation)...)
			b.nak(ctx, msg, 0)
		}
		return
	}

	logger.DebugCtx(ctx, "Mutation settled",
		append(logger.Mutation(&mutation), zap.String("status", string(result.Status)))...)
	b.ack(ctx, msg)
}

func (b *bridge) ack(ctx context.Context, msg adapter.Message) {
	metrics.BridgeMessagesTotal.WithLabelValues(outcomeAck).Inc()
	if err := msg.Ack(); err != nil {
		logger.ErrorCtx(ctx, err, zap.String("message", "Failed to ACK message"))
	}
}

func (b *bridge) nak(ctx context.Context, msg adapter.Message, delay time.Duration) {
	metrics.BridgeMessagesTotal.WithLabelValues(outcomeNak).Inc()
	nak := msg.Nak
	if delay > 0 {
		nak = func() error { return msg.NakWithDelay(delay) }
	}
	if err := nak(); err != nil {
		logger.ErrorCtx(ctx, err, zap.String("message", "Failed to NAK message"))
	}
}

func (b *bridge) term(ctx context.Context, msg adapter.Message) {
	metrics.BridgeMessagesTotal.WithLabelValues(outcomeTerm).Inc()
	if err := msg.Term(); err != nil {
		logger.ErrorCtx(ctx, err, zap.String("message", "Failed to terminate message"))
	}
}

// Close closes the bridge and cleans up resources
func (b *bridge) Close() {
	if b.nc == nil {
		return
	}

	b.nc.Close()
}
