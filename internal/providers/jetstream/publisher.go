package jetstream

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	natsjs "github.com/nats-io/nats.go/jetstream"
	"go.uber.org/zap"

	"github.com/feral-file/ff-ticketing/internal/adapter"
	"github.com/feral-file/ff-ticketing/internal/domain"
	"github.com/feral-file/ff-ticketing/internal/logger"
	"github.com/feral-file/ff-ticketing/internal/messaging"
)

// Config holds the configuration for NATS JetStream connection
type Config struct {
	URL            string
	StreamName     string
	MaxReconnects  int
	ReconnectWait  time.Duration
	ConnectionName string
	// DuplicateWindow is how long JetStream remembers message ids for de-duplication
	DuplicateWindow time.Duration
}

type publisher struct {
	nc         adapter.NatsConn
	js         adapter.JetStream
	streamName string
	json       adapter.JSON
}

// NewPublisher connects to NATS and makes sure the mutation stream exists
func NewPublisher(ctx context.Context, cfg Config, natsJS adapter.NatsJetStream, jsonAdapter adapter.JSON) (messaging.Publisher, error) {
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

	if err := EnsureStream(ctx, js, cfg); err != nil {
		nc.Close()
		return nil, err
	}

	return &publisher{
		nc:         nc,
		js:         js,
		streamName: cfg.StreamName,
		json:       jsonAdapter,
	}, nil
}

// EnsureStream creates or updates the stream holding mutation records
func EnsureStream(ctx context.Context, js adapter.JetStream, cfg Config) error {
	window := cfg.DuplicateWindow
	if window <= 0 {
		window = 10 * time.Minute
	}

	err := js.EnsureStream(ctx, natsjs.StreamConfig{
		Name:       cfg.StreamName,
		Subjects:   []string{messaging.SubjectPrefix + ".>"},
		Retention:  natsjs.WorkQueuePolicy,
		Storage:    natsjs.FileStorage,
		Duplicates: window,
	})
	if err != nil {
		return fmt.Errorf("failed to create/update stream %s: %w", cfg.StreamName, err)
	}
	return nil
}

// PublishMutation publishes a mutation record. Redelivery of the same record within the
// duplicate window is dropped by JetStream.
func (p *publisher) PublishMutation(ctx context.Context, mutation *domain.Mutation) error {
	logger.DebugCtx(ctx, "Publishing mutation", logger.Mutation(mutation)...)

	data, err := p.json.Marshal(mutation)
	if err != nil {
		return fmt.Errorf("failed to marshal mutation: %w", err)
	}

	subject := messaging.MutationSubject(mutation.Key.ChainID)
	ack, err := p.js.Publish(ctx, subject, data, natsjs.WithMsgID(messaging.MutationMsgID(mutation)))
	if err != nil {
		return fmt.Errorf("failed to publish mutation: %w", err)
	}
	if ack != nil && ack.Duplicate {
		logger.InfoCtx(ctx, "Mutation already published", logger.Mutation(mutation)...)
	}

	return nil
}

// Close closes the NATS connection
func (p *publisher) Close() {
	if p.nc == nil {
		return
	}

	p.nc.Close()
}
