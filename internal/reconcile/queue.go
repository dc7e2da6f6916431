package reconcile

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/feral-file/ff-ticketing/internal/adapter"
	"github.com/feral-file/ff-ticketing/internal/domain"
	"github.com/feral-file/ff-ticketing/internal/logger"
	"github.com/feral-file/ff-ticketing/internal/metrics"
)

// Reasons a ticket is queued for reconciliation
const (
	ReasonCacheWriteFailed    = "cache_write_failed"
	ReasonTransferWhileListed = "transfer_while_listed"
	ReasonDivergence          = "divergence"
	ReasonFlagged             = "flagged"
	ReasonRetry               = "retry"
	ReasonCacheMiss           = "cache_miss"
	ReasonPendingConfirmation = "pending_confirmation"
)

// Queue is a due-time ordered set of ticket keys whose cache rows must be rebuilt from chain.
// A key is queued at most once; enqueueing it again moves its due time.
//
//go:generate mockgen -source=queue.go -destination=../mocks/reconcile_queue.go -package=mocks -mock_names=Queue=MockReconcileQueue
type Queue interface {
	// Enqueue makes the key due immediately
	Enqueue(ctx context.Context, key domain.TicketKey, reason string) error

	// Schedule makes the key due at the given time
	Schedule(ctx context.Context, key domain.TicketKey, at time.Time) error

	// Claim removes and returns up to limit keys that are due
	Claim(ctx context.Context, limit int64) ([]domain.TicketKey, error)

	// Depth returns the number of queued keys
	Depth(ctx context.Context) (int64, error)
}

type redisQueue struct {
	client adapter.RedisClient
	key    string
	clock  adapter.Clock
}

// NewRedisQueue creates a queue backed by a Redis sorted set scored by due time (unix millis)
func NewRedisQueue(client adapter.RedisClient, key string, clock adapter.Clock) Queue {
	return &redisQueue{
		client: client,
		key:    key,
		clock:  clock,
	}
}

func score(t time.Time) float64 {
	return float64(t.UnixMilli())
}

// Enqueue makes the key due immediately
func (q *redisQueue) Enqueue(ctx context.Context, key domain.TicketKey, reason string) error {
	if err := q.client.ZAdd(ctx, q.key, score(q.clock.Now()), key.String()); err != nil {
		return fmt.Errorf("failed to enqueue %s: %w", key, err)
	}

	logger.InfoCtx(ctx, "Queued ticket for reconciliation", logger.TicketKey(key), zap.String("reason", reason))
	return nil
}

// Schedule makes the key due at the given time
func (q *redisQueue) Schedule(ctx context.Context, key domain.TicketKey, at time.Time) error {
	if err := q.client.ZAdd(ctx, q.key, score(at), key.String()); err != nil {
		return fmt.Errorf("failed to schedule %s: %w", key, err)
	}
	return nil
}

// Claim removes and returns up to limit keys that are due
func (q *redisQueue) Claim(ctx context.Context, limit int64) ([]domain.TicketKey, error) {
	members, err := q.client.ZPopDue(ctx, q.key, score(q.clock.Now()), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to claim reconcile entries: %w", err)
	}

	keys := make([]domain.TicketKey, 0, len(members))
	for _, member := range members {
		key, err := domain.ParseTicketKey(member)
		if err != nil {
			// Drop garbage rather than block the queue on it
			logger.WarnCtx(ctx, "Dropping malformed reconcile entry", zap.String("member", member), zap.Error(err))
			continue
		}
		keys = append(keys, key)
	}

	return keys, nil
}

// Depth returns the number of queued keys
func (q *redisQueue) Depth(ctx context.Context) (int64, error) {
	depth, err := q.client.ZCard(ctx, q.key)
	if err != nil {
		return 0, fmt.Errorf("failed to read reconcile queue depth: %w", err)
	}
	metrics.ReconcileQueueDepth.Set(float64(depth))
	return depth, nil
}
