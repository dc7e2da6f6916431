package sweeper

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/feral-file/ff-ticketing/internal/adapter"
	"github.com/feral-file/ff-ticketing/internal/domain"
	"github.com/feral-file/ff-ticketing/internal/ledger"
	"github.com/feral-file/ff-ticketing/internal/logger"
	"github.com/feral-file/ff-ticketing/internal/metrics"
	"github.com/feral-file/ff-ticketing/internal/reconcile"
	"github.com/feral-file/ff-ticketing/internal/store"
)

const (
	outcomeRebuilt = "rebuilt"
	outcomeAbsent  = "absent"
	outcomeRetry   = "retry"
	outcomeDropped = "dropped"
)

// ReconcileSweeperConfig holds configuration for the reconcile sweeper
type ReconcileSweeperConfig struct {
	BatchSize           int           // Keys claimed per cycle
	WorkerPoolSize      int           // Concurrent rebuilds
	IdleInterval        time.Duration // Sleep when nothing is due
	FlaggedScanInterval time.Duration // How often flagged rows are swept into the queue
	RetryInitial        time.Duration // First retry delay of a failing key
	RetryMax            time.Duration // Cap of the retry delay
	RetryMaxElapsed     time.Duration // Give up on a key after this long
}

// reconcileSweeper rebuilds queued ticket rows from chain
type reconcileSweeper struct {
	config   *ReconcileSweeperConfig
	queue    reconcile.Queue
	store    store.Store
	ledgers  ledger.Set
	clock    adapter.Clock
	pool     pond.Pool
	lastScan time.Time

	retriesMu sync.Mutex
	retries   map[string]*backoff.ExponentialBackOff

	running   atomic.Bool
	stopChan  chan struct{}
	stoppedCh chan struct{}
}

// NewReconcileSweeper creates a new reconcile sweeper
func NewReconcileSweeper(
	config *ReconcileSweeperConfig,
	queue reconcile.Queue,
	st store.Store,
	ledgers ledger.Set,
	clock adapter.Clock,
) Sweeper {
	if config.BatchSize <= 0 {
		config.BatchSize = 100
	}
	if config.WorkerPoolSize <= 0 {
		config.WorkerPoolSize = 8
	}
	if config.IdleInterval <= 0 {
		config.IdleInterval = 5 * time.Second
	}
	if config.FlaggedScanInterval <= 0 {
		config.FlaggedScanInterval = 10 * time.Minute
	}
	if config.RetryInitial <= 0 {
		config.RetryInitial = 15 * time.Second
	}
	if config.RetryMax <= 0 {
		config.RetryMax = 10 * time.Minute
	}
	if config.RetryMaxElapsed <= 0 {
		config.RetryMaxElapsed = 24 * time.Hour
	}

	return &reconcileSweeper{
		config:    config,
		queue:     queue,
		store:     st,
		ledgers:   ledgers,
		clock:     clock,
		retries:   make(map[string]*backoff.ExponentialBackOff),
		stopChan:  make(chan struct{}),
		stoppedCh: make(chan struct{}),
	}
}

// Name returns the sweeper's name
func (s *reconcileSweeper) Name() string {
	return "reconcile-sweeper"
}

// Start runs reconcile cycles until the context is canceled or Stop is called
func (s *reconcileSweeper) Start(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return fmt.Errorf("sweeper already running")
	}
	defer func() {
		s.running.Store(false)
		close(s.stoppedCh)
	}()

	logger.InfoCtx(ctx, "Starting reconcile sweeper",
		zap.Int("batch_size", s.config.BatchSize),
		zap.Int("worker_pool_size", s.config.WorkerPoolSize),
		zap.Duration("idle_interval", s.config.IdleInterval),
	)

	s.pool = s.newPool(ctx)

	for {
		select {
		case <-ctx.Done():
			logger.InfoCtx(ctx, "Reconcile sweeper stopping due to context cancellation", zap.Error(ctx.Err()))
			s.cleanup()
			return nil
		case <-s.stopChan:
			logger.InfoCtx(ctx, "Reconcile sweeper stop requested")
			s.cleanup()
			return nil
		default:
			if err := s.runCycle(ctx); err != nil {
				if !errors.Is(err, context.Canceled) {
					logger.ErrorCtx(ctx, err)
				}
				// Back off after a failed claim so a Redis outage does not spin
				s.sleep(ctx, s.config.IdleInterval)
			}
		}
	}
}

func (s *reconcileSweeper) newPool(ctx context.Context) pond.Pool {
	return pond.NewPool(
		s.config.WorkerPoolSize,
		pond.WithQueueSize(s.config.BatchSize),
		pond.WithContext(ctx),
	)
}

func (s *reconcileSweeper) cleanup() {
	if s.pool != nil {
		s.pool.StopAndWait()
	}
}

// Stop gracefully stops the sweeper with timeout support
func (s *reconcileSweeper) Stop(ctx context.Context) error {
	if !s.running.CompareAndSwap(true, false) {
		return nil
	}

	logger.InfoCtx(ctx, "Stopping reconcile sweeper")
	close(s.stopChan)

	select {
	case <-s.stoppedCh:
		logger.InfoCtx(ctx, "Reconcile sweeper stopped gracefully")
		return nil
	case <-ctx.Done():
		logger.WarnCtx(ctx, "Reconcile sweeper stop interrupted by context timeout")
		return ctx.Err()
	}
}

// runCycle claims due keys and rebuilds them concurrently
func (s *reconcileSweeper) runCycle(ctx context.Context) error {
	startTime := s.clock.Now()

	s.sweepFlagged(ctx)

	keys, err := s.queue.Claim(ctx, int64(s.config.BatchSize))
	if err != nil {
		return fmt.Errorf("failed to claim reconcile keys: %w", err)
	}

	if len(keys) == 0 {
		s.updateDepth(ctx)
		if !s.sleep(ctx, s.config.IdleInterval) {
			return ctx.Err()
		}
		return nil
	}

	var rebuilt, absent, retried, dropped atomic.Int32
	for _, key := range keys {
		s.pool.Submit(func() {
			switch s.reconcileKey(ctx, key) {
			case outcomeRebuilt:
				rebuilt.Add(1)
			case outcomeAbsent:
				absent.Add(1)
			case outcomeRetry:
				retried.Add(1)
			case outcomeDropped:
				dropped.Add(1)
			}
		})
	}

	s.pool.StopAndWait()
	s.pool = s.newPool(ctx)
	s.updateDepth(ctx)

	logger.InfoCtx(ctx, "Reconcile cycle completed",
		zap.Duration("duration", s.clock.Since(startTime)),
		zap.Int("claimed", len(keys)),
		zap.Int32("rebuilt", rebuilt.Load()),
		zap.Int32("absent", absent.Load()),
		zap.Int32("retried", retried.Load()),
		zap.Int32("dropped", dropped.Load()),
	)

	return nil
}

// sweepFlagged queues rows flagged needs_reconcile whose enqueue may have been lost
func (s *reconcileSweeper) sweepFlagged(ctx context.Context) {
	if !s.lastScan.IsZero() && s.clock.Since(s.lastScan) < s.config.FlaggedScanInterval {
		return
	}
	s.lastScan = s.clock.Now()

	keys, err := s.store.ListTicketsNeedingReconcile(ctx, s.config.BatchSize)
	if err != nil {
		logger.ErrorCtx(ctx, fmt.Errorf("failed to list flagged tickets: %w", err))
		return
	}
	for _, key := range keys {
		if err := s.queue.Enqueue(ctx, key, reconcile.ReasonFlagged); err != nil {
			logger.ErrorCtx(ctx, err, logger.TicketKey(key))
		}
	}
}

func (s *reconcileSweeper) updateDepth(ctx context.Context) {
	if _, err := s.queue.Depth(ctx); err != nil {
		logger.WarnCtx(ctx, "Failed to read reconcile queue depth", zap.Error(err))
	}
}

// reconcileKey overwrites one cached row with a chain snapshot
func (s *reconcileSweeper) reconcileKey(ctx context.Context, key domain.TicketKey) string {
	outcome, err := s.rebuild(ctx, key)
	if err == nil {
		s.forget(key)
		metrics.ReconcileTotal.WithLabelValues(outcome).Inc()
		return outcome
	}

	if errors.Is(err, domain.ErrUnknownChain) {
		logger.ErrorCtx(ctx, fmt.Errorf("dropping reconcile key: %w", err), logger.TicketKey(key))
		metrics.ReconcileTotal.WithLabelValues(outcomeDropped).Inc()
		return outcomeDropped
	}

	next := s.nextRetry(key)
	if next == backoff.Stop {
		s.forget(key)
		logger.ErrorCtx(ctx, fmt.Errorf("giving up reconciling ticket: %w", err), logger.TicketKey(key))
		metrics.ReconcileTotal.WithLabelValues(outcomeDropped).Inc()
		return outcomeDropped
	}

	if schedErr := s.queue.Schedule(ctx, key, s.clock.Now().Add(next)); schedErr != nil {
		logger.ErrorCtx(ctx, schedErr, logger.TicketKey(key))
	}
	logger.WarnCtx(ctx, "Reconcile failed, retrying later",
		logger.TicketKey(key),
		zap.Error(err),
		zap.Duration("next_retry_in", next),
	)
	metrics.ReconcileTotal.WithLabelValues(outcomeRetry).Inc()
	return outcomeRetry
}

func (s *reconcileSweeper) rebuild(ctx context.Context, key domain.TicketKey) (string, error) {
	client, err := s.ledgers.Get(key.ChainID)
	if err != nil {
		return "", err
	}

	state, err := client.Snapshot(ctx, key)
	if err != nil {
		return "", fmt.Errorf("failed to read ticket from chain: %w", err)
	}

	if _, err := s.store.SaveSnapshot(ctx, state, s.clock.Now()); err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrCacheWriteFailed, err)
	}

	if !state.Exists {
		logger.InfoCtx(ctx, "Dropped cached ticket absent on chain", logger.TicketKey(key))
		return outcomeAbsent, nil
	}
	logger.InfoCtx(ctx, "Reconciled ticket from chain", logger.TicketKey(key))
	return outcomeRebuilt, nil
}

// nextRetry returns the delay before the key's next attempt, or backoff.Stop
func (s *reconcileSweeper) nextRetry(key domain.TicketKey) time.Duration {
	s.retriesMu.Lock()
	defer s.retriesMu.Unlock()

	b, ok := s.retries[key.String()]
	if !ok {
		b = backoff.NewExponentialBackOff()
		b.InitialInterval = s.config.RetryInitial
		b.MaxInterval = s.config.RetryMax
		b.MaxElapsedTime = s.config.RetryMaxElapsed
		b.Multiplier = 2.0
		b.RandomizationFactor = 0.5
		b.Reset()
		s.retries[key.String()] = b
	}
	return b.NextBackOff()
}

func (s *reconcileSweeper) forget(key domain.TicketKey) {
	s.retriesMu.Lock()
	delete(s.retries, key.String())
	s.retriesMu.Unlock()
}

// sleep sleeps for the given duration but can be interrupted by context cancellation
// Returns true if sleep completed normally, false if interrupted
func (s *reconcileSweeper) sleep(ctx context.Context, duration time.Duration) bool {
	select {
	case <-s.clock.After(duration):
		return true
	case <-ctx.Done():
		return false
	case <-s.stopChan:
		return false
	}
}
