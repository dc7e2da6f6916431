package syncer

import (
	"context"
	"errors"
	"fmt"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/feral-file/ff-ticketing/internal/adapter"
	"github.com/feral-file/ff-ticketing/internal/domain"
	"github.com/feral-file/ff-ticketing/internal/ledger"
	"github.com/feral-file/ff-ticketing/internal/logger"
	"github.com/feral-file/ff-ticketing/internal/metrics"
	"github.com/feral-file/ff-ticketing/internal/reconcile"
	"github.com/feral-file/ff-ticketing/internal/store"
)

// SyncStatus is the outcome of applying one mutation
type SyncStatus string

const (
	// StatusApplied: the projection was written
	StatusApplied SyncStatus = "applied"
	// StatusDuplicate: the mutation was already recorded; nothing was written
	StatusDuplicate SyncStatus = "duplicate"
	// StatusStale: recorded in history but older than the cached state
	StatusStale SyncStatus = "stale"
	// StatusSkipped: recorded in history but a transition guard did not hold
	StatusSkipped SyncStatus = "skipped"
	// StatusDeferred: the cache could not be written; the ticket is queued for reconciliation
	StatusDeferred SyncStatus = "deferred"
	// StatusRejected: the mutation would break a cache invariant
	StatusRejected SyncStatus = "rejected"
)

// SyncResult describes what the engine did with a mutation
type SyncResult struct {
	MutationID string         `json:"mutationId"`
	Status     SyncStatus     `json:"status"`
	Reason     string         `json:"reason,omitempty"`
	Ticket     *domain.Ticket `json:"ticket,omitempty"`
	// Reconcile is true when the ticket was queued for reconciliation
	Reconcile bool `json:"reconcile"`
}

var (
	ticketTxTypes  = []domain.TxType{domain.TxTypePurchase, domain.TxTypeTransfer, domain.TxTypeUse}
	listingTxTypes = []domain.TxType{domain.TxTypeListing, domain.TxTypeSale, domain.TxTypeCancel}
)

// Engine projects confirmed on-chain mutations into the cache.
// Cache failures are never returned as errors; they yield StatusDeferred.
//
//go:generate mockgen -source=syncer.go -destination=../mocks/sync_engine.go -package=mocks -mock_names=Engine=MockSyncEngine
type Engine interface {
	// SyncTicket applies a purchase, transfer or use mutation
	SyncTicket(ctx context.Context, mutation *domain.Mutation) (*SyncResult, error)

	// SyncListing applies a listing, sale or cancel mutation
	SyncListing(ctx context.Context, mutation *domain.Mutation) (*SyncResult, error)

	// SyncTransaction applies a mutation of any type
	SyncTransaction(ctx context.Context, mutation *domain.Mutation) (*SyncResult, error)

	// Apply validates the mutation and projects it under the ticket's lock
	Apply(ctx context.Context, mutation *domain.Mutation) (*SyncResult, error)
}

type engine struct {
	store   store.Store
	ledgers ledger.Set
	queue   reconcile.Queue
	clock   adapter.Clock
	locks   *keyedMutex
}

// NewEngine creates a new sync engine
func NewEngine(st store.Store, ledgers ledger.Set, queue reconcile.Queue, clock adapter.Clock) Engine {
	return &engine{
		store:   st,
		ledgers: ledgers,
		queue:   queue,
		clock:   clock,
		locks:   newKeyedMutex(),
	}
}

func contains(allowed []domain.TxType, txType domain.TxType) bool {
	for _, t := range allowed {
		if txType == t {
			return true
		}
	}
	return false
}

// IsTicketTxType reports whether SyncTicket accepts the tx type
func IsTicketTxType(t domain.TxType) bool {
	return contains(ticketTxTypes, t)
}

// IsListingTxType reports whether SyncListing accepts the tx type
func IsListingTxType(t domain.TxType) bool {
	return contains(listingTxTypes, t)
}

func requireType(m *domain.Mutation, allowed []domain.TxType) error {
	if contains(allowed, m.TxType) {
		return nil
	}
	return fmt.Errorf("%w: tx type %q not accepted here", domain.ErrInvalidMutation, m.TxType)
}

// SyncTicket applies a purchase, transfer or use mutation
func (e *engine) SyncTicket(ctx context.Context, mutation *domain.Mutation) (*SyncResult, error) {
	if err := requireType(mutation, ticketTxTypes); err != nil {
		return nil, err
	}
	return e.Apply(ctx, mutation)
}

// SyncListing applies a listing, sale or cancel mutation
func (e *engine) SyncListing(ctx context.Context, mutation *domain.Mutation) (*SyncResult, error) {
	if err := requireType(mutation, listingTxTypes); err != nil {
		return nil, err
	}
	return e.Apply(ctx, mutation)
}

// SyncTransaction applies a mutation of any type
func (e *engine) SyncTransaction(ctx context.Context, mutation *domain.Mutation) (*SyncResult, error) {
	return e.Apply(ctx, mutation)
}

// Apply validates the mutation and projects it under the ticket's lock
func (e *engine) Apply(ctx context.Context, mutation *domain.Mutation) (*SyncResult, error) {
	m := *mutation
	m.Normalize()
	if err := m.Validate(); err != nil {
		return nil, err
	}
	if _, err := e.ledgers.Get(m.Key.ChainID); err != nil {
		return nil, err
	}

	if m.ID == "" {
		m.ID = ulid.MustNewDefault(e.clock.Now()).String()
	}
	if m.Timestamp.IsZero() {
		m.Timestamp = e.clock.Now()
	}

	// The ledger write already succeeded; finish the projection even if the caller goes away
	ctx = context.WithoutCancel(ctx)

	unlock := e.locks.Lock(m.Key.String())
	defer unlock()

	if !m.HasConfirmationOrder() {
		logger.WarnCtx(ctx, "Mutation has no confirmation order, applying in arrival order", logger.Mutation(&m)...)
	}

	result, err := e.apply(ctx, &m)
	if result != nil {
		metrics.SyncMutationsTotal.WithLabelValues(string(m.TxType), string(result.Status)).Inc()
	}
	return result, err
}

func (e *engine) apply(ctx context.Context, m *domain.Mutation) (*SyncResult, error) {
	var d decision
	projected, err := e.store.ProjectMutation(ctx, m, func(current *domain.Ticket, active *domain.Listing) (*store.Projection, error) {
		projection, decided, err := project(m, current, active, e.clock.Now())
		d = decided
		return projection, err
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvariantViolation) {
			logger.ErrorCtx(ctx, fmt.Errorf("rejected mutation: %w", err), logger.Mutation(m)...)
			return &SyncResult{MutationID: m.ID, Status: StatusRejected, Reason: err.Error()}, err
		}
		return e.deferred(ctx, m, err), nil
	}

	result := &SyncResult{MutationID: m.ID, Ticket: projected.Ticket, Reason: d.reason}
	if projected.Duplicate {
		result.Status = StatusDuplicate
		result.Reason = "already recorded"
		logger.InfoCtx(ctx, "Mutation already applied", logger.Mutation(m)...)
		return result, nil
	}

	switch d.outcome {
	case outcomeSeed:
		return e.seed(ctx, m)
	case outcomeStale:
		result.Status = StatusStale
		logger.WarnCtx(ctx, "Recorded stale mutation without projecting it", logger.Mutation(m)...)
	case outcomeSkipped:
		result.Status = StatusSkipped
		logger.WarnCtx(ctx, "Transition guard did not hold", append(logger.Mutation(m), zap.String("reason", d.reason))...)
	default:
		result.Status = StatusApplied
		logger.InfoCtx(ctx, "Applied mutation", logger.Mutation(m)...)
	}

	if d.flag {
		logger.WarnCtx(ctx, "Ticket flagged for reconciliation", append(logger.Mutation(m), zap.String("reason", d.reason))...)
		reason := reconcile.ReasonTransferWhileListed
		if m.TxType != domain.TxTypeTransfer {
			reason = reconcile.ReasonDivergence
		}
		result.Reconcile = e.enqueue(ctx, m.Key, reason)
	}

	return result, nil
}

// seed builds the missing row from chain. The chain already reflects the mutation.
func (e *engine) seed(ctx context.Context, m *domain.Mutation) (*SyncResult, error) {
	client, err := e.ledgers.Get(m.Key.ChainID)
	if err != nil {
		return e.deferred(ctx, m, err), nil
	}

	state, err := client.Snapshot(ctx, m.Key)
	if err != nil {
		return e.deferred(ctx, m, err), nil
	}
	if !state.Exists {
		logger.WarnCtx(ctx, "Confirmed mutation for a ticket the chain does not report", logger.Mutation(m)...)
	}

	ticket, err := e.store.SaveSnapshot(ctx, state, e.clock.Now())
	if err != nil {
		return e.deferred(ctx, m, err), nil
	}

	logger.InfoCtx(ctx, "Seeded ticket from chain", logger.Mutation(m)...)
	return &SyncResult{
		MutationID: m.ID,
		Status:     StatusApplied,
		Reason:     "seeded from chain",
		Ticket:     ticket,
	}, nil
}

// deferred logs a cache failure and queues the ticket so the cache is rebuilt later
func (e *engine) deferred(ctx context.Context, m *domain.Mutation, cause error) *SyncResult {
	err := fmt.Errorf("%w: %w", domain.ErrCacheWriteFailed, cause)
	logger.ErrorCtx(ctx, err, logger.Mutation(m)...)

	return &SyncResult{
		MutationID: m.ID,
		Status:     StatusDeferred,
		Reason:     err.Error(),
		Reconcile:  e.enqueue(ctx, m.Key, reconcile.ReasonCacheWriteFailed),
	}
}

func (e *engine) enqueue(ctx context.Context, key domain.TicketKey, reason string) bool {
	if e.queue == nil {
		return false
	}
	if err := e.queue.Enqueue(ctx, key, reason); err != nil {
		// The needs_reconcile flag or the next read-through still heals the row
		logger.ErrorCtx(ctx, err, logger.TicketKey(key), zap.String("reason", reason))
		return false
	}
	return true
}
