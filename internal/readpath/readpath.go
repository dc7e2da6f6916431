package readpath

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/feral-file/ff-ticketing/internal/adapter"
	"github.com/feral-file/ff-ticketing/internal/domain"
	"github.com/feral-file/ff-ticketing/internal/ledger"
	"github.com/feral-file/ff-ticketing/internal/logger"
	"github.com/feral-file/ff-ticketing/internal/metrics"
	"github.com/feral-file/ff-ticketing/internal/reconcile"
	"github.com/feral-file/ff-ticketing/internal/store"
)

// Source tells where a read was served from
type Source string

const (
	// SourceCache: the cached row was fresh
	SourceCache Source = "cache"
	// SourceChain: the row was missing, stale or unreadable and was rebuilt from chain
	SourceChain Source = "chain"
	// SourceHealed: the cached row disagreed with the chain and was overwritten
	SourceHealed Source = "healed"
	// SourceStaleCache: the chain could not be reached; the cached row is older than the staleness window
	SourceStaleCache Source = "stale_cache"
)

// TicketRead is a ticket and where it came from
type TicketRead struct {
	Ticket *domain.Ticket `json:"ticket"`
	Source Source         `json:"source"`
}

// Config holds the read path settings
type Config struct {
	// StaleAfter is the age after which a cached row is re-read from chain
	StaleAfter time.Duration
}

// ReadPath serves ticket queries from the cache and falls back to the chain,
// overwriting cache rows that are missing, stale or wrong.
//
//go:generate mockgen -source=readpath.go -destination=../mocks/read_path.go -package=mocks -mock_names=ReadPath=MockReadPath
type ReadPath interface {
	// GetTicket returns the cached ticket when fresh, otherwise the chain value
	GetTicket(ctx context.Context, key domain.TicketKey) (*TicketRead, error)

	// VerifyTicket always compares the cached row with the chain and heals divergence
	VerifyTicket(ctx context.Context, key domain.TicketKey) (*TicketRead, error)

	// ListByOwner returns tickets held by an address. With a contract filter it falls back
	// to getTicketsByOwner when the cache errors or has nothing.
	ListByOwner(ctx context.Context, ownerAddress string, filter store.TicketFilter) (*store.Page[domain.Ticket], error)

	// ListByEvent returns cached tickets of an event contract
	ListByEvent(ctx context.Context, contractAddress string, filter store.TicketFilter) (*store.Page[domain.Ticket], error)

	// ListListings returns cached listings
	ListListings(ctx context.Context, filter store.ListingFilter) (*store.Page[domain.Listing], error)

	// ListTransactions returns cached history, newest first
	ListTransactions(ctx context.Context, filter store.TransactionFilter) (*store.Page[domain.Transaction], error)

	// RebuildTicket drops the cached row and rebuilds it purely from chain reads
	RebuildTicket(ctx context.Context, key domain.TicketKey) (*domain.Ticket, error)
}

type readPath struct {
	store   store.Store
	ledgers ledger.Set
	queue   reconcile.Queue
	clock   adapter.Clock
	config  Config
}

// New creates a read path
func New(st store.Store, ledgers ledger.Set, queue reconcile.Queue, clock adapter.Clock, config Config) ReadPath {
	if config.StaleAfter <= 0 {
		config.StaleAfter = 5 * time.Minute
	}
	return &readPath{
		store:   st,
		ledgers: ledgers,
		queue:   queue,
		clock:   clock,
		config:  config,
	}
}

func (r *readPath) fresh(t *domain.Ticket) bool {
	return !t.NeedsReconcile && r.clock.Since(t.SyncedAt) <= r.config.StaleAfter
}

func observe(operation string, source Source) {
	metrics.ReadPathTotal.WithLabelValues(operation, string(source)).Inc()
}

func (r *readPath) GetTicket(ctx context.Context, key domain.TicketKey) (*TicketRead, error) {
	client, err := r.ledgers.Get(key.ChainID)
	if err != nil {
		return nil, err
	}

	cached, cacheErr := r.store.GetTicket(ctx, key)
	if cacheErr != nil {
		logger.WarnCtx(ctx, "Cache read failed, reading chain", logger.TicketKey(key), zap.Error(cacheErr))
	} else if cached != nil && r.fresh(cached) {
		observe("get_ticket", SourceCache)
		return &TicketRead{Ticket: cached, Source: SourceCache}, nil
	}

	state, err := client.Snapshot(ctx, key)
	if err != nil {
		if cacheErr == nil && cached != nil {
			logger.WarnCtx(ctx, "Chain unreachable, serving aged cache row", logger.TicketKey(key), zap.Error(err))
			observe("get_ticket", SourceStaleCache)
			return &TicketRead{Ticket: cached, Source: SourceStaleCache}, nil
		}
		return nil, err
	}

	ticket, err := r.heal(ctx, cached, state)
	if err != nil {
		return nil, err
	}
	observe("get_ticket", SourceChain)
	return &TicketRead{Ticket: ticket, Source: SourceChain}, nil
}

func (r *readPath) VerifyTicket(ctx context.Context, key domain.TicketKey) (*TicketRead, error) {
	client, err := r.ledgers.Get(key.ChainID)
	if err != nil {
		return nil, err
	}

	state, err := client.Snapshot(ctx, key)
	if err != nil {
		return nil, err
	}

	cached, cacheErr := r.store.GetTicket(ctx, key)
	if cacheErr != nil {
		logger.WarnCtx(ctx, "Cache read failed during verification", logger.TicketKey(key), zap.Error(cacheErr))
	}

	if cacheErr == nil && cached != nil && state.Exists && !diverged(cached, state) {
		observe("verify_ticket", SourceCache)
		return &TicketRead{Ticket: cached, Source: SourceCache}, nil
	}

	source := SourceChain
	if cached != nil {
		source = SourceHealed
		logger.WarnCtx(ctx, "Cached ticket diverged from chain, healing",
			logger.TicketKey(key),
			zap.Bool("cached_is_used", cached.IsUsed),
			zap.Bool("chain_is_used", state.IsUsed),
			zap.String("cached_owner", cached.OwnerAddress),
			zap.String("chain_owner", state.Holder))
	}

	ticket, err := r.heal(ctx, cached, state)
	if err != nil {
		return nil, err
	}
	observe("verify_ticket", source)
	return &TicketRead{Ticket: ticket, Source: source}, nil
}

// diverged reports whether the cached row disagrees with the chain on anything the cache projects
func diverged(cached *domain.Ticket, state *domain.ChainTicketState) bool {
	if !domain.SameAddress(cached.OwnerAddress, state.Holder) || cached.IsUsed != state.IsUsed {
		return true
	}
	listed := state.IsListed && state.ListingID != nil
	if cached.IsListed != listed {
		return true
	}
	return listed && (cached.ListingID == nil || *cached.ListingID != *state.ListingID)
}

// heal overwrites the cache row with the chain snapshot and returns the chain value.
// A failed cache write is queued for reconciliation and never fails the read.
func (r *readPath) heal(ctx context.Context, cached *domain.Ticket, state *domain.ChainTicketState) (*domain.Ticket, error) {
	if !state.Exists {
		if cached != nil {
			if err := r.store.DeleteTicket(ctx, state.Key); err != nil {
				r.deferred(ctx, state.Key, err)
			}
		}
		return nil, fmt.Errorf("%w: %s", domain.ErrTicketNotFound, state.Key)
	}

	if cached != nil && cached.IsUsed && !state.IsUsed {
		// The chain never clears isUsed; keep the cached flag and let someone look at it
		logger.ErrorCtx(ctx, fmt.Errorf("%w: chain reports unused ticket cached as used", domain.ErrInvariantViolation),
			logger.TicketKey(state.Key))
	}

	now := r.clock.Now()
	saved, err := r.store.SaveSnapshot(ctx, state, now)
	if err != nil {
		r.deferred(ctx, state.Key, err)
		return fromState(state, now), nil
	}
	return saved, nil
}

func (r *readPath) deferred(ctx context.Context, key domain.TicketKey, cause error) {
	logger.ErrorCtx(ctx, fmt.Errorf("%w: %w", domain.ErrCacheWriteFailed, cause), logger.TicketKey(key))
	if r.queue == nil {
		return
	}
	if err := r.queue.Enqueue(ctx, key, reconcile.ReasonCacheWriteFailed); err != nil {
		logger.ErrorCtx(ctx, err, logger.TicketKey(key))
	}
}

// fromState builds the ticket a snapshot describes, for answering when the cache cannot be written
func fromState(state *domain.ChainTicketState, syncedAt time.Time) *domain.Ticket {
	ticket := &domain.Ticket{
		Key:           state.Key,
		OwnerAddress:  domain.NormalizeAddress(state.Holder),
		IsUsed:        state.IsUsed,
		IsListed:      state.IsListed && state.ListingID != nil,
		PurchasePrice: state.PurchasePrice,
		SyncedAt:      syncedAt,
	}
	if ticket.IsListed {
		ticket.ListingID = state.ListingID
	}
	if state.BlockNumber > 0 {
		block := state.BlockNumber
		ticket.LastBlock = &block
	}
	return ticket
}

func (r *readPath) ListByOwner(ctx context.Context, ownerAddress string, filter store.TicketFilter) (*store.Page[domain.Ticket], error) {
	page, err := r.store.ListTicketsByOwner(ctx, ownerAddress, filter)
	if err == nil && (page.Total > 0 || filter.ContractAddress == "") {
		observe("list_by_owner", SourceCache)
		return page, nil
	}
	if err != nil && filter.ContractAddress == "" {
		return nil, err
	}
	if err != nil {
		logger.WarnCtx(ctx, "Cache list failed, reading owner tickets from chain", zap.String("owner", ownerAddress), zap.Error(err))
	}

	chainPage, chainErr := r.ownerTicketsFromChain(ctx, ownerAddress, filter)
	if chainErr != nil {
		if err == nil {
			// The cache answered; an empty page beats a chain error
			return page, nil
		}
		return nil, chainErr
	}
	observe("list_by_owner", SourceChain)
	return chainPage, nil
}

// ownerTicketsFromChain asks every selected chain for the owner's tokens of one contract.
// Found keys are queued so the reconciler warms their cache rows.
func (r *readPath) ownerTicketsFromChain(ctx context.Context, ownerAddress string, filter store.TicketFilter) (*store.Page[domain.Ticket], error) {
	clients := r.ledgers.All()
	if len(filter.ChainIDs) > 0 {
		clients = make([]ledger.Client, 0, len(filter.ChainIDs))
		for _, id := range filter.ChainIDs {
			c, err := r.ledgers.Get(id)
			if err != nil {
				return nil, err
			}
			clients = append(clients, c)
		}
	}

	owner := domain.NormalizeAddress(ownerAddress)
	contract := domain.NormalizeAddress(filter.ContractAddress)
	var tickets []domain.Ticket
	var lastErr error
	answered := 0
	for _, c := range clients {
		tokenIDs, err := c.OwnerTickets(ctx, contract, owner)
		if err != nil {
			if errors.Is(err, ledger.ErrNoContract) || errors.Is(err, ledger.ErrExecutionReverted) {
				answered++
				continue
			}
			logger.WarnCtx(ctx, "Failed to read owner tickets", logger.ChainID(c.Chain().ID), zap.Error(err))
			lastErr = err
			continue
		}
		answered++

		for _, tokenID := range tokenIDs {
			key := domain.TicketKey{ChainID: c.Chain().ID, ContractAddress: contract, TokenID: tokenID}
			tickets = append(tickets, domain.Ticket{Key: key, OwnerAddress: owner, PurchasePrice: "0"})
			if r.queue != nil {
				if err := r.queue.Enqueue(ctx, key, reconcile.ReasonCacheMiss); err != nil {
					logger.WarnCtx(ctx, "Failed to queue ticket for warming", logger.TicketKey(key), zap.Error(err))
				}
			}
		}
	}
	if answered == 0 && lastErr != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrChainUnreachable, lastErr)
	}

	sortTickets(tickets, r.ledgers)
	return paginate(tickets, filter.Limit, filter.Offset), nil
}

// sortTickets orders by chain priority then numeric token id so pages are deterministic
func sortTickets(tickets []domain.Ticket, ledgers ledger.Set) {
	priority := make(map[domain.ChainID]int)
	for i, c := range ledgers.All() {
		priority[c.Chain().ID] = i
	}
	sort.SliceStable(tickets, func(i, j int) bool {
		a, b := tickets[i].Key, tickets[j].Key
		if a.ChainID != b.ChainID {
			return priority[a.ChainID] < priority[b.ChainID]
		}
		return tokenOrZero(a).Cmp(tokenOrZero(b)) < 0
	})
}

func tokenOrZero(k domain.TicketKey) *big.Int {
	if n := k.TokenIDBig(); n != nil {
		return n
	}
	return new(big.Int)
}

func paginate(tickets []domain.Ticket, limit, offset int) *store.Page[domain.Ticket] {
	if limit <= 0 {
		limit = store.DefaultPageLimit
	}
	if limit > store.MaxPageLimit {
		limit = store.MaxPageLimit
	}
	if offset < 0 {
		offset = 0
	}

	total := len(tickets)
	start := min(offset, total)
	end := min(start+limit, total)
	page := &store.Page[domain.Ticket]{Items: append([]domain.Ticket{}, tickets[start:end]...), Total: int64(total)}
	if end < total {
		next := end
		page.NextOffset = &next
	}
	return page
}

func (r *readPath) ListByEvent(ctx context.Context, contractAddress string, filter store.TicketFilter) (*store.Page[domain.Ticket], error) {
	observe("list_by_event", SourceCache)
	return r.store.ListTicketsByEvent(ctx, contractAddress, filter)
}

func (r *readPath) ListListings(ctx context.Context, filter store.ListingFilter) (*store.Page[domain.Listing], error) {
	observe("list_listings", SourceCache)
	return r.store.ListListings(ctx, filter)
}

func (r *readPath) ListTransactions(ctx context.Context, filter store.TransactionFilter) (*store.Page[domain.Transaction], error) {
	observe("list_transactions", SourceCache)
	return r.store.ListTransactions(ctx, filter)
}

func (r *readPath) RebuildTicket(ctx context.Context, key domain.TicketKey) (*domain.Ticket, error) {
	client, err := r.ledgers.Get(key.ChainID)
	if err != nil {
		return nil, err
	}

	// Read first so an unreachable chain leaves the cache untouched
	state, err := client.Snapshot(ctx, key)
	if err != nil {
		return nil, err
	}

	if err := r.store.DeleteTicket(ctx, key); err != nil {
		return nil, fmt.Errorf("failed to drop cached ticket: %w", err)
	}
	if !state.Exists {
		return nil, fmt.Errorf("%w: %s", domain.ErrTicketNotFound, key)
	}

	ticket, err := r.store.SaveSnapshot(ctx, state, r.clock.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to save rebuilt ticket: %w", err)
	}

	observe("rebuild_ticket", SourceChain)
	logger.InfoCtx(ctx, "Rebuilt ticket from chain", logger.TicketKey(key))
	return ticket, nil
}
