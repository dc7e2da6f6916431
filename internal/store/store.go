package store

import (
	"context"
	"time"

	"github.com/feral-file/ff-ticketing/internal/domain"
)

const (
	// DefaultPageLimit is used when a filter carries no limit
	DefaultPageLimit = 50
	// MaxPageLimit caps the page size of every list query
	MaxPageLimit = 200
)

// TicketFilter narrows ticket list queries
type TicketFilter struct {
	ChainIDs        []domain.ChainID
	ContractAddress string
	IsListed        *bool
	IsUsed          *bool
	Limit           int
	Offset          int
}

// ListingFilter narrows listing list queries
type ListingFilter struct {
	ChainIDs        []domain.ChainID
	ContractAddress string
	TokenID         string
	SellerAddress   string
	Statuses        []domain.ListingStatus
	Limit           int
	Offset          int
}

// TransactionFilter narrows transaction history queries
type TransactionFilter struct {
	ChainIDs        []domain.ChainID
	ContractAddress string
	TokenID         string
	// Address matches the user, from or to address
	Address string
	TxTypes []domain.TxType
	Limit   int
	Offset  int
}

// Page is one page of a list query with stable ordering
type Page[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	NextOffset *int  `json:"nextOffset,omitempty"`
}

// ListingChange closes an existing listing
type ListingChange struct {
	ListingID string
	Status    domain.ListingStatus
}

// Projection is the cache write decided for one mutation
type Projection struct {
	// Ticket is upserted when non-nil
	Ticket *domain.Ticket
	// OpenListing is inserted as the ticket's active listing when non-nil
	OpenListing *domain.Listing
	// CloseListing moves an active listing to a terminal status when non-nil
	CloseListing *ListingChange
}

// ProjectFunc decides the cache write for a mutation given the locked current state.
// current and active are nil when no row exists. Returning a nil projection records history only.
type ProjectFunc func(current *domain.Ticket, active *domain.Listing) (*Projection, error)

// ProjectResult describes what ProjectMutation did
type ProjectResult struct {
	// Duplicate is true when the mutation had already been recorded; nothing was written
	Duplicate bool
	// Ticket is the row after the projection, nil if no row exists
	Ticket *domain.Ticket
}

// Store defines the interface for cache database operations
//
//go:generate mockgen -source=store.go -destination=../mocks/store.go -package=mocks -mock_names=Store=MockStore
type Store interface {
	// Ping checks the database connection
	Ping(ctx context.Context) error

	// GetTicket returns the cached ticket, or nil on a miss
	GetTicket(ctx context.Context, key domain.TicketKey) (*domain.Ticket, error)
	// ListTicketsByOwner returns tickets held by an address
	ListTicketsByOwner(ctx context.Context, ownerAddress string, filter TicketFilter) (*Page[domain.Ticket], error)
	// ListTicketsByEvent returns tickets of an event contract
	ListTicketsByEvent(ctx context.Context, contractAddress string, filter TicketFilter) (*Page[domain.Ticket], error)
	// SaveSnapshot overwrites the ticket row and its listings with a chain-confirmed snapshot
	SaveSnapshot(ctx context.Context, state *domain.ChainTicketState, syncedAt time.Time) (*domain.Ticket, error)
	// DeleteTicket drops the cached ticket row and its active listing
	DeleteTicket(ctx context.Context, key domain.TicketKey) error
	// SetNeedsReconcile flags or clears a ticket for reconciliation
	SetNeedsReconcile(ctx context.Context, key domain.TicketKey, needsReconcile bool) error
	// ListTicketsNeedingReconcile returns keys of flagged tickets
	ListTicketsNeedingReconcile(ctx context.Context, limit int) ([]domain.TicketKey, error)

	// GetActiveListing returns the active listing of a ticket, or nil
	GetActiveListing(ctx context.Context, key domain.TicketKey) (*domain.Listing, error)
	// ListListings returns listings matching the filter
	ListListings(ctx context.Context, filter ListingFilter) (*Page[domain.Listing], error)

	// ListTransactions returns history entries matching the filter, newest first
	ListTransactions(ctx context.Context, filter TransactionFilter) (*Page[domain.Transaction], error)

	// ProjectMutation records a mutation in history and applies the projection decided by
	// project, atomically and under a row lock on the ticket. A mutation already recorded is a no-op.
	ProjectMutation(ctx context.Context, mutation *domain.Mutation, project ProjectFunc) (*ProjectResult, error)
}

// normalizeLimit clamps a page limit into [1, MaxPageLimit]
func normalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultPageLimit
	}
	if limit > MaxPageLimit {
		return MaxPageLimit
	}
	return limit
}

// newPage builds a page and computes the next offset
func newPage[T any](items []T, total int64, offset int) *Page[T] {
	if items == nil {
		items = []T{}
	}
	page := &Page[T]{Items: items, Total: total}
	next := offset + len(items)
	if int64(next) < total && len(items) > 0 {
		page.NextOffset = &next
	}
	return page
}
