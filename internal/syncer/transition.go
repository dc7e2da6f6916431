package syncer

import (
	"fmt"
	"time"

	"github.com/feral-file/ff-ticketing/internal/domain"
	"github.com/feral-file/ff-ticketing/internal/store"
)

type outcome int

const (
	outcomeApplied outcome = iota
	// outcomeStale: older than the last applied mutation, history only
	outcomeStale
	// outcomeSkipped: a guard did not hold, history only
	outcomeSkipped
	// outcomeSeed: no row yet, history only; the row is rebuilt from chain afterwards
	outcomeSeed
)

type decision struct {
	outcome outcome
	reason  string
	// flag is set when the projection marked the ticket for reconciliation
	flag bool
}

// project decides the cache write for mutation m against the locked ticket row and its active listing
func project(m *domain.Mutation, current *domain.Ticket, active *domain.Listing, now time.Time) (*store.Projection, decision, error) {
	if current == nil && m.TxType != domain.TxTypePurchase {
		return nil, decision{outcome: outcomeSeed, reason: "no cached row"}, nil
	}
	if current != nil && m.OlderThan(current.LastBlock, current.LastTxIndex) {
		if m.TxType == domain.TxTypeUse && !current.IsUsed {
			return projectLateUse(current, now)
		}
		return nil, decision{outcome: outcomeStale, reason: "older than last applied mutation"}, nil
	}

	next := nextTicket(m, current, now)

	switch m.TxType {
	case domain.TxTypePurchase:
		return projectPurchase(m, current, active, next)
	case domain.TxTypeListing:
		return projectListing(m, current, active, next)
	case domain.TxTypeSale:
		return projectSale(m, active, next)
	case domain.TxTypeCancel:
		return projectCancel(m, current, next)
	case domain.TxTypeTransfer:
		return projectTransfer(m, current, next)
	case domain.TxTypeUse:
		next.IsUsed = true
		return &store.Projection{Ticket: next}, decision{outcome: outcomeApplied}, nil
	}

	return nil, decision{}, fmt.Errorf("%w: unknown tx type %q", domain.ErrInvalidMutation, m.TxType)
}

// nextTicket copies the current row and advances its confirmation position
func nextTicket(m *domain.Mutation, current *domain.Ticket, now time.Time) *domain.Ticket {
	next := &domain.Ticket{
		Key:           m.Key,
		PurchasePrice: "0",
	}
	if current != nil {
		copied := *current
		next = &copied
	}

	if m.HasConfirmationOrder() {
		next.LastBlock = m.BlockNumber
		next.LastTxIndex = m.TxIndex
	}
	next.SyncedAt = now

	return next
}

// projectLateUse marks the ticket used without moving its confirmation position.
// A check-in is final on chain, so it is applied regardless of arrival order.
func projectLateUse(current *domain.Ticket, now time.Time) (*store.Projection, decision, error) {
	next := *current
	next.IsUsed = true
	next.SyncedAt = now
	return &store.Projection{Ticket: &next}, decision{outcome: outcomeApplied, reason: "late use"}, nil
}

func closeStatus(active *domain.Listing, newOwner string) domain.ListingStatus {
	if domain.SameAddress(active.SellerAddress, newOwner) {
		return domain.ListingStatusCancelled
	}
	return domain.ListingStatusSold
}

func projectPurchase(m *domain.Mutation, current *domain.Ticket, active *domain.Listing, next *domain.Ticket) (*store.Projection, decision, error) {
	if current != nil && current.IsUsed {
		return nil, decision{}, fmt.Errorf("%w: purchase of %s would clear isUsed", domain.ErrInvariantViolation, m.Key)
	}

	next.OwnerAddress = m.UserAddress
	next.IsListed = false
	next.ListingID = nil
	next.IsUsed = false
	next.PurchasePrice = "0"
	if m.Amount != nil {
		next.PurchasePrice = *m.Amount
	}

	projection := &store.Projection{Ticket: next}
	if active != nil {
		projection.CloseListing = &store.ListingChange{
			ListingID: active.ListingID,
			Status:    closeStatus(active, next.OwnerAddress),
		}
	}
	return projection, decision{outcome: outcomeApplied}, nil
}

func projectListing(m *domain.Mutation, current *domain.Ticket, active *domain.Listing, next *domain.Ticket) (*store.Projection, decision, error) {
	seller := m.Seller()
	if current.IsListed && current.ListingID != nil && *current.ListingID == *m.ListingID {
		return nil, decision{outcome: outcomeSkipped, reason: "listing already applied"}, nil
	}
	if !domain.SameAddress(current.OwnerAddress, seller) {
		return nil, decision{outcome: outcomeSkipped, reason: "seller is not the owner"}, nil
	}
	if current.IsListed {
		return nil, decision{outcome: outcomeSkipped, reason: "ticket already listed"}, nil
	}
	if active != nil {
		return nil, decision{}, fmt.Errorf("%w: listing %s is still active for unlisted ticket %s",
			domain.ErrInvariantViolation, active.ListingID, m.Key)
	}

	next.IsListed = true
	next.ListingID = m.ListingID

	return &store.Projection{
		Ticket: next,
		OpenListing: &domain.Listing{
			ListingID:     *m.ListingID,
			Key:           m.Key,
			SellerAddress: seller,
			Price:         *m.Amount,
			Status:        domain.ListingStatusActive,
		},
	}, decision{outcome: outcomeApplied}, nil
}

func projectSale(m *domain.Mutation, active *domain.Listing, next *domain.Ticket) (*store.Projection, decision, error) {
	next.OwnerAddress = m.UserAddress
	next.IsListed = false
	next.ListingID = nil

	d := decision{outcome: outcomeApplied}
	if active != nil && active.ListingID != *m.ListingID {
		// The cache knew a different listing; let the chain settle it
		next.NeedsReconcile = true
		d.flag = true
		d.reason = fmt.Sprintf("sold listing %s but listing %s is active", *m.ListingID, active.ListingID)
	}

	return &store.Projection{
		Ticket: next,
		CloseListing: &store.ListingChange{
			ListingID: *m.ListingID,
			Status:    domain.ListingStatusSold,
		},
	}, d, nil
}

func projectCancel(m *domain.Mutation, current *domain.Ticket, next *domain.Ticket) (*store.Projection, decision, error) {
	if !current.IsListed || current.ListingID == nil || *current.ListingID != *m.ListingID {
		return nil, decision{outcome: outcomeSkipped, reason: "listing is not the active one"}, nil
	}

	next.IsListed = false
	next.ListingID = nil

	return &store.Projection{
		Ticket: next,
		CloseListing: &store.ListingChange{
			ListingID: *m.ListingID,
			Status:    domain.ListingStatusCancelled,
		},
	}, decision{outcome: outcomeApplied}, nil
}

func projectTransfer(m *domain.Mutation, current *domain.Ticket, next *domain.Ticket) (*store.Projection, decision, error) {
	next.OwnerAddress = *m.ToAddress

	d := decision{outcome: outcomeApplied}
	if current.IsListed {
		// Listing is kept as is; the reconciler settles it against the chain
		next.NeedsReconcile = true
		d.flag = true
		d.reason = "transfer while listed"
	}

	return &store.Projection{Ticket: next}, d, nil
}
