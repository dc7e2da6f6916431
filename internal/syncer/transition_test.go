package syncer

import (
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/ff-ticketing/internal/domain"
	"github.com/feral-file/ff-ticketing/internal/store"
)

const (
	contract = "0x1111111111111111111111111111111111111111"
	alice    = "0x3333333333333333333333333333333333333333"
	bob      = "0x4444444444444444444444444444444444444444"
)

var now = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func ptr[T any](v T) *T {
	return &v
}

func key() domain.TicketKey {
	return domain.TicketKey{ChainID: domain.CHAIN_ID_POLYGON_AMOY, ContractAddress: contract, TokenID: "7"}
}

func mutation(txType domain.TxType, block uint64) *domain.Mutation {
	return &domain.Mutation{
		Key:         key(),
		TxType:      txType,
		TxHash:      "0x" + strings.Repeat("ab", 32),
		BlockNumber: ptr(block),
		TxIndex:     ptr(uint64(0)),
		Timestamp:   now,
	}
}

func owned(owner string) *domain.Ticket {
	return &domain.Ticket{
		Key:           key(),
		OwnerAddress:  owner,
		PurchasePrice: "1000",
		LastBlock:     ptr(uint64(100)),
		LastTxIndex:   ptr(uint64(0)),
	}
}

func listed(owner, listingID string) (*domain.Ticket, *domain.Listing) {
	t := owned(owner)
	t.IsListed = true
	t.ListingID = ptr(listingID)
	return t, &domain.Listing{
		ListingID:     listingID,
		Key:           key(),
		SellerAddress: owner,
		Price:         "1500",
		Status:        domain.ListingStatusActive,
	}
}

func TestProject_Purchase(t *testing.T) {
	m := mutation(domain.TxTypePurchase, 10)
	m.UserAddress = alice
	m.Amount = ptr("1000")

	p, d, err := project(m, nil, nil, now)
	require.NoError(t, err)
	assert.Equal(t, outcomeApplied, d.outcome)
	require.NotNil(t, p.Ticket)
	assert.Equal(t, alice, p.Ticket.OwnerAddress)
	assert.Equal(t, "1000", p.Ticket.PurchasePrice)
	assert.False(t, p.Ticket.IsListed)
	assert.False(t, p.Ticket.IsUsed)
	assert.Equal(t, uint64(10), *p.Ticket.LastBlock)
	assert.Equal(t, now, p.Ticket.SyncedAt)
	assert.Nil(t, p.OpenListing)
	assert.Nil(t, p.CloseListing)
}

func TestProject_Purchase_ClosesActiveListing(t *testing.T) {
	current, active := listed(alice, "5")
	m := mutation(domain.TxTypePurchase, 200)
	m.UserAddress = bob

	p, _, err := project(m, current, active, now)
	require.NoError(t, err)
	require.NotNil(t, p.CloseListing)
	assert.Equal(t, domain.ListingStatusSold, p.CloseListing.Status)
	assert.Nil(t, p.Ticket.ListingID)
}

func TestProject_Purchase_UsedTicketIsRejected(t *testing.T) {
	current := owned(alice)
	current.IsUsed = true
	m := mutation(domain.TxTypePurchase, 200)
	m.UserAddress = bob

	_, _, err := project(m, current, nil, now)
	require.ErrorIs(t, err, domain.ErrInvariantViolation)
}

func TestProject_SeedWhenRowMissing(t *testing.T) {
	for _, txType := range []domain.TxType{domain.TxTypeUse, domain.TxTypeTransfer, domain.TxTypeListing, domain.TxTypeSale, domain.TxTypeCancel} {
		t.Run(string(txType), func(t *testing.T) {
			p, d, err := project(mutation(txType, 10), nil, nil, now)
			require.NoError(t, err)
			assert.Nil(t, p)
			assert.Equal(t, outcomeSeed, d.outcome)
		})
	}
}

func TestProject_Stale(t *testing.T) {
	tests := []struct {
		name    string
		block   *uint64
		txIndex *uint64
		stale   bool
	}{
		{"older block", ptr(uint64(99)), ptr(uint64(5)), true},
		{"same block unknown index", ptr(uint64(100)), nil, false},
		{"newer block", ptr(uint64(101)), ptr(uint64(0)), false},
		{"no order", nil, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			current := owned(alice)
			current.LastTxIndex = ptr(uint64(3))
			m := mutation(domain.TxTypeTransfer, 0)
			m.UserAddress = alice
			m.ToAddress = ptr(bob)
			m.BlockNumber = tt.block
			m.TxIndex = tt.txIndex

			p, d, err := project(m, current, nil, now)
			require.NoError(t, err)
			if tt.stale {
				assert.Equal(t, outcomeStale, d.outcome)
				assert.Nil(t, p)
				return
			}
			assert.Equal(t, outcomeApplied, d.outcome)
			assert.Equal(t, bob, p.Ticket.OwnerAddress)
		})
	}

	t.Run("same block older index", func(t *testing.T) {
		current := owned(alice)
		current.LastTxIndex = ptr(uint64(3))
		m := mutation(domain.TxTypeTransfer, 100)
		m.UserAddress = alice
		m.ToAddress = ptr(bob)
		m.TxIndex = ptr(uint64(1))

		_, d, err := project(m, current, nil, now)
		require.NoError(t, err)
		assert.Equal(t, outcomeStale, d.outcome)
	})

	t.Run("late use still marks the ticket used", func(t *testing.T) {
		current := owned(bob)
		current.LastBlock = ptr(uint64(101))
		current.LastTxIndex = ptr(uint64(2))
		m := mutation(domain.TxTypeUse, 100)
		m.UserAddress = alice

		p, d, err := project(m, current, nil, now)
		require.NoError(t, err)
		assert.Equal(t, outcomeApplied, d.outcome)
		require.NotNil(t, p)
		assert.True(t, p.Ticket.IsUsed)
		assert.Equal(t, bob, p.Ticket.OwnerAddress)
		assert.Equal(t, uint64(101), *p.Ticket.LastBlock)
		assert.Equal(t, uint64(2), *p.Ticket.LastTxIndex)
		assert.Equal(t, now, p.Ticket.SyncedAt)
		assert.False(t, current.IsUsed)
	})

	t.Run("late use on a used ticket is stale", func(t *testing.T) {
		current := owned(alice)
		current.IsUsed = true
		m := mutation(domain.TxTypeUse, 99)

		p, d, err := project(m, current, nil, now)
		require.NoError(t, err)
		assert.Equal(t, outcomeStale, d.outcome)
		assert.Nil(t, p)
	})

	t.Run("no order keeps position", func(t *testing.T) {
		m := mutation(domain.TxTypeUse, 0)
		m.BlockNumber = nil
		m.TxIndex = nil

		p, _, err := project(m, owned(alice), nil, now)
		require.NoError(t, err)
		assert.Equal(t, uint64(100), *p.Ticket.LastBlock)
	})
}

func TestProject_Listing(t *testing.T) {
	newListing := func(seller string) *domain.Mutation {
		m := mutation(domain.TxTypeListing, 200)
		m.UserAddress = seller
		m.ListingID = ptr("9")
		m.Amount = ptr("2500")
		return m
	}

	t.Run("owner lists", func(t *testing.T) {
		p, d, err := project(newListing(alice), owned(alice), nil, now)
		require.NoError(t, err)
		assert.Equal(t, outcomeApplied, d.outcome)
		assert.True(t, p.Ticket.IsListed)
		assert.Equal(t, "9", *p.Ticket.ListingID)
		require.NotNil(t, p.OpenListing)
		assert.Equal(t, "9", p.OpenListing.ListingID)
		assert.Equal(t, "2500", p.OpenListing.Price)
		assert.Equal(t, alice, p.OpenListing.SellerAddress)
	})

	t.Run("seller is not the owner", func(t *testing.T) {
		p, d, err := project(newListing(bob), owned(alice), nil, now)
		require.NoError(t, err)
		assert.Nil(t, p)
		assert.Equal(t, outcomeSkipped, d.outcome)
	})

	t.Run("already listed under another id", func(t *testing.T) {
		current, active := listed(alice, "8")
		p, d, err := project(newListing(alice), current, active, now)
		require.NoError(t, err)
		assert.Nil(t, p)
		assert.Equal(t, outcomeSkipped, d.outcome)
	})

	t.Run("same listing replayed", func(t *testing.T) {
		current, active := listed(alice, "9")
		p, d, err := project(newListing(alice), current, active, now)
		require.NoError(t, err)
		assert.Nil(t, p)
		assert.Equal(t, outcomeSkipped, d.outcome)
	})

	t.Run("dangling active listing", func(t *testing.T) {
		_, active := listed(alice, "8")
		_, _, err := project(newListing(alice), owned(alice), active, now)
		require.ErrorIs(t, err, domain.ErrInvariantViolation)
	})
}

func TestProject_Sale(t *testing.T) {
	current, active := listed(alice, "9")
	m := mutation(domain.TxTypeSale, 200)
	m.UserAddress = bob
	m.FromAddress = ptr(alice)
	m.ListingID = ptr("9")

	p, d, err := project(m, current, active, now)
	require.NoError(t, err)
	assert.Equal(t, outcomeApplied, d.outcome)
	assert.False(t, d.flag)
	assert.Equal(t, bob, p.Ticket.OwnerAddress)
	assert.False(t, p.Ticket.IsListed)
	assert.Nil(t, p.Ticket.ListingID)
	require.NotNil(t, p.CloseListing)
	assert.Equal(t, store.ListingChange{ListingID: "9", Status: domain.ListingStatusSold}, *p.CloseListing)

	t.Run("different active listing is flagged", func(t *testing.T) {
		current, active := listed(alice, "8")
		p, d, err := project(m, current, active, now)
		require.NoError(t, err)
		assert.True(t, d.flag)
		assert.True(t, p.Ticket.NeedsReconcile)
	})
}

func TestProject_Cancel(t *testing.T) {
	m := mutation(domain.TxTypeCancel, 200)
	m.UserAddress = alice
	m.ListingID = ptr("9")

	t.Run("matching listing", func(t *testing.T) {
		current, active := listed(alice, "9")
		p, d, err := project(m, current, active, now)
		require.NoError(t, err)
		assert.Equal(t, outcomeApplied, d.outcome)
		assert.False(t, p.Ticket.IsListed)
		assert.Nil(t, p.Ticket.ListingID)
		assert.Equal(t, domain.ListingStatusCancelled, p.CloseListing.Status)
		assert.Equal(t, alice, p.Ticket.OwnerAddress)
	})

	t.Run("other listing", func(t *testing.T) {
		current, active := listed(alice, "8")
		p, d, err := project(m, current, active, now)
		require.NoError(t, err)
		assert.Nil(t, p)
		assert.Equal(t, outcomeSkipped, d.outcome)
	})

	t.Run("not listed", func(t *testing.T) {
		p, d, err := project(m, owned(alice), nil, now)
		require.NoError(t, err)
		assert.Nil(t, p)
		assert.Equal(t, outcomeSkipped, d.outcome)
	})
}

func TestProject_Transfer(t *testing.T) {
	m := mutation(domain.TxTypeTransfer, 200)
	m.FromAddress = ptr(alice)
	m.ToAddress = ptr(bob)

	t.Run("unlisted", func(t *testing.T) {
		p, d, err := project(m, owned(alice), nil, now)
		require.NoError(t, err)
		assert.False(t, d.flag)
		assert.Equal(t, bob, p.Ticket.OwnerAddress)
		assert.False(t, p.Ticket.NeedsReconcile)
	})

	t.Run("listed keeps listing and flags", func(t *testing.T) {
		current, active := listed(alice, "9")
		p, d, err := project(m, current, active, now)
		require.NoError(t, err)
		assert.True(t, d.flag)
		assert.Equal(t, bob, p.Ticket.OwnerAddress)
		assert.True(t, p.Ticket.IsListed)
		assert.Equal(t, "9", *p.Ticket.ListingID)
		assert.True(t, p.Ticket.NeedsReconcile)
		assert.Nil(t, p.CloseListing)
	})
}

func TestProject_Use(t *testing.T) {
	current := owned(alice)
	current.IsUsed = true

	p, d, err := project(mutation(domain.TxTypeUse, 200), current, nil, now)
	require.NoError(t, err)
	assert.Equal(t, outcomeApplied, d.outcome)
	assert.True(t, p.Ticket.IsUsed)
}

func TestProject_DoesNotMutateCurrent(t *testing.T) {
	current := owned(alice)
	m := mutation(domain.TxTypeTransfer, 200)
	m.FromAddress = ptr(alice)
	m.ToAddress = ptr(bob)

	_, _, err := project(m, current, nil, now)
	require.NoError(t, err)
	assert.Equal(t, alice, current.OwnerAddress)
	assert.Equal(t, uint64(100), *current.LastBlock)
}

func TestKeyedMutex(t *testing.T) {
	locks := newKeyedMutex()

	var inFlight, maxInFlight atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locks.Lock("a")
			defer unlock()

			n := inFlight.Add(1)
			for {
				m := maxInFlight.Load()
				if n <= m || maxInFlight.CompareAndSwap(m, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			inFlight.Add(-1)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxInFlight.Load())
	assert.Equal(t, 0, locks.size())

	// Different keys do not block each other
	unlockA := locks.Lock("a")
	unlockB := locks.Lock("b")
	assert.Equal(t, 2, locks.size())
	unlockA()
	unlockB()
	assert.Equal(t, 0, locks.size())
}
