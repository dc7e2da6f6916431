package syncer_test

import (
	"context"
	"errors"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/ff-ticketing/internal/domain"
	"github.com/feral-file/ff-ticketing/internal/logger"
	"github.com/feral-file/ff-ticketing/internal/mocks"
	"github.com/feral-file/ff-ticketing/internal/reconcile"
	"github.com/feral-file/ff-ticketing/internal/store"
	"github.com/feral-file/ff-ticketing/internal/syncer"
)

const (
	contract = "0x1111111111111111111111111111111111111111"
	alice    = "0x3333333333333333333333333333333333333333"
	bob      = "0x4444444444444444444444444444444444444444"
)

var now = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func TestMain(m *testing.M) {
	if err := logger.Initialize(logger.Config{Debug: false}); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

type testSyncMocks struct {
	ctrl    *gomock.Controller
	store   *mocks.MockStore
	ledgers *mocks.MockLedgerSet
	client  *mocks.MockLedgerClient
	queue   *mocks.MockReconcileQueue
	clock   *mocks.MockClock
	engine  syncer.Engine
}

func setupTest(t *testing.T) *testSyncMocks {
	ctrl := gomock.NewController(t)

	tm := &testSyncMocks{
		ctrl:    ctrl,
		store:   mocks.NewMockStore(ctrl),
		ledgers: mocks.NewMockLedgerSet(ctrl),
		client:  mocks.NewMockLedgerClient(ctrl),
		queue:   mocks.NewMockReconcileQueue(ctrl),
		clock:   mocks.NewMockClock(ctrl),
	}
	tm.clock.EXPECT().Now().Return(now).AnyTimes()
	tm.ledgers.EXPECT().Get(domain.CHAIN_ID_POLYGON_AMOY).Return(tm.client, nil).AnyTimes()
	tm.engine = syncer.NewEngine(tm.store, tm.ledgers, tm.queue, tm.clock)

	return tm
}

func ptr[T any](v T) *T {
	return &v
}

func testKey() domain.TicketKey {
	return domain.TicketKey{ChainID: domain.CHAIN_ID_POLYGON_AMOY, ContractAddress: contract, TokenID: "7"}
}

func newMutation(txType domain.TxType) *domain.Mutation {
	return &domain.Mutation{
		Key:         testKey(),
		TxType:      txType,
		TxHash:      "0x" + strings.Repeat("cd", 32),
		BlockNumber: ptr(uint64(200)),
		TxIndex:     ptr(uint64(1)),
		Timestamp:   now,
	}
}

func cachedTicket(owner string) *domain.Ticket {
	return &domain.Ticket{
		Key:           testKey(),
		OwnerAddress:  owner,
		PurchasePrice: "1000",
		LastBlock:     ptr(uint64(100)),
	}
}

// expectProject runs the engine's projection against the given locked state and
// returns the ticket it decided, like the real store would
func (tm *testSyncMocks) expectProject(current *domain.Ticket, active *domain.Listing, captured **store.Projection) *gomock.Call {
	return tm.store.EXPECT().
		ProjectMutation(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, m *domain.Mutation, project store.ProjectFunc) (*store.ProjectResult, error) {
			p, err := project(current, active)
			if err != nil {
				return nil, err
			}
			if captured != nil {
				*captured = p
			}
			result := &store.ProjectResult{Ticket: current}
			if p != nil && p.Ticket != nil {
				result.Ticket = p.Ticket
			}
			return result, nil
		})
}

func TestEngine_Apply_Purchase(t *testing.T) {
	tm := setupTest(t)

	m := newMutation(domain.TxTypePurchase)
	m.UserAddress = strings.ToLower(alice)
	m.Amount = ptr("1000")

	var projection *store.Projection
	tm.expectProject(nil, nil, &projection)

	result, err := tm.engine.SyncTicket(context.Background(), m)
	require.NoError(t, err)
	assert.Equal(t, syncer.StatusApplied, result.Status)
	assert.NotEmpty(t, result.MutationID)
	assert.False(t, result.Reconcile)
	require.NotNil(t, result.Ticket)
	assert.Equal(t, alice, result.Ticket.OwnerAddress)
	assert.Equal(t, "1000", result.Ticket.PurchasePrice)
	require.NotNil(t, projection)
	assert.Nil(t, projection.OpenListing)
}

func TestEngine_Apply_NormalizesBeforeProjecting(t *testing.T) {
	tm := setupTest(t)

	m := newMutation(domain.TxTypeUse)
	m.Key.ContractAddress = strings.ToLower(contract)
	m.TxHash = strings.ToUpper(m.TxHash[2:])
	m.TxHash = "0x" + m.TxHash
	m.Timestamp = time.Time{}

	tm.store.EXPECT().
		ProjectMutation(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, got *domain.Mutation, project store.ProjectFunc) (*store.ProjectResult, error) {
			assert.Equal(t, strings.ToLower(got.TxHash), got.TxHash)
			assert.Equal(t, now, got.Timestamp)
			id, err := ulid.Parse(got.ID)
			require.NoError(t, err)
			assert.Equal(t, ulid.Timestamp(now), id.Time())
			return &store.ProjectResult{Duplicate: true}, nil
		})

	result, err := tm.engine.Apply(context.Background(), m)
	require.NoError(t, err)
	assert.Equal(t, syncer.StatusDuplicate, result.Status)
	// The caller's record is left untouched
	assert.Empty(t, m.ID)
}

func TestEngine_Apply_Duplicate(t *testing.T) {
	tm := setupTest(t)

	current := cachedTicket(alice)
	current.IsUsed = true
	tm.store.EXPECT().
		ProjectMutation(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&store.ProjectResult{Duplicate: true, Ticket: current}, nil)

	result, err := tm.engine.Apply(context.Background(), newMutation(domain.TxTypeUse))
	require.NoError(t, err)
	assert.Equal(t, syncer.StatusDuplicate, result.Status)
	assert.True(t, result.Ticket.IsUsed)
}

func TestEngine_Apply_Stale(t *testing.T) {
	tm := setupTest(t)

	current := cachedTicket(alice)
	current.LastBlock = ptr(uint64(500))
	var projection *store.Projection
	tm.expectProject(current, nil, &projection)

	m := newMutation(domain.TxTypeTransfer)
	m.FromAddress = ptr(bob)
	m.ToAddress = ptr(alice)

	result, err := tm.engine.Apply(context.Background(), m)
	require.NoError(t, err)
	assert.Equal(t, syncer.StatusStale, result.Status)
	assert.Nil(t, projection)
	assert.Equal(t, alice, result.Ticket.OwnerAddress)
}

func TestEngine_Apply_LateUse(t *testing.T) {
	tm := setupTest(t)

	current := cachedTicket(bob)
	current.LastBlock = ptr(uint64(500))
	var projection *store.Projection
	tm.expectProject(current, nil, &projection)

	m := newMutation(domain.TxTypeUse)
	m.UserAddress = alice

	result, err := tm.engine.Apply(context.Background(), m)
	require.NoError(t, err)
	assert.Equal(t, syncer.StatusApplied, result.Status)
	require.NotNil(t, projection)
	assert.True(t, projection.Ticket.IsUsed)
	assert.Equal(t, uint64(500), *projection.Ticket.LastBlock)
	assert.True(t, result.Ticket.IsUsed)
	assert.Equal(t, bob, result.Ticket.OwnerAddress)
}

func TestEngine_Apply_ListingGuard(t *testing.T) {
	tm := setupTest(t)

	tm.expectProject(cachedTicket(alice), nil, nil)

	m := newMutation(domain.TxTypeListing)
	m.UserAddress = bob
	m.ListingID = ptr("9")
	m.Amount = ptr("1")

	result, err := tm.engine.SyncListing(context.Background(), m)
	require.NoError(t, err)
	assert.Equal(t, syncer.StatusSkipped, result.Status)
	assert.Equal(t, "seller is not the owner", result.Reason)
}

func TestEngine_Apply_TransferWhileListed(t *testing.T) {
	tm := setupTest(t)

	current := cachedTicket(alice)
	current.IsListed = true
	current.ListingID = ptr("9")
	var projection *store.Projection
	tm.expectProject(current, &domain.Listing{ListingID: "9", Key: testKey(), SellerAddress: alice, Status: domain.ListingStatusActive}, &projection)
	tm.queue.EXPECT().Enqueue(gomock.Any(), testKey(), reconcile.ReasonTransferWhileListed).Return(nil)

	m := newMutation(domain.TxTypeTransfer)
	m.FromAddress = ptr(alice)
	m.ToAddress = ptr(bob)

	result, err := tm.engine.SyncTicket(context.Background(), m)
	require.NoError(t, err)
	assert.Equal(t, syncer.StatusApplied, result.Status)
	assert.True(t, result.Reconcile)
	require.NotNil(t, projection)
	assert.Nil(t, projection.CloseListing)
	assert.True(t, projection.Ticket.IsListed)
	assert.True(t, projection.Ticket.NeedsReconcile)
	assert.Equal(t, bob, projection.Ticket.OwnerAddress)
}

func TestEngine_Apply_TransferWhileListed_QueueDown(t *testing.T) {
	tm := setupTest(t)

	current := cachedTicket(alice)
	current.IsListed = true
	current.ListingID = ptr("9")
	tm.expectProject(current, nil, nil)
	tm.queue.EXPECT().Enqueue(gomock.Any(), testKey(), gomock.Any()).Return(errors.New("redis down"))

	m := newMutation(domain.TxTypeTransfer)
	m.FromAddress = ptr(alice)
	m.ToAddress = ptr(bob)

	result, err := tm.engine.Apply(context.Background(), m)
	require.NoError(t, err)
	assert.Equal(t, syncer.StatusApplied, result.Status)
	assert.False(t, result.Reconcile)
}

func TestEngine_Apply_InvariantViolation(t *testing.T) {
	tm := setupTest(t)

	current := cachedTicket(alice)
	current.IsUsed = true
	tm.expectProject(current, nil, nil)

	m := newMutation(domain.TxTypePurchase)
	m.UserAddress = bob

	result, err := tm.engine.Apply(context.Background(), m)
	require.ErrorIs(t, err, domain.ErrInvariantViolation)
	require.NotNil(t, result)
	assert.Equal(t, syncer.StatusRejected, result.Status)
}

func TestEngine_Apply_CacheFailureIsDeferred(t *testing.T) {
	tm := setupTest(t)

	tm.store.EXPECT().
		ProjectMutation(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, errors.New("connection reset by peer"))
	tm.queue.EXPECT().Enqueue(gomock.Any(), testKey(), reconcile.ReasonCacheWriteFailed).Return(nil)

	result, err := tm.engine.Apply(context.Background(), newMutation(domain.TxTypeUse))
	require.NoError(t, err)
	assert.Equal(t, syncer.StatusDeferred, result.Status)
	assert.True(t, result.Reconcile)
	assert.Contains(t, result.Reason, domain.ErrCacheWriteFailed.Error())
}

func TestEngine_Apply_SeedsMissingRow(t *testing.T) {
	tm := setupTest(t)

	tm.expectProject(nil, nil, nil)
	state := &domain.ChainTicketState{Key: testKey(), Exists: true, Holder: alice, IsUsed: true, PurchasePrice: "1000", BlockNumber: 210}
	tm.client.EXPECT().Snapshot(gomock.Any(), testKey()).Return(state, nil)
	tm.store.EXPECT().SaveSnapshot(gomock.Any(), state, now).Return(&domain.Ticket{Key: testKey(), OwnerAddress: alice, IsUsed: true}, nil)

	result, err := tm.engine.Apply(context.Background(), newMutation(domain.TxTypeUse))
	require.NoError(t, err)
	assert.Equal(t, syncer.StatusApplied, result.Status)
	assert.Equal(t, "seeded from chain", result.Reason)
	assert.True(t, result.Ticket.IsUsed)
}

func TestEngine_Apply_SeedChainUnreachable(t *testing.T) {
	tm := setupTest(t)

	tm.expectProject(nil, nil, nil)
	tm.client.EXPECT().Snapshot(gomock.Any(), testKey()).Return(nil, domain.ErrChainUnreachable)
	tm.queue.EXPECT().Enqueue(gomock.Any(), testKey(), reconcile.ReasonCacheWriteFailed).Return(nil)

	result, err := tm.engine.Apply(context.Background(), newMutation(domain.TxTypeUse))
	require.NoError(t, err)
	assert.Equal(t, syncer.StatusDeferred, result.Status)
}

func TestEngine_Apply_InvalidMutation(t *testing.T) {
	tm := setupTest(t)

	m := newMutation(domain.TxTypeSale)
	m.UserAddress = bob

	_, err := tm.engine.Apply(context.Background(), m)
	require.ErrorIs(t, err, domain.ErrInvalidMutation)
}

func TestEngine_Apply_UnknownChain(t *testing.T) {
	tm := setupTest(t)
	tm.ledgers.EXPECT().Get(domain.ChainID(1)).Return(nil, domain.ErrUnknownChain)

	m := newMutation(domain.TxTypeUse)
	m.Key.ChainID = 1

	_, err := tm.engine.Apply(context.Background(), m)
	require.ErrorIs(t, err, domain.ErrUnknownChain)
}

func TestEngine_EntryPointsCheckType(t *testing.T) {
	tm := setupTest(t)

	_, err := tm.engine.SyncTicket(context.Background(), newMutation(domain.TxTypeCancel))
	require.ErrorIs(t, err, domain.ErrInvalidMutation)

	_, err = tm.engine.SyncListing(context.Background(), newMutation(domain.TxTypeUse))
	require.ErrorIs(t, err, domain.ErrInvalidMutation)
}

func TestEngine_Apply_SurvivesCallerCancellation(t *testing.T) {
	tm := setupTest(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	tm.store.EXPECT().
		ProjectMutation(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, m *domain.Mutation, project store.ProjectFunc) (*store.ProjectResult, error) {
			assert.NoError(t, ctx.Err())
			return &store.ProjectResult{}, nil
		})

	result, err := tm.engine.Apply(ctx, newMutation(domain.TxTypeUse))
	require.NoError(t, err)
	assert.Equal(t, syncer.StatusApplied, result.Status)
}

func TestEngine_Apply_SerializesPerTicket(t *testing.T) {
	tm := setupTest(t)

	var inFlight, maxInFlight atomic.Int32
	tm.store.EXPECT().
		ProjectMutation(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, m *domain.Mutation, project store.ProjectFunc) (*store.ProjectResult, error) {
			n := inFlight.Add(1)
			for {
				cur := maxInFlight.Load()
				if n <= cur || maxInFlight.CompareAndSwap(cur, n) {
					break
				}
			}
			time.Sleep(2 * time.Millisecond)
			inFlight.Add(-1)
			return &store.ProjectResult{Duplicate: true}, nil
		}).
		Times(10)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := tm.engine.Apply(context.Background(), newMutation(domain.TxTypeUse))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxInFlight.Load())
}
