package resolver_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/ff-ticketing/internal/domain"
	"github.com/feral-file/ff-ticketing/internal/ledger"
	"github.com/feral-file/ff-ticketing/internal/logger"
	"github.com/feral-file/ff-ticketing/internal/mocks"
	"github.com/feral-file/ff-ticketing/internal/resolver"
)

const (
	contract = "0x1111111111111111111111111111111111111111"
	tokenID  = "7"
)

func TestMain(m *testing.M) {
	if err := logger.Initialize(logger.Config{Debug: false}); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

type testResolverMocks struct {
	ctrl     *gomock.Controller
	amoy     *mocks.MockLedgerClient
	base     *mocks.MockLedgerClient
	sepolia  *mocks.MockLedgerClient
	resolver resolver.Resolver
}

func newClient(ctrl *gomock.Controller, id domain.ChainID) *mocks.MockLedgerClient {
	c := mocks.NewMockLedgerClient(ctrl)
	c.EXPECT().Chain().Return(domain.Chain{ID: id}).AnyTimes()
	return c
}

func setupTest(t *testing.T, probeTimeout time.Duration) *testResolverMocks {
	ctrl := gomock.NewController(t)

	tm := &testResolverMocks{
		ctrl:    ctrl,
		amoy:    newClient(ctrl, domain.CHAIN_ID_POLYGON_AMOY),
		base:    newClient(ctrl, domain.CHAIN_ID_BASE_SEPOLIA),
		sepolia: newClient(ctrl, domain.CHAIN_ID_ETHEREUM_SEPOLIA),
	}
	ledgers := ledger.NewSetFromClients(tm.amoy, tm.base, tm.sepolia)
	tm.resolver = resolver.NewResolver(ledgers, resolver.Config{ProbeTimeout: probeTimeout, MaxConcurrency: 4})
	t.Cleanup(tm.resolver.Close)

	return tm
}

// blockUntilCancelled simulates an RPC that never answers
func blockUntilCancelled(ctx context.Context, _, _ string) (bool, error) {
	<-ctx.Done()
	return false, ctx.Err()
}

func hint(id domain.ChainID) *domain.ChainID {
	return &id
}

func TestResolve_HintFastPath(t *testing.T) {
	tm := setupTest(t, time.Second)

	// Only the hinted chain may be probed
	tm.base.EXPECT().TicketExists(gomock.Any(), contract, tokenID).Return(true, nil).Times(1)

	res, err := tm.resolver.Resolve(context.Background(), contract, tokenID, hint(domain.CHAIN_ID_BASE_SEPOLIA))
	require.NoError(t, err)
	assert.Equal(t, domain.CHAIN_ID_BASE_SEPOLIA, res.ChainID)
	assert.Equal(t, tm.base, res.Client)
}

func TestResolve_HintAbsentFallsBackToFanOut(t *testing.T) {
	tm := setupTest(t, time.Second)

	tm.amoy.EXPECT().TicketExists(gomock.Any(), contract, tokenID).Return(false, nil)
	// The fan-out may find sepolia before base is probed
	tm.base.EXPECT().TicketExists(gomock.Any(), contract, tokenID).Return(false, nil).MaxTimes(1)
	tm.sepolia.EXPECT().TicketExists(gomock.Any(), contract, tokenID).Return(true, nil)

	res, err := tm.resolver.Resolve(context.Background(), contract, tokenID, hint(domain.CHAIN_ID_POLYGON_AMOY))
	require.NoError(t, err)
	assert.Equal(t, domain.CHAIN_ID_ETHEREUM_SEPOLIA, res.ChainID)
}

func TestResolve_UnknownHintIsIgnored(t *testing.T) {
	tm := setupTest(t, time.Second)

	tm.amoy.EXPECT().TicketExists(gomock.Any(), contract, tokenID).Return(true, nil)
	tm.base.EXPECT().TicketExists(gomock.Any(), contract, tokenID).Return(false, nil).MaxTimes(1)
	tm.sepolia.EXPECT().TicketExists(gomock.Any(), contract, tokenID).Return(false, nil).MaxTimes(1)

	res, err := tm.resolver.Resolve(context.Background(), contract, tokenID, hint(domain.ChainID(1)))
	require.NoError(t, err)
	assert.Equal(t, domain.CHAIN_ID_POLYGON_AMOY, res.ChainID)
}

func TestResolve_FirstSuccessCancelsOthers(t *testing.T) {
	tm := setupTest(t, time.Minute)

	cancelled := make(chan struct{}, 2)
	slow := func(ctx context.Context, c, id string) (bool, error) {
		ok, err := blockUntilCancelled(ctx, c, id)
		cancelled <- struct{}{}
		return ok, err
	}
	tm.amoy.EXPECT().TicketExists(gomock.Any(), contract, tokenID).DoAndReturn(slow).MaxTimes(1)
	tm.sepolia.EXPECT().TicketExists(gomock.Any(), contract, tokenID).DoAndReturn(slow).MaxTimes(1)
	tm.base.EXPECT().TicketExists(gomock.Any(), contract, tokenID).Return(true, nil)

	start := time.Now()
	res, err := tm.resolver.Resolve(context.Background(), contract, tokenID, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.CHAIN_ID_BASE_SEPOLIA, res.ChainID)
	assert.Less(t, time.Since(start), 5*time.Second)

	// Probes that had already started observe the cancellation
	deadline := time.After(2 * time.Second)
	for i := 0; i < 2; i++ {
		select {
		case <-cancelled:
		case <-deadline:
			// A probe that had not started yet is skipped entirely
			return
		}
	}
}

func TestResolve_NotFoundOnAnyChain(t *testing.T) {
	tm := setupTest(t, time.Second)

	tm.amoy.EXPECT().TicketExists(gomock.Any(), contract, tokenID).Return(false, nil)
	tm.base.EXPECT().TicketExists(gomock.Any(), contract, tokenID).Return(false, nil)
	tm.sepolia.EXPECT().TicketExists(gomock.Any(), contract, tokenID).Return(false, nil)

	_, err := tm.resolver.Resolve(context.Background(), contract, tokenID, nil)
	require.ErrorIs(t, err, domain.ErrNotFoundOnAnyChain)
	assert.NotErrorIs(t, err, domain.ErrChainUnreachable)
}

func TestResolve_ChainUnreachable(t *testing.T) {
	tm := setupTest(t, time.Second)

	tm.amoy.EXPECT().TicketExists(gomock.Any(), contract, tokenID).Return(false, nil)
	tm.base.EXPECT().TicketExists(gomock.Any(), contract, tokenID).Return(false, errors.New("dial tcp: connection refused"))
	tm.sepolia.EXPECT().TicketExists(gomock.Any(), contract, tokenID).Return(false, nil)

	_, err := tm.resolver.Resolve(context.Background(), contract, tokenID, nil)
	require.ErrorIs(t, err, domain.ErrChainUnreachable)
	assert.NotErrorIs(t, err, domain.ErrNotFoundOnAnyChain)
}

func TestResolve_HintUnreachableOthersAbsent(t *testing.T) {
	tm := setupTest(t, time.Second)

	tm.amoy.EXPECT().TicketExists(gomock.Any(), contract, tokenID).Return(false, errors.New("429 too many requests"))
	tm.base.EXPECT().TicketExists(gomock.Any(), contract, tokenID).Return(false, nil)
	tm.sepolia.EXPECT().TicketExists(gomock.Any(), contract, tokenID).Return(false, nil)

	_, err := tm.resolver.Resolve(context.Background(), contract, tokenID, hint(domain.CHAIN_ID_POLYGON_AMOY))
	require.ErrorIs(t, err, domain.ErrChainUnreachable)
}

func TestResolve_ProbeTimeoutDoesNotAbortOthers(t *testing.T) {
	tm := setupTest(t, 50*time.Millisecond)

	tm.amoy.EXPECT().TicketExists(gomock.Any(), contract, tokenID).DoAndReturn(blockUntilCancelled).MaxTimes(1)
	tm.base.EXPECT().TicketExists(gomock.Any(), contract, tokenID).DoAndReturn(
		func(ctx context.Context, _, _ string) (bool, error) {
			time.Sleep(10 * time.Millisecond)
			return true, nil
		})
	tm.sepolia.EXPECT().TicketExists(gomock.Any(), contract, tokenID).Return(false, nil).MaxTimes(1)

	res, err := tm.resolver.Resolve(context.Background(), contract, tokenID, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.CHAIN_ID_BASE_SEPOLIA, res.ChainID)
}

func TestResolve_ProbeTimeoutCountsAsUnreachable(t *testing.T) {
	tm := setupTest(t, 50*time.Millisecond)

	tm.amoy.EXPECT().TicketExists(gomock.Any(), contract, tokenID).DoAndReturn(blockUntilCancelled)
	tm.base.EXPECT().TicketExists(gomock.Any(), contract, tokenID).Return(false, nil)
	tm.sepolia.EXPECT().TicketExists(gomock.Any(), contract, tokenID).Return(false, nil)

	start := time.Now()
	_, err := tm.resolver.Resolve(context.Background(), contract, tokenID, nil)
	require.ErrorIs(t, err, domain.ErrChainUnreachable)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestResolve_CallerCancellation(t *testing.T) {
	tm := setupTest(t, time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	tm.amoy.EXPECT().TicketExists(gomock.Any(), contract, tokenID).DoAndReturn(
		func(ctx context.Context, c, id string) (bool, error) {
			cancel()
			return blockUntilCancelled(ctx, c, id)
		}).MaxTimes(1)
	tm.base.EXPECT().TicketExists(gomock.Any(), contract, tokenID).DoAndReturn(blockUntilCancelled).MaxTimes(1)
	tm.sepolia.EXPECT().TicketExists(gomock.Any(), contract, tokenID).DoAndReturn(blockUntilCancelled).MaxTimes(1)

	_, err := tm.resolver.Resolve(ctx, contract, tokenID, nil)
	require.ErrorIs(t, err, context.Canceled)
}
