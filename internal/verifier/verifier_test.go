package verifier_test

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/ff-ticketing/internal/domain"
	"github.com/feral-file/ff-ticketing/internal/ledger"
	"github.com/feral-file/ff-ticketing/internal/logger"
	"github.com/feral-file/ff-ticketing/internal/mocks"
	"github.com/feral-file/ff-ticketing/internal/readpath"
	"github.com/feral-file/ff-ticketing/internal/reconcile"
	"github.com/feral-file/ff-ticketing/internal/resolver"
	"github.com/feral-file/ff-ticketing/internal/syncer"
	"github.com/feral-file/ff-ticketing/internal/verifier"
)

const (
	contract      = "0x1111111111111111111111111111111111111111"
	otherContract = "0x2222222222222222222222222222222222222222"
	buyer         = "0x3333333333333333333333333333333333333333"
)

var txHash = "0x" + strings.Repeat("ab", 32)

func TestMain(m *testing.M) {
	if err := logger.Initialize(logger.Config{Debug: false}); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

type testVerifierMocks struct {
	ctrl     *gomock.Controller
	reads    *mocks.MockReadPath
	resolver *mocks.MockResolver
	ledgers  *mocks.MockLedgerSet
	client   *mocks.MockLedgerClient
	events   *mocks.MockEventMetadataCache
	engine   *mocks.MockSyncEngine
	queue    *mocks.MockReconcileQueue
	verifier verifier.Verifier
}

func setupTest(t *testing.T) *testVerifierMocks {
	ctrl := gomock.NewController(t)

	tm := &testVerifierMocks{
		ctrl:     ctrl,
		reads:    mocks.NewMockReadPath(ctrl),
		resolver: mocks.NewMockResolver(ctrl),
		ledgers:  mocks.NewMockLedgerSet(ctrl),
		client:   mocks.NewMockLedgerClient(ctrl),
		events:   mocks.NewMockEventMetadataCache(ctrl),
		engine:   mocks.NewMockSyncEngine(ctrl),
		queue:    mocks.NewMockReconcileQueue(ctrl),
	}
	tm.client.EXPECT().Chain().Return(domain.Chain{ID: domain.CHAIN_ID_POLYGON_AMOY}).AnyTimes()
	tm.verifier = verifier.NewVerifier(tm.reads, tm.resolver, tm.ledgers, tm.events, tm.engine, tm.queue)

	return tm
}

func amoy() *domain.ChainID {
	id := domain.CHAIN_ID_POLYGON_AMOY
	return &id
}

func key() domain.TicketKey {
	return domain.TicketKey{ChainID: domain.CHAIN_ID_POLYGON_AMOY, ContractAddress: contract, TokenID: "7"}
}

func event() *domain.EventMetadata {
	return &domain.EventMetadata{Name: "Midnight Set", Venue: "Warehouse 9", Date: time.Date(2025, 6, 21, 20, 0, 0, 0, time.UTC)}
}

func (tm *testVerifierMocks) expectResolve(hint *domain.ChainID) {
	tm.resolver.EXPECT().
		Resolve(gomock.Any(), contract, "7", hint).
		Return(&resolver.Resolution{ChainID: domain.CHAIN_ID_POLYGON_AMOY, Client: tm.client}, nil)
}

func TestVerify_NoHintReadsChain(t *testing.T) {
	tm := setupTest(t)

	tm.expectResolve(nil)
	tm.client.EXPECT().VerifyTicket(gomock.Any(), contract, "7").
		Return(&ledger.TicketStatus{IsValid: true, Holder: buyer}, nil)
	tm.events.EXPECT().Get(gomock.Any(), tm.client, contract).Return(event(), nil)

	result, err := tm.verifier.Verify(context.Background(), verifier.VerifyRequest{
		ContractAddress: strings.ToLower(contract),
		TokenID:         "7",
		Mode:            verifier.ModeLookup,
	})
	require.NoError(t, err)
	assert.True(t, result.IsValid)
	assert.Equal(t, buyer, result.Holder)
	assert.Equal(t, domain.CHAIN_ID_POLYGON_AMOY, result.Key.ChainID)
	assert.Equal(t, verifier.SourceChain, result.Source)
	assert.Equal(t, "Midnight Set", result.Event.Name)
}

func TestVerify_LookupPrefersCache(t *testing.T) {
	tm := setupTest(t)

	tm.ledgers.EXPECT().Get(domain.CHAIN_ID_POLYGON_AMOY).Return(tm.client, nil)
	tm.reads.EXPECT().GetTicket(gomock.Any(), key()).
		Return(&readpath.TicketRead{Ticket: &domain.Ticket{Key: key(), OwnerAddress: buyer}, Source: readpath.SourceCache}, nil)
	tm.events.EXPECT().Get(gomock.Any(), tm.client, contract).Return(event(), nil)

	result, err := tm.verifier.Verify(context.Background(), verifier.VerifyRequest{
		ContractAddress: contract,
		TokenID:         "0x7",
		ChainHint:       amoy(),
		Mode:            verifier.ModeLookup,
	})
	require.NoError(t, err)
	assert.Equal(t, verifier.SourceCache, result.Source)
	assert.True(t, result.IsValid)
	assert.Equal(t, buyer, result.Holder)
}

func TestVerify_LookupCacheMissFallsBack(t *testing.T) {
	tm := setupTest(t)

	tm.ledgers.EXPECT().Get(domain.CHAIN_ID_POLYGON_AMOY).Return(tm.client, nil)
	tm.reads.EXPECT().GetTicket(gomock.Any(), key()).Return(nil, errors.New("db down"))
	tm.expectResolve(amoy())
	tm.client.EXPECT().VerifyTicket(gomock.Any(), contract, "7").
		Return(&ledger.TicketStatus{IsValid: true, Holder: buyer}, nil)
	tm.events.EXPECT().Get(gomock.Any(), tm.client, contract).Return(nil, domain.ErrChainUnreachable)

	result, err := tm.verifier.Verify(context.Background(), verifier.VerifyRequest{
		ContractAddress: contract,
		TokenID:         "7",
		ChainHint:       amoy(),
	})
	require.NoError(t, err)
	assert.Equal(t, verifier.SourceChain, result.Source)
	assert.Nil(t, result.Event)
}

func TestVerify_LookupHealedRowIsAChainAnswer(t *testing.T) {
	tm := setupTest(t)

	tm.ledgers.EXPECT().Get(domain.CHAIN_ID_POLYGON_AMOY).Return(tm.client, nil)
	tm.reads.EXPECT().GetTicket(gomock.Any(), key()).
		Return(&readpath.TicketRead{Ticket: &domain.Ticket{Key: key(), OwnerAddress: buyer, IsUsed: true}, Source: readpath.SourceHealed}, nil)
	tm.events.EXPECT().Get(gomock.Any(), tm.client, contract).Return(event(), nil)

	result, err := tm.verifier.Verify(context.Background(), verifier.VerifyRequest{
		ContractAddress: contract,
		TokenID:         "7",
		ChainHint:       amoy(),
		Mode:            verifier.ModeLookup,
	})
	require.NoError(t, err)
	assert.Equal(t, verifier.SourceChain, result.Source)
	assert.True(t, result.IsUsed)
	assert.False(t, result.IsValid)
}

func TestVerify_LookupNeverAnswersFromAgedRow(t *testing.T) {
	tm := setupTest(t)

	// The read path could not reach the chain and only has a row past the staleness window
	tm.ledgers.EXPECT().Get(domain.CHAIN_ID_POLYGON_AMOY).Return(tm.client, nil)
	tm.reads.EXPECT().GetTicket(gomock.Any(), key()).
		Return(&readpath.TicketRead{Ticket: &domain.Ticket{Key: key(), OwnerAddress: buyer}, Source: readpath.SourceStaleCache}, nil)
	tm.expectResolve(amoy())
	tm.client.EXPECT().VerifyTicket(gomock.Any(), contract, "7").
		Return(&ledger.TicketStatus{IsValid: false, Holder: buyer, IsUsed: true}, nil)
	tm.events.EXPECT().Get(gomock.Any(), tm.client, contract).Return(event(), nil)

	result, err := tm.verifier.Verify(context.Background(), verifier.VerifyRequest{
		ContractAddress: contract,
		TokenID:         "7",
		ChainHint:       amoy(),
		Mode:            verifier.ModeLookup,
	})
	require.NoError(t, err)
	assert.Equal(t, verifier.SourceChain, result.Source)
	assert.True(t, result.IsUsed)
}

func TestVerify_GateAlwaysReadsChain(t *testing.T) {
	tm := setupTest(t)

	tm.expectResolve(amoy())
	tm.client.EXPECT().VerifyTicket(gomock.Any(), contract, "7").
		Return(&ledger.TicketStatus{IsValid: false, Holder: buyer, IsUsed: true}, nil)
	tm.events.EXPECT().Get(gomock.Any(), tm.client, contract).Return(event(), nil)

	result, err := tm.verifier.Verify(context.Background(), verifier.VerifyRequest{
		ContractAddress: contract,
		TokenID:         "7",
		ChainHint:       amoy(),
		Mode:            verifier.ModeGate,
	})
	require.NoError(t, err)
	assert.True(t, result.IsUsed)
	assert.False(t, result.IsValid)
	assert.Equal(t, verifier.SourceChain, result.Source)
}

func TestVerify_ContractMismatchBeforeChain(t *testing.T) {
	tm := setupTest(t)

	expected := otherContract
	_, err := tm.verifier.Verify(context.Background(), verifier.VerifyRequest{
		ContractAddress:  contract,
		TokenID:          "7",
		ExpectedContract: &expected,
		Mode:             verifier.ModeGate,
	})
	require.ErrorIs(t, err, domain.ErrContractMismatch)
}

func TestVerify_ResolverErrorsPropagate(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"not found", domain.ErrNotFoundOnAnyChain},
		{"unreachable", domain.ErrChainUnreachable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tm := setupTest(t)
			tm.resolver.EXPECT().Resolve(gomock.Any(), contract, "7", nil).Return(nil, tt.err)

			_, err := tm.verifier.Verify(context.Background(), verifier.VerifyRequest{ContractAddress: contract, TokenID: "7"})
			require.ErrorIs(t, err, tt.err)
		})
	}
}

func TestVerify_VanishedAfterResolve(t *testing.T) {
	tm := setupTest(t)

	tm.expectResolve(nil)
	tm.client.EXPECT().VerifyTicket(gomock.Any(), contract, "7").Return(nil, domain.ErrTicketNotFound)

	_, err := tm.verifier.Verify(context.Background(), verifier.VerifyRequest{ContractAddress: contract, TokenID: "7"})
	require.ErrorIs(t, err, domain.ErrNotFoundOnAnyChain)
}

func TestRequestFromQR(t *testing.T) {
	req, err := verifier.RequestFromQR("https://tickets.example/verify?contract="+contract+"&tokenId=7&chainId=80002", nil, verifier.ModeGate)
	require.NoError(t, err)
	assert.Equal(t, "7", req.TokenID)
	require.NotNil(t, req.ChainHint)
	assert.Equal(t, domain.CHAIN_ID_POLYGON_AMOY, *req.ChainHint)
	assert.Equal(t, verifier.ModeGate, req.Mode)

	_, err = verifier.RequestFromQR("not a ticket", nil, verifier.ModeGate)
	require.ErrorIs(t, err, domain.ErrInvalidQRPayload)
}

func TestCheckIn(t *testing.T) {
	tm := setupTest(t)

	tm.expectResolve(amoy())
	tm.client.EXPECT().VerifyTicket(gomock.Any(), contract, "7").
		Return(&ledger.TicketStatus{IsValid: true, Holder: buyer}, nil)
	tm.client.EXPECT().MarkAsUsed(gomock.Any(), contract, "7").Return(txHash, nil)
	tm.client.EXPECT().WaitConfirmed(gomock.Any(), txHash).
		Return(&ledger.Receipt{TxHash: txHash, BlockNumber: 120, TxIndex: 3, Confirmations: 2}, nil)
	tm.engine.EXPECT().SyncTicket(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, m *domain.Mutation) (*syncer.SyncResult, error) {
			assert.Equal(t, domain.TxTypeUse, m.TxType)
			assert.Equal(t, key(), m.Key)
			assert.Equal(t, txHash, m.TxHash)
			assert.Equal(t, buyer, m.UserAddress)
			require.NotNil(t, m.BlockNumber)
			assert.Equal(t, uint64(120), *m.BlockNumber)
			return &syncer.SyncResult{Status: syncer.StatusApplied}, nil
		})

	result, err := tm.verifier.CheckIn(context.Background(), verifier.CheckInRequest{
		ContractAddress: contract,
		TokenID:         "7",
		ChainHint:       amoy(),
	})
	require.NoError(t, err)
	assert.Equal(t, txHash, result.TxHash)
	assert.Equal(t, uint64(120), result.BlockNumber)
	assert.Equal(t, syncer.StatusApplied, result.Sync.Status)
}

func TestCheckIn_AlreadyUsed(t *testing.T) {
	tm := setupTest(t)

	tm.expectResolve(nil)
	tm.client.EXPECT().VerifyTicket(gomock.Any(), contract, "7").
		Return(&ledger.TicketStatus{IsValid: false, Holder: buyer, IsUsed: true}, nil)

	_, err := tm.verifier.CheckIn(context.Background(), verifier.CheckInRequest{ContractAddress: contract, TokenID: "7"})
	require.ErrorIs(t, err, domain.ErrTicketAlreadyUsed)
}

func TestCheckIn_ContractMismatch(t *testing.T) {
	tm := setupTest(t)

	expected := otherContract
	_, err := tm.verifier.CheckIn(context.Background(), verifier.CheckInRequest{
		ContractAddress:  contract,
		TokenID:          "7",
		ExpectedContract: &expected,
	})
	require.ErrorIs(t, err, domain.ErrContractMismatch)
}

func TestCheckIn_SyncFailureDoesNotFailCheckIn(t *testing.T) {
	tm := setupTest(t)

	tm.expectResolve(nil)
	tm.client.EXPECT().VerifyTicket(gomock.Any(), contract, "7").
		Return(&ledger.TicketStatus{IsValid: true, Holder: buyer}, nil)
	tm.client.EXPECT().MarkAsUsed(gomock.Any(), contract, "7").Return(txHash, nil)
	tm.client.EXPECT().WaitConfirmed(gomock.Any(), txHash).
		Return(&ledger.Receipt{TxHash: txHash, BlockNumber: 120}, nil)
	tm.engine.EXPECT().SyncTicket(gomock.Any(), gomock.Any()).
		Return(&syncer.SyncResult{Status: syncer.StatusRejected}, domain.ErrInvariantViolation)

	result, err := tm.verifier.CheckIn(context.Background(), verifier.CheckInRequest{ContractAddress: contract, TokenID: "7"})
	require.NoError(t, err)
	assert.Equal(t, syncer.StatusRejected, result.Sync.Status)
}

func TestCheckIn_ConfirmationSurvivesCancellation(t *testing.T) {
	tm := setupTest(t)

	ctx, cancel := context.WithCancel(context.Background())
	tm.expectResolve(nil)
	tm.client.EXPECT().VerifyTicket(gomock.Any(), contract, "7").
		Return(&ledger.TicketStatus{IsValid: true, Holder: buyer}, nil)
	tm.client.EXPECT().MarkAsUsed(gomock.Any(), contract, "7").
		DoAndReturn(func(ctx context.Context, _, _ string) (string, error) {
			cancel()
			return txHash, nil
		})
	tm.client.EXPECT().WaitConfirmed(gomock.Any(), txHash).
		DoAndReturn(func(ctx context.Context, hash string) (*ledger.Receipt, error) {
			require.NoError(t, ctx.Err())
			return &ledger.Receipt{TxHash: hash, BlockNumber: 121}, nil
		})
	tm.engine.EXPECT().SyncTicket(gomock.Any(), gomock.Any()).Return(&syncer.SyncResult{Status: syncer.StatusApplied}, nil)

	result, err := tm.verifier.CheckIn(ctx, verifier.CheckInRequest{ContractAddress: contract, TokenID: "7"})
	require.NoError(t, err)
	assert.Equal(t, uint64(121), result.BlockNumber)
}

func TestCheckIn_UnconfirmedIsQueued(t *testing.T) {
	tm := setupTest(t)

	tm.expectResolve(nil)
	tm.client.EXPECT().VerifyTicket(gomock.Any(), contract, "7").
		Return(&ledger.TicketStatus{IsValid: true, Holder: buyer}, nil)
	tm.client.EXPECT().MarkAsUsed(gomock.Any(), contract, "7").Return(txHash, nil)
	tm.client.EXPECT().WaitConfirmed(gomock.Any(), txHash).Return(nil, domain.ErrChainUnreachable)
	tm.queue.EXPECT().Enqueue(gomock.Any(), key(), reconcile.ReasonPendingConfirmation).Return(nil)

	_, err := tm.verifier.CheckIn(context.Background(), verifier.CheckInRequest{ContractAddress: contract, TokenID: "7"})
	require.ErrorIs(t, err, domain.ErrChainUnreachable)
}

func TestCheckIn_SendFails(t *testing.T) {
	tm := setupTest(t)

	tm.expectResolve(nil)
	tm.client.EXPECT().VerifyTicket(gomock.Any(), contract, "7").
		Return(&ledger.TicketStatus{IsValid: true, Holder: buyer}, nil)
	tm.client.EXPECT().MarkAsUsed(gomock.Any(), contract, "7").Return("", domain.ErrSignerNotConfigured)

	_, err := tm.verifier.CheckIn(context.Background(), verifier.CheckInRequest{ContractAddress: contract, TokenID: "7"})
	require.ErrorIs(t, err, domain.ErrSignerNotConfigured)
}
