package verifier

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/feral-file/ff-ticketing/internal/domain"
	"github.com/feral-file/ff-ticketing/internal/eventmeta"
	"github.com/feral-file/ff-ticketing/internal/ledger"
	"github.com/feral-file/ff-ticketing/internal/logger"
	"github.com/feral-file/ff-ticketing/internal/readpath"
	"github.com/feral-file/ff-ticketing/internal/reconcile"
	"github.com/feral-file/ff-ticketing/internal/resolver"
	"github.com/feral-file/ff-ticketing/internal/syncer"
)

// Mode selects how much a verification may rely on the cache
type Mode string

const (
	// ModeLookup may answer from the cache when the chain is known
	ModeLookup Mode = "lookup"
	// ModeGate always reads the chain. Used for entry scanning.
	ModeGate Mode = "gate"
)

// Source tells where a verification answer came from
type Source string

const (
	SourceCache Source = "cache"
	SourceChain Source = "chain"
)

// VerifyRequest identifies the ticket to verify
type VerifyRequest struct {
	ContractAddress string
	TokenID         string
	ChainHint       *domain.ChainID
	// ExpectedContract is the event contract being scanned at the door, if any
	ExpectedContract *string
	Mode             Mode
}

// VerifyResult is the answer to "is this ticket valid, who holds it and has it been used"
type VerifyResult struct {
	Key     domain.TicketKey
	IsValid bool
	Holder  string
	IsUsed  bool
	// Event is nil when the event details could not be read
	Event  *domain.EventMetadata
	Source Source
}

// CheckInRequest identifies the ticket being admitted
type CheckInRequest struct {
	ContractAddress  string
	TokenID          string
	ChainHint        *domain.ChainID
	ExpectedContract *string
	// Operator is recorded as the user of the use transaction; defaults to the holder
	Operator string
}

// CheckInResult is a confirmed on-chain check-in
type CheckInResult struct {
	Key         domain.TicketKey
	Holder      string
	TxHash      string
	BlockNumber uint64
	// Sync is what the cache did with the use mutation
	Sync *syncer.SyncResult
}

// Verifier answers ticket validity questions and performs check-ins
//
//go:generate mockgen -source=verifier.go -destination=../mocks/verifier.go -package=mocks -mock_names=Verifier=MockVerifier
type Verifier interface {
	// Verify reports the ticket's validity, holder and usage
	Verify(ctx context.Context, req VerifyRequest) (*VerifyResult, error)

	// CheckIn marks the ticket as used on chain, waits for confirmation and syncs the cache
	CheckIn(ctx context.Context, req CheckInRequest) (*CheckInResult, error)
}

type verifier struct {
	reads    readpath.ReadPath
	resolver resolver.Resolver
	ledgers  ledger.Set
	events   eventmeta.Cache
	engine   syncer.Engine
	queue    reconcile.Queue
}

// NewVerifier creates a ticket verifier. Lookups with a chain hint go through the read path;
// check-ins whose confirmation cannot be observed are handed to the reconcile queue.
func NewVerifier(reads readpath.ReadPath, res resolver.Resolver, ledgers ledger.Set, events eventmeta.Cache, engine syncer.Engine, queue reconcile.Queue) Verifier {
	return &verifier{
		reads:    reads,
		resolver: res,
		ledgers:  ledgers,
		events:   events,
		engine:   engine,
		queue:    queue,
	}
}

// RequestFromQR builds a verification request from a scanned payload
func RequestFromQR(payload string, expectedContract *string, mode Mode) (*VerifyRequest, error) {
	qr, err := domain.ParseTicketQR(payload)
	if err != nil {
		return nil, err
	}
	return &VerifyRequest{
		ContractAddress:  qr.ContractAddress,
		TokenID:          qr.TokenID,
		ChainHint:        qr.ChainHint,
		ExpectedContract: expectedContract,
		Mode:             mode,
	}, nil
}

func checkContract(contractAddress string, expected *string) error {
	if expected == nil || *expected == "" {
		return nil
	}
	if !domain.SameAddress(contractAddress, *expected) {
		return fmt.Errorf("%w: scanned %s, expected %s", domain.ErrContractMismatch, contractAddress, *expected)
	}
	return nil
}

func (v *verifier) Verify(ctx context.Context, req VerifyRequest) (*VerifyResult, error) {
	if err := checkContract(req.ContractAddress, req.ExpectedContract); err != nil {
		return nil, err
	}
	tokenID, err := domain.NormalizeTokenID(req.TokenID)
	if err != nil {
		return nil, err
	}
	contract := domain.NormalizeAddress(req.ContractAddress)

	if req.Mode != ModeGate && req.ChainHint != nil {
		result, err := v.fromCache(ctx, *req.ChainHint, contract, tokenID)
		if err != nil {
			logger.WarnCtx(ctx, "Cache lookup failed, verifying on chain", zap.Error(err))
		}
		if result != nil {
			return result, nil
		}
	}

	res, err := v.resolver.Resolve(ctx, contract, tokenID, req.ChainHint)
	if err != nil {
		return nil, err
	}

	status, err := res.Client.VerifyTicket(ctx, contract, tokenID)
	if err != nil {
		if errors.Is(err, domain.ErrTicketNotFound) {
			return nil, fmt.Errorf("%w: %w", domain.ErrNotFoundOnAnyChain, err)
		}
		return nil, err
	}

	return &VerifyResult{
		Key:     domain.TicketKey{ChainID: res.ChainID, ContractAddress: contract, TokenID: tokenID},
		IsValid: status.IsValid,
		Holder:  status.Holder,
		IsUsed:  status.IsUsed,
		Event:   v.event(ctx, res.Client, contract),
		Source:  SourceChain,
	}, nil
}

// fromCache answers through the read path on the hinted chain. It returns nil without
// error when the read path could only offer a row older than the staleness window.
func (v *verifier) fromCache(ctx context.Context, chainID domain.ChainID, contract, tokenID string) (*VerifyResult, error) {
	client, err := v.ledgers.Get(chainID)
	if err != nil {
		return nil, err
	}

	key := domain.TicketKey{ChainID: chainID, ContractAddress: contract, TokenID: tokenID}
	read, err := v.reads.GetTicket(ctx, key)
	if err != nil {
		return nil, err
	}

	source := SourceChain
	switch read.Source {
	case readpath.SourceCache:
		source = SourceCache
	case readpath.SourceStaleCache:
		return nil, nil
	}

	return &VerifyResult{
		Key:     key,
		IsValid: !read.Ticket.IsUsed,
		Holder:  read.Ticket.OwnerAddress,
		IsUsed:  read.Ticket.IsUsed,
		Event:   v.event(ctx, client, contract),
		Source:  source,
	}, nil
}

// event reads event details; failures only drop the details from the answer
func (v *verifier) event(ctx context.Context, client ledger.Client, contract string) *domain.EventMetadata {
	if v.events == nil {
		return nil
	}
	metadata, err := v.events.Get(ctx, client, contract)
	if err != nil {
		logger.WarnCtx(ctx, "Failed to read event details", zap.String("contract", contract), zap.Error(err))
		return nil
	}
	return metadata
}

func (v *verifier) CheckIn(ctx context.Context, req CheckInRequest) (*CheckInResult, error) {
	if err := checkContract(req.ContractAddress, req.ExpectedContract); err != nil {
		return nil, err
	}
	tokenID, err := domain.NormalizeTokenID(req.TokenID)
	if err != nil {
		return nil, err
	}
	contract := domain.NormalizeAddress(req.ContractAddress)

	res, err := v.resolver.Resolve(ctx, contract, tokenID, req.ChainHint)
	if err != nil {
		return nil, err
	}
	key := domain.TicketKey{ChainID: res.ChainID, ContractAddress: contract, TokenID: tokenID}

	status, err := res.Client.VerifyTicket(ctx, contract, tokenID)
	if err != nil {
		if errors.Is(err, domain.ErrTicketNotFound) {
			return nil, fmt.Errorf("%w: %w", domain.ErrNotFoundOnAnyChain, err)
		}
		return nil, err
	}
	if status.IsUsed {
		return nil, fmt.Errorf("%w: %s", domain.ErrTicketAlreadyUsed, key)
	}

	txHash, err := res.Client.MarkAsUsed(ctx, contract, tokenID)
	if err != nil {
		return nil, fmt.Errorf("failed to mark ticket as used: %w", err)
	}

	// The transaction is out; confirmation and cache sync outlive the request
	ctx = context.WithoutCancel(ctx)

	receipt, err := res.Client.WaitConfirmed(ctx, txHash)
	if err != nil {
		// The transaction may still confirm; the reconciler rebuilds the row from chain either way
		v.enqueue(ctx, key, txHash)
		return nil, fmt.Errorf("check-in transaction %s not confirmed: %w", txHash, err)
	}

	operator := req.Operator
	if operator == "" {
		operator = status.Holder
	}
	blockNumber := receipt.BlockNumber
	txIndex := receipt.TxIndex
	mutation := &domain.Mutation{
		Key:         key,
		TxType:      domain.TxTypeUse,
		TxHash:      receipt.TxHash,
		UserAddress: operator,
		BlockNumber: &blockNumber,
		TxIndex:     &txIndex,
	}

	result := &CheckInResult{
		Key:         key,
		Holder:      status.Holder,
		TxHash:      receipt.TxHash,
		BlockNumber: receipt.BlockNumber,
	}

	sync, err := v.engine.SyncTicket(ctx, mutation)
	if err != nil {
		// The ticket is used on chain regardless of what the cache did
		logger.ErrorCtx(ctx, fmt.Errorf("failed to sync check-in: %w", err), logger.TicketKey(key), zap.String("txHash", receipt.TxHash))
	}
	result.Sync = sync

	logger.InfoCtx(ctx, "Checked in ticket", logger.TicketKey(key), zap.String("txHash", receipt.TxHash))
	return result, nil
}

func (v *verifier) enqueue(ctx context.Context, key domain.TicketKey, txHash string) {
	if v.queue == nil {
		return
	}
	if err := v.queue.Enqueue(ctx, key, reconcile.ReasonPendingConfirmation); err != nil {
		logger.ErrorCtx(ctx, fmt.Errorf("failed to queue unconfirmed check-in: %w", err), logger.TicketKey(key), zap.String("txHash", txHash))
	}
}
