package executor

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/feral-file/ff-ticketing/internal/api/shared/dto"
	apierrors "github.com/feral-file/ff-ticketing/internal/api/shared/errors"
	"github.com/feral-file/ff-ticketing/internal/domain"
	"github.com/feral-file/ff-ticketing/internal/logger"
	"github.com/feral-file/ff-ticketing/internal/messaging"
	"github.com/feral-file/ff-ticketing/internal/readpath"
	"github.com/feral-file/ff-ticketing/internal/registry"
	"github.com/feral-file/ff-ticketing/internal/store"
	"github.com/feral-file/ff-ticketing/internal/syncer"
	"github.com/feral-file/ff-ticketing/internal/verifier"
)

// SyncScope is the sync endpoint a mutation was posted to
type SyncScope string

const (
	SyncScopeTicket      SyncScope = "ticket"
	SyncScopeListing     SyncScope = "listing"
	SyncScopeTransaction SyncScope = "transaction"
)

// StatusQueued is reported for mutations handed to the broker instead of applied inline
const StatusQueued = "queued"

// Executor is the interface for the API executor
//
//go:generate mockgen -source=executor.go -destination=../../../mocks/mock_api_executor.go -package=mocks -mock_names=Executor=MockAPIExecutor
type Executor interface {
	// VerifyTicket answers whether a scanned or typed-in ticket is valid
	VerifyTicket(ctx context.Context, req *dto.VerifyTicketRequest) (*dto.VerifyTicketResponse, error)

	// CheckIn marks a ticket as used on chain and syncs the cache
	CheckIn(ctx context.Context, req *dto.CheckInRequest) (*dto.CheckInResponse, error)

	// Sync applies a confirmed mutation, or publishes it to the broker when async is set
	Sync(ctx context.Context, scope SyncScope, req *dto.SyncRequest, async bool) (*dto.SyncResponse, error)

	// GetTicket reads a ticket. With verify set the cached row is always compared with the chain.
	GetTicket(ctx context.Context, key domain.TicketKey, verify bool) (*dto.TicketResponse, error)

	// ListTicketsByOwner lists tickets held by an address
	ListTicketsByOwner(ctx context.Context, owner string, filter store.TicketFilter) (*dto.TicketListResponse, error)

	// ListTicketsByEvent lists tickets of an event contract
	ListTicketsByEvent(ctx context.Context, contract string, filter store.TicketFilter) (*dto.TicketListResponse, error)

	// ListListings lists resale listings
	ListListings(ctx context.Context, filter store.ListingFilter) (*dto.ListingListResponse, error)

	// ListTransactions lists ticket history
	ListTransactions(ctx context.Context, filter store.TransactionFilter) (*dto.TransactionListResponse, error)

	// RebuildTicket drops and rebuilds a cached ticket from chain
	RebuildTicket(ctx context.Context, key domain.TicketKey) (*dto.TicketResponse, error)

	// ListChains returns the supported chains
	ListChains() []dto.ChainResponse
}

type executor struct {
	verifier  verifier.Verifier
	readPath  readpath.ReadPath
	engine    syncer.Engine
	publisher messaging.Publisher
	chains    registry.ChainRegistry
}

// NewExecutor creates the API executor. A nil publisher disables async sync.
func NewExecutor(
	v verifier.Verifier,
	rp readpath.ReadPath,
	engine syncer.Engine,
	publisher messaging.Publisher,
	chains registry.ChainRegistry,
) Executor {
	return &executor{
		verifier:  v,
		readPath:  rp,
		engine:    engine,
		publisher: publisher,
		chains:    chains,
	}
}

// fail maps err to an API error, logging the ones clients cannot act on
func fail(ctx context.Context, err error, message string, fields ...zap.Field) error {
	apiErr := apierrors.FromDomainError(err, message)
	if apiErr.Code == apierrors.ErrCodeInternalError || apiErr.Code == apierrors.ErrCodeDatabaseError {
		logger.ErrorCtx(ctx, fmt.Errorf("%s: %w", message, err), fields...)
	}
	return apiErr
}

func (e *executor) txURL(chainID domain.ChainID, txHash string) string {
	chain, ok := e.chains.Get(chainID)
	if !ok {
		return ""
	}
	return chain.TxURL(txHash)
}

func (e *executor) VerifyTicket(ctx context.Context, req *dto.VerifyTicketRequest) (*dto.VerifyTicketResponse, error) {
	contract, tokenID, hint, err := req.Resolve()
	if err != nil {
		return nil, err
	}

	mode := verifier.ModeLookup
	if req.Mode == string(verifier.ModeGate) {
		mode = verifier.ModeGate
	}

	result, err := e.verifier.Verify(ctx, verifier.VerifyRequest{
		ContractAddress:  contract,
		TokenID:          tokenID,
		ChainHint:        hint,
		ExpectedContract: req.ExpectedContract,
		Mode:             mode,
	})
	if err != nil {
		return nil, fail(ctx, err, "Failed to verify ticket", zap.String("contract", contract), zap.String("tokenId", tokenID))
	}

	resp := &dto.VerifyTicketResponse{
		IsValid:         result.IsValid,
		Holder:          result.Holder,
		IsUsed:          result.IsUsed,
		ChainID:         uint64(result.Key.ChainID),
		ContractAddress: result.Key.ContractAddress,
		TokenID:         result.Key.TokenID,
		Source:          string(result.Source),
	}
	if result.Event != nil {
		resp.EventName = result.Event.Name
		resp.EventVenue = result.Event.Venue
		if !result.Event.Date.IsZero() {
			date := result.Event.Date
			resp.EventDate = &date
		}
	}
	return resp, nil
}

func (e *executor) CheckIn(ctx context.Context, req *dto.CheckInRequest) (*dto.CheckInResponse, error) {
	contract, tokenID, hint, err := req.Resolve()
	if err != nil {
		return nil, err
	}

	result, err := e.verifier.CheckIn(ctx, verifier.CheckInRequest{
		ContractAddress:  contract,
		TokenID:          tokenID,
		ChainHint:        hint,
		ExpectedContract: req.ExpectedContract,
		Operator:         req.Operator,
	})
	if err != nil {
		return nil, fail(ctx, err, "Failed to check in ticket", zap.String("contract", contract), zap.String("tokenId", tokenID))
	}

	return &dto.CheckInResponse{
		ChainID:         uint64(result.Key.ChainID),
		ContractAddress: result.Key.ContractAddress,
		TokenID:         result.Key.TokenID,
		Holder:          result.Holder,
		TxHash:          result.TxHash,
		TxURL:           e.txURL(result.Key.ChainID, result.TxHash),
		BlockNumber:     result.BlockNumber,
		Sync:            dto.MapSyncResultToDTO(result.Sync),
	}, nil
}

func (e *executor) Sync(ctx context.Context, scope SyncScope, req *dto.SyncRequest, async bool) (*dto.SyncResponse, error) {
	mutation := req.ToMutation()

	switch scope {
	case SyncScopeTicket:
		if !syncer.IsTicketTxType(mutation.TxType) {
			return nil, apierrors.NewValidationError(fmt.Sprintf("tx type %q is not a ticket mutation", mutation.TxType))
		}
	case SyncScopeListing:
		if !syncer.IsListingTxType(mutation.TxType) {
			return nil, apierrors.NewValidationError(fmt.Sprintf("tx type %q is not a listing mutation", mutation.TxType))
		}
	case SyncScopeTransaction:
	default:
		return nil, apierrors.NewBadRequestError(fmt.Sprintf("unknown sync scope: %s", scope))
	}

	if async {
		return e.publish(ctx, mutation)
	}

	var result *syncer.SyncResult
	var err error
	switch scope {
	case SyncScopeTicket:
		result, err = e.engine.SyncTicket(ctx, mutation)
	case SyncScopeListing:
		result, err = e.engine.SyncListing(ctx, mutation)
	default:
		result, err = e.engine.SyncTransaction(ctx, mutation)
	}
	if err != nil {
		return nil, fail(ctx, err, "Failed to sync mutation", logger.Mutation(mutation)...)
	}

	return dto.MapSyncResultToDTO(result), nil
}

func (e *executor) publish(ctx context.Context, mutation *domain.Mutation) (*dto.SyncResponse, error) {
	if e.publisher == nil {
		return nil, apierrors.NewServiceUnavailableError("Async sync is not enabled")
	}

	normalized := *mutation
	normalized.Normalize()
	if err := normalized.Validate(); err != nil {
		return nil, apierrors.NewValidationError(err.Error())
	}
	if _, ok := e.chains.Get(normalized.Key.ChainID); !ok {
		return nil, apierrors.NewValidationError(fmt.Sprintf("%v: %d", domain.ErrUnknownChain, normalized.Key.ChainID))
	}

	if err := e.publisher.PublishMutation(ctx, &normalized); err != nil {
		logger.ErrorCtx(ctx, err, logger.Mutation(&normalized)...)
		return nil, apierrors.NewServiceUnavailableError("Failed to queue mutation")
	}

	return &dto.SyncResponse{Status: StatusQueued}, nil
}

func (e *executor) GetTicket(ctx context.Context, key domain.TicketKey, verify bool) (*dto.TicketResponse, error) {
	var read *readpath.TicketRead
	var err error
	if verify {
		read, err = e.readPath.VerifyTicket(ctx, key)
	} else {
		read, err = e.readPath.GetTicket(ctx, key)
	}
	if err != nil {
		if errors.Is(err, domain.ErrTicketNotFound) {
			return nil, apierrors.NewNotFoundError("Ticket not found", key.String())
		}
		return nil, fail(ctx, err, "Failed to get ticket", logger.TicketKey(key))
	}

	return dto.MapTicketToDTO(read.Ticket, string(read.Source)), nil
}

func (e *executor) ListTicketsByOwner(ctx context.Context, owner string, filter store.TicketFilter) (*dto.TicketListResponse, error) {
	page, err := e.readPath.ListByOwner(ctx, owner, filter)
	if err != nil {
		return nil, fail(ctx, err, "Failed to list tickets", zap.String("owner", owner))
	}
	return dto.MapTicketPageToDTO(page), nil
}

func (e *executor) ListTicketsByEvent(ctx context.Context, contract string, filter store.TicketFilter) (*dto.TicketListResponse, error) {
	page, err := e.readPath.ListByEvent(ctx, contract, filter)
	if err != nil {
		return nil, fail(ctx, err, "Failed to list tickets", zap.String("contract", contract))
	}
	return dto.MapTicketPageToDTO(page), nil
}

func (e *executor) ListListings(ctx context.Context, filter store.ListingFilter) (*dto.ListingListResponse, error) {
	page, err := e.readPath.ListListings(ctx, filter)
	if err != nil {
		return nil, fail(ctx, err, "Failed to list listings")
	}
	return dto.MapListingPageToDTO(page), nil
}

func (e *executor) ListTransactions(ctx context.Context, filter store.TransactionFilter) (*dto.TransactionListResponse, error) {
	page, err := e.readPath.ListTransactions(ctx, filter)
	if err != nil {
		return nil, fail(ctx, err, "Failed to list transactions")
	}
	return dto.MapTransactionPageToDTO(page, e.txURL), nil
}

func (e *executor) RebuildTicket(ctx context.Context, key domain.TicketKey) (*dto.TicketResponse, error) {
	ticket, err := e.readPath.RebuildTicket(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrTicketNotFound) {
			return nil, apierrors.NewNotFoundError("Ticket not found on chain", key.String())
		}
		return nil, fail(ctx, err, "Failed to rebuild ticket", logger.TicketKey(key))
	}

	logger.InfoCtx(ctx, "Rebuilt ticket from chain", logger.TicketKey(key))
	return dto.MapTicketToDTO(ticket, string(readpath.SourceChain)), nil
}

func (e *executor) ListChains() []dto.ChainResponse {
	chains := e.chains.All()
	resp := make([]dto.ChainResponse, 0, len(chains))
	for _, c := range chains {
		resp = append(resp, dto.MapChainToDTO(c))
	}
	return resp
}
