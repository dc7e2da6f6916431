package dto

import (
	"fmt"
	"strings"
	"time"

	"github.com/feral-file/ff-ticketing/internal/api/shared/constants"
	apierrors "github.com/feral-file/ff-ticketing/internal/api/shared/errors"
	"github.com/feral-file/ff-ticketing/internal/domain"
)

// TicketRef identifies a ticket either by a scanned QR payload or by its parts
type TicketRef struct {
	QR              string          `json:"qr,omitempty"`
	ContractAddress string          `json:"contractAddress,omitempty"`
	TokenID         string          `json:"tokenId,omitempty"`
	ChainHint       *domain.ChainID `json:"chainHint,omitempty"`
}

// Resolve returns the contract, token and chain hint the reference points at
func (r *TicketRef) Resolve() (contract string, tokenID string, hint *domain.ChainID, err error) {
	if r.QR != "" {
		if len(r.QR) > constants.MAX_QR_PAYLOAD_LENGTH {
			return "", "", nil, apierrors.NewValidationError("qr payload too long")
		}
		qr, err := domain.ParseTicketQR(r.QR)
		if err != nil {
			return "", "", nil, apierrors.NewValidationError(err.Error())
		}
		return qr.ContractAddress, qr.TokenID, qr.ChainHint, nil
	}

	if r.ContractAddress == "" || r.TokenID == "" {
		return "", "", nil, apierrors.NewValidationError("either qr or contractAddress and tokenId are required")
	}
	if _, err := domain.NewTicketKey(1, r.ContractAddress, r.TokenID); err != nil {
		return "", "", nil, apierrors.NewValidationError(err.Error())
	}
	return r.ContractAddress, r.TokenID, r.ChainHint, nil
}

// VerifyTicketRequest represents the request body of POST /api/v1/verify
type VerifyTicketRequest struct {
	TicketRef
	// ExpectedContract is the event being admitted at the door
	ExpectedContract *string `json:"expectedContract,omitempty"`
	// Mode is "lookup" (default) or "gate"
	Mode string `json:"mode,omitempty"`
}

// Validate validates the request body
func (r *VerifyTicketRequest) Validate() error {
	switch r.Mode {
	case "", "lookup", "gate":
	default:
		return apierrors.NewValidationError(fmt.Sprintf("unknown mode: %s", r.Mode))
	}
	_, _, _, err := r.Resolve()
	return err
}

// CheckInRequest represents the request body of POST /api/v1/check-in
type CheckInRequest struct {
	TicketRef
	ExpectedContract *string `json:"expectedContract,omitempty"`
	// Operator is the address recorded on the use transaction
	Operator string `json:"operator,omitempty"`
}

// Validate validates the request body
func (r *CheckInRequest) Validate() error {
	if r.Operator != "" && !domain.IsAddress(r.Operator) {
		return apierrors.NewValidationError(fmt.Sprintf("invalid operator address: %s", r.Operator))
	}
	_, _, _, err := r.Resolve()
	return err
}

// SyncRequest represents a confirmed on-chain mutation posted to the sync endpoints
type SyncRequest struct {
	ChainID         domain.ChainID `json:"chainId"`
	ContractAddress string         `json:"contractAddress"`
	TokenID         string         `json:"tokenId"`
	TxType          domain.TxType  `json:"txType"`
	TxHash          string         `json:"txHash"`
	UserAddress     string         `json:"userAddress"`
	FromAddress     *string        `json:"fromAddress,omitempty"`
	ToAddress       *string        `json:"toAddress,omitempty"`
	Amount          *string        `json:"amount,omitempty"`
	ListingID       *string        `json:"listingId,omitempty"`
	BlockNumber     *uint64        `json:"blockNumber,omitempty"`
	TxIndex         *uint64        `json:"txIndex,omitempty"`
	Timestamp       *time.Time     `json:"timestamp,omitempty"`
}

// ToMutation converts the request to a mutation record
func (r *SyncRequest) ToMutation() *domain.Mutation {
	m := &domain.Mutation{
		Key: domain.TicketKey{
			ChainID:         r.ChainID,
			ContractAddress: strings.TrimSpace(r.ContractAddress),
			TokenID:         strings.TrimSpace(r.TokenID),
		},
		TxType:      domain.TxType(strings.ToLower(string(r.TxType))),
		TxHash:      r.TxHash,
		UserAddress: r.UserAddress,
		FromAddress: r.FromAddress,
		ToAddress:   r.ToAddress,
		Amount:      r.Amount,
		ListingID:   r.ListingID,
		BlockNumber: r.BlockNumber,
		TxIndex:     r.TxIndex,
	}
	if r.Timestamp != nil {
		m.Timestamp = *r.Timestamp
	}
	return m
}

// Validate validates the request body
func (r *SyncRequest) Validate() error {
	m := r.ToMutation()
	m.Normalize()
	if err := m.Validate(); err != nil {
		return apierrors.NewValidationError(err.Error())
	}
	return nil
}
