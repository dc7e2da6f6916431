package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

var txHashPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{64}$`)

// Mutation is a confirmed on-chain write to be projected into the cache.
// Its identity is (Key, TxType, TxHash).
//
// Address conventions by type:
//   - purchase: UserAddress is the buyer, Amount the price paid
//   - listing:  UserAddress is the seller, ListingID and Amount (asking price) are set
//   - sale:     UserAddress is the buyer, FromAddress the seller, ListingID the listing sold
//   - cancel:   UserAddress is the seller, ListingID the listing cancelled
//   - transfer: FromAddress and ToAddress are set
//   - use:      UserAddress is whoever submitted the check-in
type Mutation struct {
	ID          string    `json:"id,omitempty"`
	Key         TicketKey `json:"key"`
	TxType      TxType    `json:"txType"`
	TxHash      string    `json:"txHash"`
	UserAddress string    `json:"userAddress"`
	FromAddress *string   `json:"fromAddress,omitempty"`
	ToAddress   *string   `json:"toAddress,omitempty"`
	Amount      *string   `json:"amount,omitempty"`
	ListingID   *string   `json:"listingId,omitempty"`
	BlockNumber *uint64   `json:"blockNumber,omitempty"`
	TxIndex     *uint64   `json:"txIndex,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// Normalize lower-cases the tx hash and checksums every address in place
func (m *Mutation) Normalize() {
	m.TxHash = strings.ToLower(strings.TrimSpace(m.TxHash))
	m.UserAddress = NormalizeAddress(m.UserAddress)
	if m.FromAddress != nil {
		from := NormalizeAddress(*m.FromAddress)
		m.FromAddress = &from
	}
	if m.ToAddress != nil {
		to := NormalizeAddress(*m.ToAddress)
		m.ToAddress = &to
	}
	m.Key.ContractAddress = NormalizeAddress(m.Key.ContractAddress)
}

// Validate checks the fields required by the mutation's type
func (m *Mutation) Validate() error {
	if !m.Key.Valid() {
		return fmt.Errorf("%w: invalid ticket key %s", ErrInvalidMutation, m.Key)
	}
	if !m.TxType.Valid() {
		return fmt.Errorf("%w: unknown tx type %q", ErrInvalidMutation, m.TxType)
	}
	if !txHashPattern.MatchString(m.TxHash) {
		return fmt.Errorf("%w: invalid tx hash %q", ErrInvalidMutation, m.TxHash)
	}
	if m.TxIndex != nil && m.BlockNumber == nil {
		return fmt.Errorf("%w: tx index without block number", ErrInvalidMutation)
	}

	switch m.TxType {
	case TxTypePurchase:
		if !IsAddress(m.UserAddress) {
			return fmt.Errorf("%w: purchase requires buyer address", ErrInvalidMutation)
		}
	case TxTypeListing:
		if !IsAddress(m.UserAddress) || isBlank(m.ListingID) || isBlank(m.Amount) {
			return fmt.Errorf("%w: listing requires seller, listing id and price", ErrInvalidMutation)
		}
	case TxTypeSale:
		if !IsAddress(m.UserAddress) || m.FromAddress == nil || !IsAddress(*m.FromAddress) || isBlank(m.ListingID) {
			return fmt.Errorf("%w: sale requires buyer, seller and listing id", ErrInvalidMutation)
		}
	case TxTypeCancel:
		if !IsAddress(m.UserAddress) || isBlank(m.ListingID) {
			return fmt.Errorf("%w: cancel requires seller and listing id", ErrInvalidMutation)
		}
	case TxTypeTransfer:
		if m.FromAddress == nil || !IsAddress(*m.FromAddress) || m.ToAddress == nil || !IsAddress(*m.ToAddress) {
			return fmt.Errorf("%w: transfer requires from and to addresses", ErrInvalidMutation)
		}
	case TxTypeUse:
	}

	return nil
}

// HasConfirmationOrder reports whether the block position of the mutation is known
func (m *Mutation) HasConfirmationOrder() bool {
	return m.BlockNumber != nil
}

// OlderThan reports whether the mutation was confirmed strictly before the given position
func (m *Mutation) OlderThan(block *uint64, txIndex *uint64) bool {
	if m.BlockNumber == nil || block == nil {
		return false
	}
	if *m.BlockNumber != *block {
		return *m.BlockNumber < *block
	}
	if m.TxIndex == nil || txIndex == nil {
		return false
	}
	return *m.TxIndex < *txIndex
}

// NewOwner returns the owner after the mutation, or empty if ownership does not change
func (m *Mutation) NewOwner() string {
	switch m.TxType {
	case TxTypePurchase, TxTypeSale:
		return m.UserAddress
	case TxTypeTransfer:
		if m.ToAddress != nil {
			return *m.ToAddress
		}
	}
	return ""
}

// Seller returns the selling address for listing, sale and cancel mutations
func (m *Mutation) Seller() string {
	switch m.TxType {
	case TxTypeListing, TxTypeCancel:
		return m.UserAddress
	case TxTypeSale:
		if m.FromAddress != nil {
			return *m.FromAddress
		}
	}
	return ""
}

// IsAddress reports whether s is a hex EVM address
func IsAddress(s string) bool {
	return common.IsHexAddress(s)
}

func isBlank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}
