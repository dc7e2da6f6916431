package domain

import (
	"fmt"
	"math/big"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// ChainID is the EVM chain id (e.g. 80002 for Polygon Amoy)
type ChainID uint64

// String returns the decimal representation of the chain id
func (c ChainID) String() string {
	return strconv.FormatUint(uint64(c), 10)
}

// ParseChainID parses a decimal chain id
func ParseChainID(s string) (ChainID, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid chain id: %s", s)
	}
	return ChainID(id), nil
}

// Chain describes a supported ledger. Loaded once at startup and never mutated.
type Chain struct {
	ID                   ChainID `json:"chainId"`
	Name                 string  `json:"name"`
	RPCURL               string  `json:"rpcUrl"`
	ExplorerURL          string  `json:"explorerUrl"`
	NativeCurrencySymbol string  `json:"nativeCurrencySymbol"`
}

// TxURL returns the explorer link for a transaction hash
func (c Chain) TxURL(txHash string) string {
	if c.ExplorerURL == "" {
		return ""
	}
	return fmt.Sprintf("%s/tx/%s", strings.TrimRight(c.ExplorerURL, "/"), txHash)
}

// TicketKey is the composite identity of a ticket. Token ids are only unique
// within a (chain, contract) pair.
type TicketKey struct {
	ChainID         ChainID `json:"chainId"`
	ContractAddress string  `json:"contractAddress"`
	TokenID         string  `json:"tokenId"`
}

// NewTicketKey validates and normalizes the parts of a ticket key
func NewTicketKey(chainID ChainID, contractAddress string, tokenID string) (TicketKey, error) {
	if chainID == 0 {
		return TicketKey{}, fmt.Errorf("%w: missing chain id", ErrInvalidTicketKey)
	}
	if !common.IsHexAddress(contractAddress) {
		return TicketKey{}, fmt.Errorf("%w: invalid contract address %q", ErrInvalidTicketKey, contractAddress)
	}
	tokenID, err := NormalizeTokenID(tokenID)
	if err != nil {
		return TicketKey{}, err
	}

	return TicketKey{
		ChainID:         chainID,
		ContractAddress: NormalizeAddress(contractAddress),
		TokenID:         tokenID,
	}, nil
}

// String returns the key as chainId:contract:tokenId
func (k TicketKey) String() string {
	return fmt.Sprintf("%d:%s:%s", k.ChainID, k.ContractAddress, k.TokenID)
}

// Valid checks that every part of the key is present and well formed
func (k TicketKey) Valid() bool {
	return k.ChainID != 0 && common.IsHexAddress(k.ContractAddress) && validTokenID(k.TokenID)
}

// TokenIDBig returns the token id as a big integer for ABI calls
func (k TicketKey) TokenIDBig() *big.Int {
	n, _ := new(big.Int).SetString(k.TokenID, 10)
	return n
}

// ParseTicketKey parses the output of TicketKey.String
func ParseTicketKey(s string) (TicketKey, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return TicketKey{}, fmt.Errorf("%w: %q", ErrInvalidTicketKey, s)
	}
	chainID, err := ParseChainID(parts[0])
	if err != nil {
		return TicketKey{}, fmt.Errorf("%w: %v", ErrInvalidTicketKey, err)
	}
	return NewTicketKey(chainID, parts[1], parts[2])
}

// Ticket is the cache projection of a ticket's on-chain state
type Ticket struct {
	Key            TicketKey  `json:"key"`
	OwnerAddress   string     `json:"ownerAddress"`
	IsUsed         bool       `json:"isUsed"`
	IsListed       bool       `json:"isListed"`
	ListingID      *string    `json:"listingId,omitempty"`
	PurchasePrice  string     `json:"purchasePrice"`
	LastBlock      *uint64    `json:"lastBlock,omitempty"`
	LastTxIndex    *uint64    `json:"lastTxIndex,omitempty"`
	NeedsReconcile bool       `json:"needsReconcile"`
	SyncedAt       time.Time  `json:"syncedAt"`
	CreatedAt      *time.Time `json:"createdAt,omitempty"`
}

// EventID returns the event the ticket admits to. Each event is deployed as its own contract.
func (t *Ticket) EventID() string {
	return t.Key.ContractAddress
}

// ChainID returns the chain hosting the ticket
func (t *Ticket) ChainID() ChainID {
	return t.Key.ChainID
}

// ListingStatus is the state of a resale listing
type ListingStatus string

const (
	ListingStatusActive    ListingStatus = "active"
	ListingStatusSold      ListingStatus = "sold"
	ListingStatusCancelled ListingStatus = "cancelled"
)

// Valid checks if the status is known
func (s ListingStatus) Valid() bool {
	switch s {
	case ListingStatusActive, ListingStatusSold, ListingStatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transition is allowed
func (s ListingStatus) Terminal() bool {
	return s == ListingStatusSold || s == ListingStatusCancelled
}

// CanTransitionTo reports whether the one-way listing state machine allows s -> next
func (s ListingStatus) CanTransitionTo(next ListingStatus) bool {
	return s == ListingStatusActive && next.Terminal()
}

// Listing is an offer to resell a ticket
type Listing struct {
	ListingID     string        `json:"listingId"`
	Key           TicketKey     `json:"key"`
	SellerAddress string        `json:"sellerAddress"`
	Price         string        `json:"price"`
	Status        ListingStatus `json:"status"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

// TxType is the kind of confirmed on-chain mutation
type TxType string

const (
	TxTypePurchase TxType = "purchase"
	TxTypeSale     TxType = "sale"
	TxTypeListing  TxType = "listing"
	TxTypeTransfer TxType = "transfer"
	TxTypeCancel   TxType = "cancel"
	TxTypeUse      TxType = "use"
)

// Valid checks if the tx type is known
func (t TxType) Valid() bool {
	switch t {
	case TxTypePurchase, TxTypeSale, TxTypeListing, TxTypeTransfer, TxTypeCancel, TxTypeUse:
		return true
	}
	return false
}

// Transaction is an append-only history entry
type Transaction struct {
	ID          uint64    `json:"id"`
	TxHash      string    `json:"txHash"`
	TxType      TxType    `json:"txType"`
	Key         TicketKey `json:"key"`
	UserAddress string    `json:"userAddress"`
	FromAddress *string   `json:"fromAddress,omitempty"`
	ToAddress   *string   `json:"toAddress,omitempty"`
	Amount      *string   `json:"amount,omitempty"`
	BlockNumber *uint64   `json:"blockNumber,omitempty"`
	TxIndex     *uint64   `json:"txIndex,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// EventMetadata is the event a ticket contract was deployed for
type EventMetadata struct {
	Name  string    `json:"name"`
	Venue string    `json:"venue"`
	Date  time.Time `json:"date"`
}

// ChainTicketState is a point-in-time read of a ticket from its ledger
type ChainTicketState struct {
	Key           TicketKey
	Exists        bool
	Holder        string
	IsUsed        bool
	IsListed      bool
	ListingID     *string
	ListingPrice  *string
	ListingSeller *string
	PurchasePrice string
	BlockNumber   uint64
}

// NormalizeAddresses normalizes a list of addresses to their checksum form
func NormalizeAddresses(addresses []string) []string {
	for i, address := range addresses {
		addresses[i] = NormalizeAddress(address)
	}
	return addresses
}

// NormalizeAddress normalizes an EVM address to its EIP-55 checksum form
func NormalizeAddress(address string) string {
	address = strings.TrimSpace(address)
	if common.IsHexAddress(address) {
		return common.HexToAddress(address).Hex()
	}
	return address
}

// NormalizeTokenID accepts decimal or 0x-prefixed hex token ids and returns the decimal form
func NormalizeTokenID(tokenID string) (string, error) {
	tokenID = strings.TrimSpace(tokenID)
	if strings.HasPrefix(tokenID, "0x") || strings.HasPrefix(tokenID, "0X") {
		n, ok := new(big.Int).SetString(tokenID[2:], 16)
		if !ok {
			return "", fmt.Errorf("%w: invalid token id %q", ErrInvalidTicketKey, tokenID)
		}
		return n.String(), nil
	}
	if !validTokenID(tokenID) {
		return "", fmt.Errorf("%w: invalid token id %q", ErrInvalidTicketKey, tokenID)
	}
	n, _ := new(big.Int).SetString(tokenID, 10)
	return n.String(), nil
}

var tokenIDPattern = regexp.MustCompile(`^[0-9]+$`)

// validTokenID checks if a token id is a non-empty decimal number
func validTokenID(tokenID string) bool {
	return tokenIDPattern.MatchString(tokenID)
}

// SameAddress compares two EVM addresses case-insensitively
func SameAddress(a, b string) bool {
	return strings.EqualFold(NormalizeAddress(a), NormalizeAddress(b))
}
