package dto

import "time"

// VerifyTicketResponse is the answer of POST /api/v1/verify
type VerifyTicketResponse struct {
	IsValid         bool       `json:"isValid"`
	Holder          string     `json:"holder"`
	IsUsed          bool       `json:"isUsed"`
	EventName       string     `json:"eventName,omitempty"`
	EventVenue      string     `json:"eventVenue,omitempty"`
	EventDate       *time.Time `json:"eventDate,omitempty"`
	ChainID         uint64     `json:"chainId"`
	ContractAddress string     `json:"contractAddress"`
	TokenID         string     `json:"tokenId"`
	Source          string     `json:"source"`
}

// CheckInResponse is the answer of POST /api/v1/check-in
type CheckInResponse struct {
	ChainID         uint64        `json:"chainId"`
	ContractAddress string        `json:"contractAddress"`
	TokenID         string        `json:"tokenId"`
	Holder          string        `json:"holder"`
	TxHash          string        `json:"txHash"`
	TxURL           string        `json:"txUrl,omitempty"`
	BlockNumber     uint64        `json:"blockNumber"`
	Sync            *SyncResponse `json:"sync,omitempty"`
}

// SyncResponse describes what happened to a posted mutation
type SyncResponse struct {
	MutationID string          `json:"mutationId,omitempty"`
	Status     string          `json:"status"`
	Reason     string          `json:"reason,omitempty"`
	Reconcile  bool            `json:"reconcile"`
	Ticket     *TicketResponse `json:"ticket,omitempty"`
}

// TicketResponse is the API view of a ticket
type TicketResponse struct {
	ChainID         uint64    `json:"chainId"`
	ContractAddress string    `json:"contractAddress"`
	TokenID         string    `json:"tokenId"`
	OwnerAddress    string    `json:"ownerAddress"`
	IsUsed          bool      `json:"isUsed"`
	IsListed        bool      `json:"isListed"`
	ListingID       *string   `json:"listingId,omitempty"`
	PurchasePrice   string    `json:"purchasePrice"`
	LastBlock       *uint64   `json:"lastBlock,omitempty"`
	NeedsReconcile  bool      `json:"needsReconcile"`
	SyncedAt        time.Time `json:"syncedAt"`
	Source          string    `json:"source,omitempty"`
}

// TicketListResponse is one page of tickets
type TicketListResponse struct {
	Tickets    []TicketResponse `json:"tickets"`
	Total      int64            `json:"total"`
	NextOffset *int             `json:"nextOffset,omitempty"`
}

// ListingResponse is the API view of a resale listing
type ListingResponse struct {
	ListingID       string    `json:"listingId"`
	ChainID         uint64    `json:"chainId"`
	ContractAddress string    `json:"contractAddress"`
	TokenID         string    `json:"tokenId"`
	SellerAddress   string    `json:"sellerAddress"`
	Price           string    `json:"price"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// ListingListResponse is one page of listings
type ListingListResponse struct {
	Listings   []ListingResponse `json:"listings"`
	Total      int64             `json:"total"`
	NextOffset *int              `json:"nextOffset,omitempty"`
}

// TransactionResponse is the API view of a history entry
type TransactionResponse struct {
	TxHash          string    `json:"txHash"`
	TxType          string    `json:"txType"`
	TxURL           string    `json:"txUrl,omitempty"`
	ChainID         uint64    `json:"chainId"`
	ContractAddress string    `json:"contractAddress"`
	TokenID         string    `json:"tokenId"`
	UserAddress     string    `json:"userAddress"`
	FromAddress     *string   `json:"fromAddress,omitempty"`
	ToAddress       *string   `json:"toAddress,omitempty"`
	Amount          *string   `json:"amount,omitempty"`
	BlockNumber     *uint64   `json:"blockNumber,omitempty"`
	Timestamp       time.Time `json:"timestamp"`
}

// TransactionListResponse is one page of history
type TransactionListResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	Total        int64                 `json:"total"`
	NextOffset   *int                  `json:"nextOffset,omitempty"`
}

// ChainResponse describes a supported ledger. RPC endpoints are not exposed.
type ChainResponse struct {
	ChainID              uint64 `json:"chainId"`
	Name                 string `json:"name"`
	ExplorerURL          string `json:"explorerUrl,omitempty"`
	NativeCurrencySymbol string `json:"nativeCurrencySymbol"`
}

// HealthResponse is the answer of GET /health
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}
