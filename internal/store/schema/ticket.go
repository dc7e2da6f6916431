package schema

import "time"

// Ticket represents the tickets table - the cache projection of a ticket's on-chain state.
// Rows are rebuildable from the chain at any time.
type Ticket struct {
	// ID is the internal database primary key
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	// ChainID is the EVM chain hosting the ticket contract
	ChainID uint64 `gorm:"column:chain_id;not null;uniqueIndex:idx_tickets_key"`
	// EventContractAddress is the checksummed address of the event's ticket contract
	EventContractAddress string `gorm:"column:event_contract_address;not null;type:text;uniqueIndex:idx_tickets_key"`
	// TokenID is the token id within the contract (stored as numeric to support uint256)
	TokenID string `gorm:"column:token_id;not null;type:numeric(78,0);uniqueIndex:idx_tickets_key"`
	// OwnerAddress is the checksummed address of the current holder
	OwnerAddress string `gorm:"column:owner_address;not null;type:text;index:idx_tickets_owner"`
	// IsUsed is set once the ticket was checked in; it never goes back to false
	IsUsed bool `gorm:"column:is_used;not null;default:false"`
	// IsListed mirrors whether an active marketplace listing exists
	IsListed bool `gorm:"column:is_listed;not null;default:false"`
	// ListingID is the active listing, nil when not listed
	ListingID *string `gorm:"column:listing_id;type:numeric(78,0)"`
	// PurchasePrice is the primary sale price in the chain's smallest unit
	PurchasePrice string `gorm:"column:purchase_price;not null;type:numeric(78,0);default:0"`
	// LastBlockNumber and LastTxIndex are the confirmation position of the last projected mutation
	LastBlockNumber *uint64 `gorm:"column:last_block_number;type:bigint"`
	LastTxIndex     *uint64 `gorm:"column:last_tx_index;type:bigint"`
	// NeedsReconcile flags rows whose projection could not be trusted (e.g. transferred while listed)
	NeedsReconcile bool `gorm:"column:needs_reconcile;not null;default:false"`
	// SyncedAt is the last time the row was confirmed against the chain or a confirmed mutation
	SyncedAt time.Time `gorm:"column:synced_at;not null;default:now();type:timestamptz"`
	// CreatedAt is the timestamp when this record was created
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	// UpdatedAt is the timestamp when this record was last updated
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the Ticket model
func (Ticket) TableName() string {
	return "tickets"
}
