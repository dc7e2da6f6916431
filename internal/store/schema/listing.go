package schema

import (
	"time"

	"github.com/feral-file/ff-ticketing/internal/domain"
)

// MarketplaceListing represents the marketplace_listings table.
// At most one row per ticket may be active (partial unique index idx_listings_one_active).
type MarketplaceListing struct {
	// ID is the internal database primary key
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	// ListingID is the contract's listing id
	ListingID string `gorm:"column:listing_id;not null;type:numeric(78,0);uniqueIndex:idx_listings_listing_id"`
	// ChainID, EventContractAddress and TokenID identify the listed ticket
	ChainID              uint64 `gorm:"column:chain_id;not null;uniqueIndex:idx_listings_listing_id"`
	EventContractAddress string `gorm:"column:event_contract_address;not null;type:text;uniqueIndex:idx_listings_listing_id"`
	TokenID              string `gorm:"column:token_id;not null;type:numeric(78,0)"`
	// SellerAddress is the checksummed address of the seller
	SellerAddress string `gorm:"column:seller_address;not null;type:text;index:idx_listings_seller"`
	// Price is the asking price in the chain's smallest unit
	Price string `gorm:"column:price;not null;type:numeric(78,0)"`
	// Status is one of active, sold or cancelled
	Status domain.ListingStatus `gorm:"column:status;not null;type:text"`
	// CreatedAt is the timestamp when this record was created
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	// UpdatedAt is the timestamp when this record was last updated
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the MarketplaceListing model
func (MarketplaceListing) TableName() string {
	return "marketplace_listings"
}
