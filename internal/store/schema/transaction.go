package schema

import (
	"time"

	"gorm.io/datatypes"

	"github.com/feral-file/ff-ticketing/internal/domain"
)

// Transaction represents the transactions table - the append-only audit trail of confirmed mutations.
// (chain_id, event_contract_address, token_id, tx_type, tx_hash) is unique so replays insert nothing.
type Transaction struct {
	// ID is the internal database primary key
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	// TxHash is the confirmed transaction hash
	TxHash string `gorm:"column:tx_hash;not null;type:text;uniqueIndex:idx_transactions_identity"`
	// TxType is one of purchase, sale, listing, transfer, cancel, use
	TxType domain.TxType `gorm:"column:tx_type;not null;type:text;uniqueIndex:idx_transactions_identity"`
	// ChainID, EventContractAddress and TokenID identify the ticket
	ChainID              uint64 `gorm:"column:chain_id;not null;uniqueIndex:idx_transactions_identity"`
	EventContractAddress string `gorm:"column:event_contract_address;not null;type:text;uniqueIndex:idx_transactions_identity"`
	TokenID              string `gorm:"column:token_id;not null;type:numeric(78,0);uniqueIndex:idx_transactions_identity"`
	// UserAddress is the account that initiated the mutation
	UserAddress string `gorm:"column:user_address;not null;type:text"`
	// FromAddress is the previous holder (sale, transfer)
	FromAddress *string `gorm:"column:from_address;type:text"`
	// ToAddress is the new holder (transfer)
	ToAddress *string `gorm:"column:to_address;type:text"`
	// Amount is the price involved, if any
	Amount *string `gorm:"column:amount;type:numeric(78,0)"`
	// BlockNumber and TxIndex are the confirmation position when known
	BlockNumber *uint64 `gorm:"column:block_number;type:bigint"`
	TxIndex     *uint64 `gorm:"column:tx_index;type:bigint"`
	// TxTimestamp is when the mutation was confirmed
	TxTimestamp time.Time `gorm:"column:tx_timestamp;not null;type:timestamptz"`
	// Raw contains the complete mutation record as JSON
	Raw datatypes.JSON `gorm:"column:raw;type:jsonb"`
	// CreatedAt is the timestamp when this record was indexed
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the Transaction model
func (Transaction) TableName() string {
	return "transactions"
}
