package logger

import (
	"go.uber.org/zap"

	"github.com/feral-file/ff-ticketing/internal/domain"
)

// TicketKey returns a zap field for a ticket key
func TicketKey(key domain.TicketKey) zap.Field {
	return zap.String("ticket_key", key.String())
}

// ChainID returns a zap field for a chain id
func ChainID(id domain.ChainID) zap.Field {
	return zap.Uint64("chain_id", uint64(id))
}

// Mutation returns the fields identifying a mutation record
func Mutation(m *domain.Mutation) []zap.Field {
	fields := []zap.Field{
		TicketKey(m.Key),
		zap.String("tx_type", string(m.TxType)),
		zap.String("tx_hash", m.TxHash),
	}
	if m.BlockNumber != nil {
		fields = append(fields, zap.Uint64("block_number", *m.BlockNumber))
	}
	if m.TxIndex != nil {
		fields = append(fields, zap.Uint64("tx_index", *m.TxIndex))
	}
	return fields
}
