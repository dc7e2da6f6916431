package store

import (
	"github.com/feral-file/ff-ticketing/internal/domain"
	"github.com/feral-file/ff-ticketing/internal/store/schema"
)

func ticketKey(chainID uint64, contract string, tokenID string) domain.TicketKey {
	return domain.TicketKey{
		ChainID:         domain.ChainID(chainID),
		ContractAddress: contract,
		TokenID:         tokenID,
	}
}

// toDomainTicket maps a tickets row to the domain projection
func toDomainTicket(row *schema.Ticket) *domain.Ticket {
	if row == nil {
		return nil
	}
	createdAt := row.CreatedAt
	return &domain.Ticket{
		Key:            ticketKey(row.ChainID, row.EventContractAddress, row.TokenID),
		OwnerAddress:   row.OwnerAddress,
		IsUsed:         row.IsUsed,
		IsListed:       row.IsListed,
		ListingID:      row.ListingID,
		PurchasePrice:  row.PurchasePrice,
		LastBlock:      row.LastBlockNumber,
		LastTxIndex:    row.LastTxIndex,
		NeedsReconcile: row.NeedsReconcile,
		SyncedAt:       row.SyncedAt,
		CreatedAt:      &createdAt,
	}
}

// toSchemaTicket maps a domain ticket to a tickets row (without id and timestamps)
func toSchemaTicket(t *domain.Ticket) *schema.Ticket {
	purchasePrice := t.PurchasePrice
	if purchasePrice == "" {
		purchasePrice = "0"
	}
	return &schema.Ticket{
		ChainID:              uint64(t.Key.ChainID),
		EventContractAddress: t.Key.ContractAddress,
		TokenID:              t.Key.TokenID,
		OwnerAddress:         t.OwnerAddress,
		IsUsed:               t.IsUsed,
		IsListed:             t.IsListed,
		ListingID:            t.ListingID,
		PurchasePrice:        purchasePrice,
		LastBlockNumber:      t.LastBlock,
		LastTxIndex:          t.LastTxIndex,
		NeedsReconcile:       t.NeedsReconcile,
		SyncedAt:             t.SyncedAt,
	}
}

func toDomainListing(row *schema.MarketplaceListing) *domain.Listing {
	if row == nil {
		return nil
	}
	return &domain.Listing{
		ListingID:     row.ListingID,
		Key:           ticketKey(row.ChainID, row.EventContractAddress, row.TokenID),
		SellerAddress: row.SellerAddress,
		Price:         row.Price,
		Status:        row.Status,
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}
}

func toDomainTransaction(row *schema.Transaction) domain.Transaction {
	return domain.Transaction{
		ID:          row.ID,
		TxHash:      row.TxHash,
		TxType:      row.TxType,
		Key:         ticketKey(row.ChainID, row.EventContractAddress, row.TokenID),
		UserAddress: row.UserAddress,
		FromAddress: row.FromAddress,
		ToAddress:   row.ToAddress,
		Amount:      row.Amount,
		BlockNumber: row.BlockNumber,
		TxIndex:     row.TxIndex,
		Timestamp:   row.TxTimestamp,
	}
}

func chainIDs(ids []domain.ChainID) []uint64 {
	out := make([]uint64, 0, len(ids))
	for _, id := range ids {
		out = append(out, uint64(id))
	}
	return out
}
