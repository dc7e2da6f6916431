package dto

import (
	"github.com/feral-file/ff-ticketing/internal/domain"
	"github.com/feral-file/ff-ticketing/internal/store"
	"github.com/feral-file/ff-ticketing/internal/syncer"
)

// MapTicketToDTO maps a cached ticket to its API view
func MapTicketToDTO(t *domain.Ticket, source string) *TicketResponse {
	if t == nil {
		return nil
	}
	return &TicketResponse{
		ChainID:         uint64(t.Key.ChainID),
		ContractAddress: t.Key.ContractAddress,
		TokenID:         t.Key.TokenID,
		OwnerAddress:    t.OwnerAddress,
		IsUsed:          t.IsUsed,
		IsListed:        t.IsListed,
		ListingID:       t.ListingID,
		PurchasePrice:   t.PurchasePrice,
		LastBlock:       t.LastBlock,
		NeedsReconcile:  t.NeedsReconcile,
		SyncedAt:        t.SyncedAt,
		Source:          source,
	}
}

// MapTicketPageToDTO maps a page of tickets
func MapTicketPageToDTO(page *store.Page[domain.Ticket]) *TicketListResponse {
	resp := &TicketListResponse{
		Tickets:    make([]TicketResponse, 0, len(page.Items)),
		Total:      page.Total,
		NextOffset: page.NextOffset,
	}
	for i := range page.Items {
		resp.Tickets = append(resp.Tickets, *MapTicketToDTO(&page.Items[i], ""))
	}
	return resp
}

// MapListingPageToDTO maps a page of listings
func MapListingPageToDTO(page *store.Page[domain.Listing]) *ListingListResponse {
	resp := &ListingListResponse{
		Listings:   make([]ListingResponse, 0, len(page.Items)),
		Total:      page.Total,
		NextOffset: page.NextOffset,
	}
	for _, l := range page.Items {
		resp.Listings = append(resp.Listings, ListingResponse{
			ListingID:       l.ListingID,
			ChainID:         uint64(l.Key.ChainID),
			ContractAddress: l.Key.ContractAddress,
			TokenID:         l.Key.TokenID,
			SellerAddress:   l.SellerAddress,
			Price:           l.Price,
			Status:          string(l.Status),
			CreatedAt:       l.CreatedAt,
			UpdatedAt:       l.UpdatedAt,
		})
	}
	return resp
}

// MapTransactionPageToDTO maps a page of history. txURL builds explorer links and may be nil.
func MapTransactionPageToDTO(page *store.Page[domain.Transaction], txURL func(domain.ChainID, string) string) *TransactionListResponse {
	resp := &TransactionListResponse{
		Transactions: make([]TransactionResponse, 0, len(page.Items)),
		Total:        page.Total,
		NextOffset:   page.NextOffset,
	}
	for _, tx := range page.Items {
		item := TransactionResponse{
			TxHash:          tx.TxHash,
			TxType:          string(tx.TxType),
			ChainID:         uint64(tx.Key.ChainID),
			ContractAddress: tx.Key.ContractAddress,
			TokenID:         tx.Key.TokenID,
			UserAddress:     tx.UserAddress,
			FromAddress:     tx.FromAddress,
			ToAddress:       tx.ToAddress,
			Amount:          tx.Amount,
			BlockNumber:     tx.BlockNumber,
			Timestamp:       tx.Timestamp,
		}
		if txURL != nil {
			item.TxURL = txURL(tx.Key.ChainID, tx.TxHash)
		}
		resp.Transactions = append(resp.Transactions, item)
	}
	return resp
}

// MapSyncResultToDTO maps what the sync engine did with a mutation
func MapSyncResultToDTO(r *syncer.SyncResult) *SyncResponse {
	if r == nil {
		return nil
	}
	return &SyncResponse{
		MutationID: r.MutationID,
		Status:     string(r.Status),
		Reason:     r.Reason,
		Reconcile:  r.Reconcile,
		Ticket:     MapTicketToDTO(r.Ticket, ""),
	}
}

// MapChainToDTO maps a registry entry
func MapChainToDTO(c domain.Chain) ChainResponse {
	return ChainResponse{
		ChainID:              uint64(c.ID),
		Name:                 c.Name,
		ExplorerURL:          c.ExplorerURL,
		NativeCurrencySymbol: c.NativeCurrencySymbol,
	}
}
