package rest

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/feral-file/ff-ticketing/internal/api/shared/constants"
	"github.com/feral-file/ff-ticketing/internal/domain"
	"github.com/feral-file/ff-ticketing/internal/store"
)

// ListTicketsQueryParams holds query parameters for the ticket list endpoints
type ListTicketsQueryParams struct {
	// Filters
	Chains   []string `form:"chain"`
	Contract string   `form:"contract_address"`
	IsListed *bool    `form:"is_listed"`
	IsUsed   *bool    `form:"is_used"`

	// Pagination
	Limit  int `form:"limit,default=20"`
	Offset int `form:"offset,default=0"`
}

// ListListingsQueryParams holds query parameters for GET /listings
type ListListingsQueryParams struct {
	Chains   []string `form:"chain"`
	Contract string   `form:"contract_address"`
	TokenID  string   `form:"token_id"`
	Seller   string   `form:"seller"`
	Statuses []string `form:"status"`

	Limit  int `form:"limit,default=20"`
	Offset int `form:"offset,default=0"`
}

// ListTransactionsQueryParams holds query parameters for GET /transactions
type ListTransactionsQueryParams struct {
	Chains   []string `form:"chain"`
	Contract string   `form:"contract_address"`
	TokenID  string   `form:"token_id"`
	Address  string   `form:"address"`
	TxTypes  []string `form:"tx_type"`

	Limit  int `form:"limit,default=50"`
	Offset int `form:"offset,default=0"`
}

// splitValues accepts both repeated parameters and comma separated lists
func splitValues(values []string) []string {
	var result []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				result = append(result, part)
			}
		}
	}
	return result
}

func parseChainIDs(values []string) ([]domain.ChainID, error) {
	values = splitValues(values)
	if len(values) > constants.MAX_CHAIN_IDS_FILTER {
		return nil, fmt.Errorf("maximum %d chains allowed", constants.MAX_CHAIN_IDS_FILTER)
	}
	ids := make([]domain.ChainID, 0, len(values))
	for _, v := range values {
		id, err := domain.ParseChainID(v)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func parseContract(contract string) (string, error) {
	if contract == "" {
		return "", nil
	}
	if !domain.IsAddress(contract) {
		return "", fmt.Errorf("invalid contract address: %s", contract)
	}
	return domain.NormalizeAddress(contract), nil
}

func capPage(limit, offset int, def int) (int, int) {
	if limit <= 0 {
		limit = def
	}
	if limit > constants.MAX_PAGE_SIZE {
		limit = constants.MAX_PAGE_SIZE
	}
	if offset < 0 {
		offset = constants.DEFAULT_OFFSET
	}
	return limit, offset
}

// ParseTicketFilter parses query parameters for the ticket list endpoints
func ParseTicketFilter(c *gin.Context) (store.TicketFilter, error) {
	var params ListTicketsQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		return store.TicketFilter{}, err
	}

	chainIDs, err := parseChainIDs(params.Chains)
	if err != nil {
		return store.TicketFilter{}, err
	}
	contract, err := parseContract(params.Contract)
	if err != nil {
		return store.TicketFilter{}, err
	}

	limit, offset := capPage(params.Limit, params.Offset, constants.DEFAULT_TICKETS_LIMIT)
	return store.TicketFilter{
		ChainIDs:        chainIDs,
		ContractAddress: contract,
		IsListed:        params.IsListed,
		IsUsed:          params.IsUsed,
		Limit:           limit,
		Offset:          offset,
	}, nil
}

// ParseListingFilter parses query parameters for GET /listings
func ParseListingFilter(c *gin.Context) (store.ListingFilter, error) {
	var params ListListingsQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		return store.ListingFilter{}, err
	}

	chainIDs, err := parseChainIDs(params.Chains)
	if err != nil {
		return store.ListingFilter{}, err
	}
	contract, err := parseContract(params.Contract)
	if err != nil {
		return store.ListingFilter{}, err
	}

	var statuses []domain.ListingStatus
	for _, s := range splitValues(params.Statuses) {
		status := domain.ListingStatus(strings.ToLower(s))
		if !status.Valid() {
			return store.ListingFilter{}, fmt.Errorf("invalid listing status: %s", s)
		}
		statuses = append(statuses, status)
	}

	tokenID := params.TokenID
	if tokenID != "" {
		if tokenID, err = domain.NormalizeTokenID(tokenID); err != nil {
			return store.ListingFilter{}, err
		}
	}

	seller := params.Seller
	if seller != "" {
		if !domain.IsAddress(seller) {
			return store.ListingFilter{}, fmt.Errorf("invalid seller address: %s", seller)
		}
		seller = domain.NormalizeAddress(seller)
	}

	limit, offset := capPage(params.Limit, params.Offset, constants.DEFAULT_LISTINGS_LIMIT)
	return store.ListingFilter{
		ChainIDs:        chainIDs,
		ContractAddress: contract,
		TokenID:         tokenID,
		SellerAddress:   seller,
		Statuses:        statuses,
		Limit:           limit,
		Offset:          offset,
	}, nil
}

// ParseTransactionFilter parses query parameters for GET /transactions
func ParseTransactionFilter(c *gin.Context) (store.TransactionFilter, error) {
	var params ListTransactionsQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		return store.TransactionFilter{}, err
	}

	chainIDs, err := parseChainIDs(params.Chains)
	if err != nil {
		return store.TransactionFilter{}, err
	}
	contract, err := parseContract(params.Contract)
	if err != nil {
		return store.TransactionFilter{}, err
	}

	var txTypes []domain.TxType
	for _, t := range splitValues(params.TxTypes) {
		txType := domain.TxType(strings.ToLower(t))
		if !txType.Valid() {
			return store.TransactionFilter{}, fmt.Errorf("invalid tx type: %s", t)
		}
		txTypes = append(txTypes, txType)
	}

	tokenID := params.TokenID
	if tokenID != "" {
		if tokenID, err = domain.NormalizeTokenID(tokenID); err != nil {
			return store.TransactionFilter{}, err
		}
	}

	address := params.Address
	if address != "" {
		if !domain.IsAddress(address) {
			return store.TransactionFilter{}, fmt.Errorf("invalid address: %s", address)
		}
		address = domain.NormalizeAddress(address)
	}

	limit, offset := capPage(params.Limit, params.Offset, constants.DEFAULT_HISTORY_LIMIT)
	return store.TransactionFilter{
		ChainIDs:        chainIDs,
		ContractAddress: contract,
		TokenID:         tokenID,
		Address:         address,
		TxTypes:         txTypes,
		Limit:           limit,
		Offset:          offset,
	}, nil
}

// ParseTicketKey parses the :chain, :contract and :token path parameters
func ParseTicketKey(c *gin.Context) (domain.TicketKey, error) {
	chainID, err := domain.ParseChainID(c.Param("chain"))
	if err != nil {
		return domain.TicketKey{}, err
	}
	return domain.NewTicketKey(chainID, c.Param("contract"), c.Param("token"))
}

// parseBoolQuery reads an optional boolean query parameter
func parseBoolQuery(c *gin.Context, name string) (bool, error) {
	v := c.Query(name)
	if v == "" {
		return false, nil
	}
	return strconv.ParseBool(v)
}
