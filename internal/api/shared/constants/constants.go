package constants

const (
	MAX_PAGE_SIZE          = 100
	DEFAULT_OFFSET         = 0
	DEFAULT_TICKETS_LIMIT  = 20
	DEFAULT_LISTINGS_LIMIT = 20
	DEFAULT_HISTORY_LIMIT  = 50
	MAX_CHAIN_IDS_FILTER   = 10
	MAX_QR_PAYLOAD_LENGTH  = 2048
)
