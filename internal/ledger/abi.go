package ledger

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// ticketingABI is the read/write surface of an event ticketing contract
const ticketingABI = `[
	{"type":"function","name":"verifyTicket","stateMutability":"view","inputs":[{"name":"tokenId","type":"uint256"}],"outputs":[{"name":"isValid","type":"bool"},{"name":"holder","type":"address"},{"name":"isUsed","type":"bool"}]},
	{"type":"function","name":"getTicketsByOwner","stateMutability":"view","inputs":[{"name":"owner","type":"address"}],"outputs":[{"name":"","type":"uint256[]"}]},
	{"type":"function","name":"ticketUsed","stateMutability":"view","inputs":[{"name":"tokenId","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]},
	{"type":"function","name":"ownerOf","stateMutability":"view","inputs":[{"name":"tokenId","type":"uint256"}],"outputs":[{"name":"","type":"address"}]},
	{"type":"function","name":"balanceOf","stateMutability":"view","inputs":[{"name":"owner","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"purchasePrice","stateMutability":"view","inputs":[{"name":"tokenId","type":"uint256"}],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"getActiveListing","stateMutability":"view","inputs":[{"name":"tokenId","type":"uint256"}],"outputs":[{"name":"listingId","type":"uint256"},{"name":"seller","type":"address"},{"name":"price","type":"uint256"},{"name":"active","type":"bool"}]},
	{"type":"function","name":"getEventDetails","stateMutability":"view","inputs":[],"outputs":[{"name":"name","type":"string"},{"name":"venue","type":"string"},{"name":"date","type":"uint256"}]},
	{"type":"function","name":"markAsUsed","stateMutability":"nonpayable","inputs":[{"name":"tokenId","type":"uint256"}],"outputs":[]},
	{"type":"function","name":"listForSale","stateMutability":"nonpayable","inputs":[{"name":"tokenId","type":"uint256"},{"name":"price","type":"uint256"}],"outputs":[]},
	{"type":"function","name":"cancelListing","stateMutability":"nonpayable","inputs":[{"name":"listingId","type":"uint256"}],"outputs":[]},
	{"type":"function","name":"safeTransferFrom","stateMutability":"nonpayable","inputs":[{"name":"from","type":"address"},{"name":"to","type":"address"},{"name":"tokenId","type":"uint256"}],"outputs":[]}
]`

const (
	methodVerifyTicket      = "verifyTicket"
	methodGetTicketsByOwner = "getTicketsByOwner"
	methodTicketUsed        = "ticketUsed"
	methodOwnerOf           = "ownerOf"
	methodBalanceOf         = "balanceOf"
	methodPurchasePrice     = "purchasePrice"
	methodGetActiveListing  = "getActiveListing"
	methodGetEventDetails   = "getEventDetails"
	methodMarkAsUsed        = "markAsUsed"
	methodListForSale       = "listForSale"
	methodCancelListing     = "cancelListing"
	methodSafeTransferFrom  = "safeTransferFrom"
)

var contractABI = mustParseABI(ticketingABI)

func mustParseABI(def string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(def))
	if err != nil {
		panic("failed to parse ticketing ABI: " + err.Error())
	}
	return parsed
}

// ContractABI returns the parsed ticketing ABI, used by tests to encode fake results
func ContractABI() abi.ABI {
	return contractABI
}
