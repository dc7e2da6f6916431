package ledger

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"github.com/feral-file/ff-ticketing/internal/adapter"
	"github.com/feral-file/ff-ticketing/internal/block"
	"github.com/feral-file/ff-ticketing/internal/domain"
	"github.com/feral-file/ff-ticketing/internal/logger"
	"github.com/feral-file/ff-ticketing/internal/metrics"
)

// TicketStatus is the result of verifyTicket
type TicketStatus struct {
	IsValid bool
	Holder  string
	IsUsed  bool
}

// ActiveListing is the marketplace listing currently open for a ticket
type ActiveListing struct {
	ListingID string
	Seller    string
	Price     string
}

// Receipt is a confirmed transaction
type Receipt struct {
	TxHash        string
	BlockNumber   uint64
	TxIndex       uint64
	Confirmations uint64
}

// Client is the read/write adapter to the ticketing contracts deployed on one chain
//
//go:generate mockgen -source=client.go -destination=../mocks/ledger_client.go -package=mocks -mock_names=Client=MockLedgerClient
type Client interface {
	// Chain returns the chain this client is bound to
	Chain() domain.Chain

	// TicketExists reports whether the ticket exists on this chain.
	// (false, nil) means the chain confirmed the ticket is absent; an error means the chain could not be asked.
	TicketExists(ctx context.Context, contractAddress, tokenID string) (bool, error)

	// VerifyTicket calls verifyTicket(tokenId). Returns domain.ErrTicketNotFound when the ticket does not exist.
	VerifyTicket(ctx context.Context, contractAddress, tokenID string) (*TicketStatus, error)

	// TicketUsed calls ticketUsed(tokenId)
	TicketUsed(ctx context.Context, contractAddress, tokenID string) (bool, error)

	// OwnerTickets calls getTicketsByOwner(owner) and returns decimal token ids
	OwnerTickets(ctx context.Context, contractAddress, ownerAddress string) ([]string, error)

	// OwnerOf calls ownerOf(tokenId)
	OwnerOf(ctx context.Context, contractAddress, tokenID string) (string, error)

	// BalanceOf calls balanceOf(owner)
	BalanceOf(ctx context.Context, contractAddress, ownerAddress string) (string, error)

	// ActiveListing calls getActiveListing(tokenId); nil when the ticket is not listed
	ActiveListing(ctx context.Context, contractAddress, tokenID string) (*ActiveListing, error)

	// PurchasePrice calls purchasePrice(tokenId)
	PurchasePrice(ctx context.Context, contractAddress, tokenID string) (string, error)

	// EventDetails calls getEventDetails()
	EventDetails(ctx context.Context, contractAddress string) (*domain.EventMetadata, error)

	// Snapshot reads everything the cache projects for one ticket
	Snapshot(ctx context.Context, key domain.TicketKey) (*domain.ChainTicketState, error)

	// MarkAsUsed sends markAsUsed(tokenId) and returns the transaction hash
	MarkAsUsed(ctx context.Context, contractAddress, tokenID string) (string, error)

	// ListForSale sends listForSale(tokenId, price) and returns the transaction hash
	ListForSale(ctx context.Context, contractAddress, tokenID, price string) (string, error)

	// CancelListing sends cancelListing(listingId) and returns the transaction hash
	CancelListing(ctx context.Context, contractAddress, listingID string) (string, error)

	// Transfer sends safeTransferFrom(from, to, tokenId) and returns the transaction hash
	Transfer(ctx context.Context, contractAddress, fromAddress, toAddress, tokenID string) (string, error)

	// WaitConfirmed blocks until the transaction is mined with the configured confirmation depth
	WaitConfirmed(ctx context.Context, txHash string) (*Receipt, error)

	// Close closes the underlying connection
	Close()
}

// Config holds the retry and confirmation settings of a ledger client
type Config struct {
	CallTimeout          time.Duration
	MaxRetries           uint64
	RetryInitialInterval time.Duration
	RetryMaxInterval     time.Duration
	Confirmations        uint64
	ReceiptPollInterval  time.Duration
	ReceiptTimeout       time.Duration
}

func (c Config) withDefaults() Config {
	if c.CallTimeout <= 0 {
		c.CallTimeout = 10 * time.Second
	}
	if c.RetryInitialInterval <= 0 {
		c.RetryInitialInterval = 250 * time.Millisecond
	}
	if c.RetryMaxInterval <= 0 {
		c.RetryMaxInterval = 3 * time.Second
	}
	if c.Confirmations == 0 {
		c.Confirmations = 1
	}
	if c.ReceiptPollInterval <= 0 {
		c.ReceiptPollInterval = 2 * time.Second
	}
	if c.ReceiptTimeout <= 0 {
		c.ReceiptTimeout = 2 * time.Minute
	}
	return c
}

type client struct {
	chain  domain.Chain
	client adapter.EthClient
	heads  block.BlockHeadProvider
	signer *Signer
	config Config

	// sendMu serializes nonce allocation for the signer account
	sendMu sync.Mutex
}

// NewClient creates a ledger client bound to one chain. signer may be nil for read-only clients.
func NewClient(chain domain.Chain, ethClient adapter.EthClient, heads block.BlockHeadProvider, signer *Signer, config Config) Client {
	return &client{
		chain:  chain,
		client: ethClient,
		heads:  heads,
		signer: signer,
		config: config.withDefaults(),
	}
}

func (c *client) Chain() domain.Chain {
	return c.chain
}

func (c *client) Close() {
	c.client.Close()
}

func (c *client) observe(method string, start time.Time, err error) {
	chain := c.chain.ID.String()
	outcome := "ok"
	switch {
	case err == nil:
	case errors.Is(err, ErrExecutionReverted), errors.Is(err, ErrNoContract):
		outcome = "reverted"
	default:
		outcome = "error"
	}
	metrics.RPCCallsTotal.WithLabelValues(chain, method, outcome).Inc()
	metrics.RPCLatency.WithLabelValues(chain, method).Observe(time.Since(start).Seconds())
}

// call packs, executes and unpacks a read-only contract call
func (c *client) call(ctx context.Context, contractAddress string, method string, args ...interface{}) ([]interface{}, error) {
	if !common.IsHexAddress(contractAddress) {
		return nil, fmt.Errorf("%w: invalid contract address %q", domain.ErrInvalidTicketKey, contractAddress)
	}
	data, err := contractABI.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to pack %s: %w", method, err)
	}

	to := common.HexToAddress(contractAddress)
	output, err := withRetry(ctx, c, method, func(ctx context.Context) ([]byte, error) {
		return c.client.CallContract(ctx, ethereum.CallMsg{
			To:   &to,
			Data: data,
		}, nil)
	})
	if err != nil {
		return nil, err
	}
	if len(output) == 0 {
		return nil, fmt.Errorf("%w: %s on chain %d", ErrNoContract, to.Hex(), c.chain.ID)
	}

	values, err := contractABI.Unpack(method, output)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack %s: %w", method, err)
	}
	return values, nil
}

func parseTokenID(tokenID string) (*big.Int, error) {
	normalized, err := domain.NormalizeTokenID(tokenID)
	if err != nil {
		return nil, err
	}
	n, _ := new(big.Int).SetString(normalized, 10)
	return n, nil
}

func parseAmount(amount string) (*big.Int, error) {
	n, ok := new(big.Int).SetString(amount, 10)
	if !ok || n.Sign() < 0 {
		return nil, fmt.Errorf("invalid amount: %s", amount)
	}
	return n, nil
}

// absent reports whether a read error means the ticket does not exist on this chain
func absent(err error) bool {
	return errors.Is(err, ErrExecutionReverted) || errors.Is(err, ErrNoContract)
}

func (c *client) TicketExists(ctx context.Context, contractAddress, tokenID string) (bool, error) {
	_, err := c.VerifyTicket(ctx, contractAddress, tokenID)
	if errors.Is(err, domain.ErrTicketNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (c *client) VerifyTicket(ctx context.Context, contractAddress, tokenID string) (*TicketStatus, error) {
	id, err := parseTokenID(tokenID)
	if err != nil {
		return nil, err
	}

	values, err := c.call(ctx, contractAddress, methodVerifyTicket, id)
	if err != nil {
		if absent(err) {
			return nil, fmt.Errorf("%w: %s/%s on chain %d: %w", domain.ErrTicketNotFound, contractAddress, tokenID, c.chain.ID, err)
		}
		return nil, err
	}

	isValid, _ := values[0].(bool)
	holder, _ := values[1].(common.Address)
	isUsed, _ := values[2].(bool)
	if holder == (common.Address{}) {
		return nil, fmt.Errorf("%w: %s/%s has no holder on chain %d", domain.ErrTicketNotFound, contractAddress, tokenID, c.chain.ID)
	}

	return &TicketStatus{
		IsValid: isValid,
		Holder:  holder.Hex(),
		IsUsed:  isUsed,
	}, nil
}

func (c *client) TicketUsed(ctx context.Context, contractAddress, tokenID string) (bool, error) {
	id, err := parseTokenID(tokenID)
	if err != nil {
		return false, err
	}
	values, err := c.call(ctx, contractAddress, methodTicketUsed, id)
	if err != nil {
		return false, err
	}
	used, _ := values[0].(bool)
	return used, nil
}

func (c *client) OwnerTickets(ctx context.Context, contractAddress, ownerAddress string) ([]string, error) {
	if !common.IsHexAddress(ownerAddress) {
		return nil, fmt.Errorf("invalid owner address: %s", ownerAddress)
	}
	values, err := c.call(ctx, contractAddress, methodGetTicketsByOwner, common.HexToAddress(ownerAddress))
	if err != nil {
		return nil, err
	}

	ids, _ := values[0].([]*big.Int)
	tokenIDs := make([]string, 0, len(ids))
	for _, id := range ids {
		tokenIDs = append(tokenIDs, id.String())
	}
	return tokenIDs, nil
}

func (c *client) OwnerOf(ctx context.Context, contractAddress, tokenID string) (string, error) {
	id, err := parseTokenID(tokenID)
	if err != nil {
		return "", err
	}
	values, err := c.call(ctx, contractAddress, methodOwnerOf, id)
	if err != nil {
		return "", err
	}
	owner, _ := values[0].(common.Address)
	return owner.Hex(), nil
}

func (c *client) BalanceOf(ctx context.Context, contractAddress, ownerAddress string) (string, error) {
	if !common.IsHexAddress(ownerAddress) {
		return "", fmt.Errorf("invalid owner address: %s", ownerAddress)
	}
	values, err := c.call(ctx, contractAddress, methodBalanceOf, common.HexToAddress(ownerAddress))
	if err != nil {
		return "", err
	}
	balance, _ := values[0].(*big.Int)
	if balance == nil {
		return "0", nil
	}
	return balance.String(), nil
}

func (c *client) ActiveListing(ctx context.Context, contractAddress, tokenID string) (*ActiveListing, error) {
	id, err := parseTokenID(tokenID)
	if err != nil {
		return nil, err
	}
	values, err := c.call(ctx, contractAddress, methodGetActiveListing, id)
	if err != nil {
		if errors.Is(err, ErrExecutionReverted) {
			return nil, nil
		}
		return nil, err
	}

	listingID, _ := values[0].(*big.Int)
	seller, _ := values[1].(common.Address)
	price, _ := values[2].(*big.Int)
	active, _ := values[3].(bool)
	if !active || listingID == nil {
		return nil, nil
	}

	listing := &ActiveListing{
		ListingID: listingID.String(),
		Seller:    seller.Hex(),
		Price:     "0",
	}
	if price != nil {
		listing.Price = price.String()
	}
	return listing, nil
}

func (c *client) PurchasePrice(ctx context.Context, contractAddress, tokenID string) (string, error) {
	id, err := parseTokenID(tokenID)
	if err != nil {
		return "", err
	}
	values, err := c.call(ctx, contractAddress, methodPurchasePrice, id)
	if err != nil {
		if errors.Is(err, ErrExecutionReverted) {
			return "0", nil
		}
		return "", err
	}
	price, _ := values[0].(*big.Int)
	if price == nil {
		return "0", nil
	}
	return price.String(), nil
}

func (c *client) EventDetails(ctx context.Context, contractAddress string) (*domain.EventMetadata, error) {
	values, err := c.call(ctx, contractAddress, methodGetEventDetails)
	if err != nil {
		return nil, err
	}

	name, _ := values[0].(string)
	venue, _ := values[1].(string)
	date, _ := values[2].(*big.Int)

	metadata := &domain.EventMetadata{
		Name:  name,
		Venue: venue,
	}
	if date != nil && date.IsInt64() && date.Sign() > 0 {
		metadata.Date = time.Unix(date.Int64(), 0).UTC()
	}
	return metadata, nil
}

func (c *client) Snapshot(ctx context.Context, key domain.TicketKey) (*domain.ChainTicketState, error) {
	if key.ChainID != c.chain.ID {
		return nil, fmt.Errorf("%w: key for chain %d sent to chain %d", domain.ErrInvalidTicketKey, key.ChainID, c.chain.ID)
	}

	// Head first so the snapshot block is a lower bound of the state read below
	head, err := c.heads.GetLatestBlock(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrChainUnreachable, err)
	}

	state := &domain.ChainTicketState{
		Key:         key,
		BlockNumber: head,
	}

	status, err := c.VerifyTicket(ctx, key.ContractAddress, key.TokenID)
	if errors.Is(err, domain.ErrTicketNotFound) {
		return state, nil
	}
	if err != nil {
		return nil, err
	}
	state.Exists = true
	state.Holder = status.Holder
	state.IsUsed = status.IsUsed

	listing, err := c.ActiveListing(ctx, key.ContractAddress, key.TokenID)
	if err != nil {
		return nil, err
	}
	if listing != nil {
		state.IsListed = true
		state.ListingID = &listing.ListingID
		state.ListingPrice = &listing.Price
		state.ListingSeller = &listing.Seller
	}

	price, err := c.PurchasePrice(ctx, key.ContractAddress, key.TokenID)
	if err != nil {
		return nil, err
	}
	state.PurchasePrice = price

	return state, nil
}

func (c *client) MarkAsUsed(ctx context.Context, contractAddress, tokenID string) (string, error) {
	id, err := parseTokenID(tokenID)
	if err != nil {
		return "", err
	}
	return c.send(ctx, contractAddress, methodMarkAsUsed, id)
}

func (c *client) ListForSale(ctx context.Context, contractAddress, tokenID, price string) (string, error) {
	id, err := parseTokenID(tokenID)
	if err != nil {
		return "", err
	}
	amount, err := parseAmount(price)
	if err != nil {
		return "", err
	}
	return c.send(ctx, contractAddress, methodListForSale, id, amount)
}

func (c *client) CancelListing(ctx context.Context, contractAddress, listingID string) (string, error) {
	id, err := parseAmount(listingID)
	if err != nil {
		return "", fmt.Errorf("invalid listing id: %w", err)
	}
	return c.send(ctx, contractAddress, methodCancelListing, id)
}

func (c *client) Transfer(ctx context.Context, contractAddress, fromAddress, toAddress, tokenID string) (string, error) {
	if !common.IsHexAddress(fromAddress) || !common.IsHexAddress(toAddress) {
		return "", fmt.Errorf("invalid transfer addresses: %s -> %s", fromAddress, toAddress)
	}
	id, err := parseTokenID(tokenID)
	if err != nil {
		return "", err
	}
	return c.send(ctx, contractAddress, methodSafeTransferFrom, common.HexToAddress(fromAddress), common.HexToAddress(toAddress), id)
}

// send signs and broadcasts a contract write. The broadcast itself is never retried.
func (c *client) send(ctx context.Context, contractAddress string, method string, args ...interface{}) (string, error) {
	if c.signer == nil {
		return "", domain.ErrSignerNotConfigured
	}
	if !common.IsHexAddress(contractAddress) {
		return "", fmt.Errorf("%w: invalid contract address %q", domain.ErrInvalidTicketKey, contractAddress)
	}
	data, err := contractABI.Pack(method, args...)
	if err != nil {
		return "", fmt.Errorf("failed to pack %s: %w", method, err)
	}

	to := common.HexToAddress(contractAddress)
	from := c.signer.Address()

	c.sendMu.Lock()
	defer c.sendMu.Unlock()

	gas, err := withRetry(ctx, c, method+".estimateGas", func(ctx context.Context) (uint64, error) {
		return c.client.EstimateGas(ctx, ethereum.CallMsg{From: from, To: &to, Data: data})
	})
	if err != nil {
		return "", fmt.Errorf("failed to estimate gas for %s: %w", method, err)
	}
	gasPrice, err := withRetry(ctx, c, "eth_gasPrice", func(ctx context.Context) (*big.Int, error) {
		return c.client.SuggestGasPrice(ctx)
	})
	if err != nil {
		return "", fmt.Errorf("failed to get gas price: %w", err)
	}
	nonce, err := withRetry(ctx, c, "eth_getTransactionCount", func(ctx context.Context) (uint64, error) {
		return c.client.PendingNonceAt(ctx, from)
	})
	if err != nil {
		return "", fmt.Errorf("failed to get nonce: %w", err)
	}

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		To:       &to,
		Gas:      gas + gas/5, // 20% headroom over the estimate
		GasPrice: gasPrice,
		Data:     data,
	})
	signed, err := c.signer.Sign(tx, new(big.Int).SetUint64(uint64(c.chain.ID)))
	if err != nil {
		return "", fmt.Errorf("failed to sign %s: %w", method, err)
	}

	sendCtx, cancel := context.WithTimeout(ctx, c.config.CallTimeout)
	defer cancel()
	start := time.Now()
	err = c.client.SendTransaction(sendCtx, signed)
	c.observe(method, start, classifyForMetrics(err))
	if err != nil {
		if isRevertError(err) {
			return "", fmt.Errorf("%w: %s: %v", ErrExecutionReverted, method, err)
		}
		return "", fmt.Errorf("%w: chain %d failed to send %s: %w", domain.ErrChainUnreachable, c.chain.ID, method, err)
	}

	txHash := signed.Hash().Hex()
	logger.InfoCtx(ctx, "Sent contract transaction",
		logger.ChainID(c.chain.ID),
		zap.String("method", method),
		zap.String("contract", to.Hex()),
		zap.String("tx_hash", txHash),
		zap.Uint64("nonce", nonce),
	)
	return txHash, nil
}

func classifyForMetrics(err error) error {
	if isRevertError(err) {
		return ErrExecutionReverted
	}
	return err
}

func (c *client) WaitConfirmed(ctx context.Context, txHash string) (*Receipt, error) {
	hash := common.HexToHash(txHash)

	ctx, cancel := context.WithTimeout(ctx, c.config.ReceiptTimeout)
	defer cancel()

	b := backoff.WithContext(backoff.NewConstantBackOff(c.config.ReceiptPollInterval), ctx)
	receipt, err := backoff.RetryWithData(func() (*Receipt, error) {
		r, err := c.client.TransactionReceipt(ctx, hash)
		if err != nil {
			// ethereum.NotFound while the transaction is pending
			return nil, err
		}
		if r.Status != types.ReceiptStatusSuccessful {
			return nil, backoff.Permanent(fmt.Errorf("%w: %s", ErrTransactionFailed, txHash))
		}
		if r.BlockNumber == nil {
			return nil, errNotYetConfirmed
		}

		confirmations, err := c.heads.Confirmations(ctx, r.BlockNumber.Uint64())
		if err != nil {
			return nil, err
		}
		if confirmations < c.config.Confirmations {
			return nil, errNotYetConfirmed
		}

		return &Receipt{
			TxHash:        txHash,
			BlockNumber:   r.BlockNumber.Uint64(),
			TxIndex:       uint64(r.TransactionIndex),
			Confirmations: confirmations,
		}, nil
	}, b)
	if err != nil {
		if errors.Is(err, ErrTransactionFailed) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: chain %d waiting for %s: %w", domain.ErrChainUnreachable, c.chain.ID, txHash, err)
	}

	logger.DebugCtx(ctx, "Transaction confirmed",
		logger.ChainID(c.chain.ID),
		zap.String("tx_hash", txHash),
		zap.Uint64("block_number", receipt.BlockNumber),
		zap.Uint64("confirmations", receipt.Confirmations),
	)
	return receipt, nil
}
