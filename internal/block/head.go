package block

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/feral-file/ff-ticketing/internal/adapter"
	"github.com/feral-file/ff-ticketing/internal/domain"
	"github.com/feral-file/ff-ticketing/internal/logger"
)

// BlockInfo represents cached block information
type BlockInfo struct {
	Number    uint64
	Timestamp time.Time
}

// BlockHeadProvider provides cached access to the latest block of one chain.
// Confirmation polling asks for the head on every receipt check, so the head is
// cached for a short TTL to keep RPC usage flat.
//
//go:generate mockgen -source=head.go -destination=../mocks/block_head_provider.go -package=mocks -mock_names=BlockHeadProvider=MockBlockHeadProvider
type BlockHeadProvider interface {
	// GetLatestBlock returns the latest block number, potentially from cache
	GetLatestBlock(ctx context.Context) (uint64, error)

	// Confirmations returns how many blocks have been built on top of (and including) the given block
	Confirmations(ctx context.Context, blockNumber uint64) (uint64, error)
}

// BlockFetcher is the interface for fetching the latest block from the blockchain
//
//go:generate mockgen -source=head.go -destination=../mocks/block_head_provider.go -package=mocks -mock_names=BlockFetcher=MockBlockFetcher
type BlockFetcher interface {
	// FetchLatestBlock fetches the latest block from the blockchain
	FetchLatestBlock(ctx context.Context) (uint64, error)
}

// Config holds configuration for the BlockHeadProvider
type Config struct {
	// TTL is how long to cache the block number
	TTL time.Duration

	// StaleWindow is how long to use stale data if fetching fails
	// If the cached data is older than this and fetch fails, return error
	StaleWindow time.Duration
}

// blockHeadProvider implements BlockHeadProvider with TTL-based caching
type blockHeadProvider struct {
	chainID domain.ChainID
	fetcher BlockFetcher
	config  Config
	clock   adapter.Clock

	mu        sync.RWMutex
	blockInfo *BlockInfo
}

// NewBlockHeadProvider creates a new BlockHeadProvider with caching
func NewBlockHeadProvider(chainID domain.ChainID, fetcher BlockFetcher, config Config, clock adapter.Clock) BlockHeadProvider {
	return &blockHeadProvider{
		chainID: chainID,
		fetcher: fetcher,
		config:  config,
		clock:   clock,
	}
}

// GetLatestBlock returns the latest block number, using cache if valid
func (p *blockHeadProvider) GetLatestBlock(ctx context.Context) (uint64, error) {
	p.mu.RLock()
	cached := p.blockInfo
	p.mu.RUnlock()

	now := p.clock.Now()

	if cached != nil && now.Sub(cached.Timestamp) < p.config.TTL {
		logger.DebugCtx(ctx, "Using cached block number", logger.ChainID(p.chainID), zap.Uint64("block_number", cached.Number))
		return cached.Number, nil
	}

	blockNumber, err := p.fetcher.FetchLatestBlock(ctx)
	if err != nil {
		if cached != nil && now.Sub(cached.Timestamp) < p.config.StaleWindow {
			logger.DebugCtx(ctx, "Using stale block number", logger.ChainID(p.chainID), zap.Uint64("block_number", cached.Number))
			return cached.Number, nil
		}
		return 0, fmt.Errorf("failed to fetch latest block and no valid cache available: %w", err)
	}

	p.mu.Lock()
	// Never move the cached head backwards when a lagging RPC node answers
	if p.blockInfo == nil || blockNumber >= p.blockInfo.Number {
		p.blockInfo = &BlockInfo{
			Number:    blockNumber,
			Timestamp: now,
		}
	}
	head := p.blockInfo.Number
	p.mu.Unlock()

	return head, nil
}

// Confirmations returns the confirmation depth of a block
func (p *blockHeadProvider) Confirmations(ctx context.Context, blockNumber uint64) (uint64, error) {
	head, err := p.GetLatestBlock(ctx)
	if err != nil {
		return 0, err
	}
	if head < blockNumber {
		return 0, nil
	}
	return head - blockNumber + 1, nil
}

// ethBlockFetcher fetches the head through an EVM JSON-RPC client
type ethBlockFetcher struct {
	client adapter.EthClient
}

// NewEthBlockFetcher creates a BlockFetcher backed by an EVM client
func NewEthBlockFetcher(client adapter.EthClient) BlockFetcher {
	return &ethBlockFetcher{client: client}
}

// FetchLatestBlock fetches the latest block number
func (f *ethBlockFetcher) FetchLatestBlock(ctx context.Context) (uint64, error) {
	return f.client.BlockNumber(ctx)
}
