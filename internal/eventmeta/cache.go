package eventmeta

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/feral-file/ff-ticketing/internal/adapter"
	"github.com/feral-file/ff-ticketing/internal/domain"
	"github.com/feral-file/ff-ticketing/internal/ledger"
	"github.com/feral-file/ff-ticketing/internal/logger"
)

const keyPrefix = "ticketing:event"

// Cache serves event details of ticket contracts, caching getEventDetails() reads in Redis
//
//go:generate mockgen -source=cache.go -destination=../mocks/event_metadata_cache.go -package=mocks -mock_names=Cache=MockEventMetadataCache
type Cache interface {
	// Get returns the event details of a contract, reading the chain on a cache miss
	Get(ctx context.Context, client ledger.Client, contractAddress string) (*domain.EventMetadata, error)
}

type cache struct {
	redis adapter.RedisClient
	json  adapter.JSON
	ttl   time.Duration
}

// NewCache creates an event metadata cache. A nil redis client disables caching.
func NewCache(redis adapter.RedisClient, json adapter.JSON, ttl time.Duration) Cache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &cache{
		redis: redis,
		json:  json,
		ttl:   ttl,
	}
}

func cacheKey(chainID domain.ChainID, contractAddress string) string {
	return fmt.Sprintf("%s:%d:%s", keyPrefix, chainID, domain.NormalizeAddress(contractAddress))
}

func (c *cache) Get(ctx context.Context, client ledger.Client, contractAddress string) (*domain.EventMetadata, error) {
	key := cacheKey(client.Chain().ID, contractAddress)

	if c.redis != nil {
		data, found, err := c.redis.Get(ctx, key)
		switch {
		case err != nil:
			// Redis is an optimisation only
			logger.WarnCtx(ctx, "Failed to read event metadata cache", zap.String("key", key), zap.Error(err))
		case found:
			var metadata domain.EventMetadata
			if err := c.json.Unmarshal(data, &metadata); err == nil {
				return &metadata, nil
			}
			logger.WarnCtx(ctx, "Discarding malformed event metadata cache entry", zap.String("key", key))
		}
	}

	metadata, err := client.EventDetails(ctx, contractAddress)
	if err != nil {
		return nil, fmt.Errorf("failed to read event details: %w", err)
	}

	if c.redis != nil {
		data, err := c.json.Marshal(metadata)
		if err == nil {
			err = c.redis.Set(ctx, key, data, c.ttl)
		}
		if err != nil {
			logger.WarnCtx(ctx, "Failed to write event metadata cache", zap.String("key", key), zap.Error(err))
		}
	}

	return metadata, nil
}
