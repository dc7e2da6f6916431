package adapter

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisClient defines the interface for Redis operations to enable mocking
//
//go:generate mockgen -source=redis.go -destination=../mocks/redis.go -package=mocks -mock_names=RedisClient=MockRedisClient
type RedisClient interface {
	// Ping checks if Redis is reachable
	Ping(ctx context.Context) error

	// Get returns the value of key; found is false when the key does not exist
	Get(ctx context.Context, key string) (value []byte, found bool, err error)

	// Set stores value under key with the given ttl (0 = no expiry)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// ZAdd adds or re-scores a member of a sorted set
	ZAdd(ctx context.Context, key string, score float64, member string) error

	// ZPopDue removes and returns up to count members whose score is <= maxScore.
	// A member claimed by another caller is skipped.
	ZPopDue(ctx context.Context, key string, maxScore float64, count int64) ([]string, error)

	// ZCard returns the number of members of a sorted set
	ZCard(ctx context.Context, key string) (int64, error)

	// Close closes the Redis connection
	Close() error
}

// RealRedisClient wraps the actual Redis client
type RealRedisClient struct {
	client *redis.Client
}

// NewRedisClient creates a new Redis client
func NewRedisClient(addr, password string, db int) RedisClient {
	return &RealRedisClient{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
	}
}

// Ping checks if Redis is reachable
func (r *RealRedisClient) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Get returns the value of key
func (r *RealRedisClient) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

// Set stores value under key
func (r *RealRedisClient) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

// ZAdd adds or re-scores a member of a sorted set
func (r *RealRedisClient) ZAdd(ctx context.Context, key string, score float64, member string) error {
	return r.client.ZAdd(ctx, key, redis.Z{Score: score, Member: member}).Err()
}

// ZPopDue removes and returns members whose score is <= maxScore
func (r *RealRedisClient) ZPopDue(ctx context.Context, key string, maxScore float64, count int64) ([]string, error) {
	members, err := r.client.ZRangeByScore(ctx, key, &redis.ZRangeBy{
		Min:   "-inf",
		Max:   strconv.FormatFloat(maxScore, 'f', -1, 64),
		Count: count,
	}).Result()
	if err != nil {
		return nil, err
	}

	claimed := make([]string, 0, len(members))
	for _, member := range members {
		// ZRem returns 0 if another worker already claimed the member
		removed, err := r.client.ZRem(ctx, key, member).Result()
		if err != nil {
			return claimed, err
		}
		if removed == 1 {
			claimed = append(claimed, member)
		}
	}

	return claimed, nil
}

// ZCard returns the number of members of a sorted set
func (r *RealRedisClient) ZCard(ctx context.Context, key string) (int64, error) {
	return r.client.ZCard(ctx, key).Result()
}

// Close closes the Redis connection
func (r *RealRedisClient) Close() error {
	return r.client.Close()
}
