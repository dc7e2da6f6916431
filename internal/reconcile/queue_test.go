package reconcile_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/ff-ticketing/internal/domain"
	"github.com/feral-file/ff-ticketing/internal/logger"
	"github.com/feral-file/ff-ticketing/internal/mocks"
	"github.com/feral-file/ff-ticketing/internal/reconcile"
)

const queueKey = "ticketing:reconcile"

var now = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func TestMain(m *testing.M) {
	if err := logger.Initialize(logger.Config{Debug: false}); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func testKey() domain.TicketKey {
	return domain.TicketKey{
		ChainID:         domain.CHAIN_ID_POLYGON_AMOY,
		ContractAddress: "0x1111111111111111111111111111111111111111",
		TokenID:         "7",
	}
}

func setupQueue(t *testing.T) (reconcile.Queue, *mocks.MockRedisClient, *mocks.MockClock) {
	ctrl := gomock.NewController(t)
	redis := mocks.NewMockRedisClient(ctrl)
	clock := mocks.NewMockClock(ctrl)
	return reconcile.NewRedisQueue(redis, queueKey, clock), redis, clock
}

func TestRedisQueue_Enqueue(t *testing.T) {
	q, redis, clock := setupQueue(t)
	ctx := context.Background()

	clock.EXPECT().Now().Return(now)
	redis.EXPECT().ZAdd(ctx, queueKey, float64(now.UnixMilli()), "80002:0x1111111111111111111111111111111111111111:7").Return(nil)

	require.NoError(t, q.Enqueue(ctx, testKey(), reconcile.ReasonTransferWhileListed))
}

func TestRedisQueue_Enqueue_Error(t *testing.T) {
	q, redis, clock := setupQueue(t)
	ctx := context.Background()

	clock.EXPECT().Now().Return(now)
	redis.EXPECT().ZAdd(ctx, queueKey, gomock.Any(), gomock.Any()).Return(errors.New("connection refused"))

	err := q.Enqueue(ctx, testKey(), reconcile.ReasonCacheWriteFailed)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestRedisQueue_Schedule(t *testing.T) {
	q, redis, _ := setupQueue(t)
	ctx := context.Background()
	at := now.Add(30 * time.Second)

	redis.EXPECT().ZAdd(ctx, queueKey, float64(at.UnixMilli()), testKey().String()).Return(nil)

	require.NoError(t, q.Schedule(ctx, testKey(), at))
}

func TestRedisQueue_Claim(t *testing.T) {
	q, redis, clock := setupQueue(t)
	ctx := context.Background()

	clock.EXPECT().Now().Return(now)
	redis.EXPECT().ZPopDue(ctx, queueKey, float64(now.UnixMilli()), int64(10)).Return([]string{
		testKey().String(),
		"not-a-key",
		"84532:0x2222222222222222222222222222222222222222:0x10",
	}, nil)

	keys, err := q.Claim(ctx, 10)
	require.NoError(t, err)
	require.Len(t, keys, 2)
	assert.Equal(t, testKey(), keys[0])
	assert.Equal(t, domain.CHAIN_ID_BASE_SEPOLIA, keys[1].ChainID)
	assert.Equal(t, "16", keys[1].TokenID)
}

func TestRedisQueue_Depth(t *testing.T) {
	q, redis, _ := setupQueue(t)
	ctx := context.Background()

	redis.EXPECT().ZCard(ctx, queueKey).Return(int64(3), nil)

	depth, err := q.Depth(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), depth)
}
