package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/feral-file/ff-ticketing/internal/domain"
)

func observe(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	previous := log
	log = zap.New(core)
	t.Cleanup(func() { log = previous })
	return logs
}

func TestWithFields_AreCarriedByCtxLogs(t *testing.T) {
	logs := observe(t)

	key := domain.TicketKey{ChainID: 80002, ContractAddress: "0x1111111111111111111111111111111111111111", TokenID: "7"}
	ctx := WithFields(context.Background(), zap.String("request_id", "r-1"))
	ctx = WithFields(ctx, TicketKey(key))

	InfoCtx(ctx, "verified")

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "r-1", fields["request_id"])
	assert.Equal(t, key.String(), fields["ticket_key"])
}

func TestWithFields_DoesNotLeakIntoParent(t *testing.T) {
	logs := observe(t)

	parent := WithFields(context.Background(), zap.String("a", "1"))
	_ = WithFields(parent, zap.String("b", "2"))

	InfoCtx(parent, "parent")

	fields := logs.All()[0].ContextMap()
	assert.Contains(t, fields, "a")
	assert.NotContains(t, fields, "b")
}

func TestErrorCtx_UsesErrorAsMessage(t *testing.T) {
	logs := observe(t)

	ErrorCtx(context.Background(), domain.ErrChainUnreachable)
	Error(nil)

	require.Equal(t, 2, logs.Len())
	assert.Equal(t, domain.ErrChainUnreachable.Error(), logs.All()[0].Message)
	assert.Equal(t, "error occurred", logs.All()[1].Message)
}

func TestInitialize_WithoutSentry(t *testing.T) {
	previous := log
	t.Cleanup(func() { log = previous })

	require.NoError(t, Initialize(Config{Debug: true, Tags: map[string]string{"service": "test"}}))
	assert.True(t, log.Core().Enabled(zapcore.DebugLevel))
	assert.Nil(t, sentryClient)
}
