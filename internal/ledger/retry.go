package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/feral-file/ff-ticketing/internal/domain"
	"github.com/feral-file/ff-ticketing/internal/logger"
)

var (
	// ErrExecutionReverted is returned when the contract rejected a call
	ErrExecutionReverted = errors.New("execution reverted")

	// ErrNoContract is returned when there is no code at the contract address on this chain
	ErrNoContract = errors.New("no contract code at address")

	// ErrTransactionFailed is returned when a mined transaction has a failed status
	ErrTransactionFailed = errors.New("transaction failed")

	errNotYetConfirmed = errors.New("transaction not yet confirmed")
)

// isRevertError checks if the error is a contract revert rather than a transport failure
func isRevertError(err error) bool {
	if err == nil {
		return false
	}

	errStr := strings.ToLower(err.Error())
	revertMessages := []string{
		"execution reverted",
		"invalid opcode",
		"vm execution error",
		"revert",
	}
	for _, msg := range revertMessages {
		if strings.Contains(errStr, msg) {
			return true
		}
	}
	return false
}

// classify maps an RPC error to a permanent or retryable backoff error
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case isRevertError(err):
		return backoff.Permanent(fmt.Errorf("%w: %v", ErrExecutionReverted, err))
	case errors.Is(err, context.Canceled):
		return backoff.Permanent(err)
	case errors.Is(err, ErrNoContract), errors.Is(err, ErrTransactionFailed):
		return backoff.Permanent(err)
	}
	return err
}

// withRetry runs op with exponential backoff, retrying transient RPC failures.
// Errors that are not reverts are wrapped with domain.ErrChainUnreachable.
func withRetry[T any](ctx context.Context, c *client, method string, op func(ctx context.Context) (T, error)) (T, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.config.RetryInitialInterval
	b.MaxInterval = c.config.RetryMaxInterval
	b.MaxElapsedTime = 0 // bounded by MaxRetries and ctx

	start := time.Now()
	attempt := 0
	result, err := backoff.RetryNotifyWithData(func() (T, error) {
		attempt++
		callCtx, cancel := context.WithTimeout(ctx, c.config.CallTimeout)
		defer cancel()

		v, err := op(callCtx)
		return v, classify(err)
	}, backoff.WithContext(backoff.WithMaxRetries(b, c.config.MaxRetries), ctx), func(err error, next time.Duration) {
		logger.DebugCtx(ctx, "Ledger call failed, retrying",
			zap.String("method", method),
			zap.Int("attempt", attempt),
			zap.Duration("next_retry_in", next),
			zap.Error(err),
		)
	})
	c.observe(method, start, err)

	if err == nil {
		return result, nil
	}
	if errors.Is(err, ErrExecutionReverted) || errors.Is(err, ErrNoContract) || errors.Is(err, ErrTransactionFailed) {
		return result, err
	}
	return result, fmt.Errorf("%w: chain %d %s: %w", domain.ErrChainUnreachable, c.chain.ID, method, err)
}
