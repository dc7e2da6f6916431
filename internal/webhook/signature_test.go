package webhook_test

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/ff-ticketing/internal/adapter"
	"github.com/feral-file/ff-ticketing/internal/mocks"
	"github.com/feral-file/ff-ticketing/internal/webhook"
)

const secret = "746573742d7365637265742d6b6579"

func newSigner(t *testing.T, now time.Time) *webhook.Signer {
	ctrl := gomock.NewController(t)
	clock := mocks.NewMockClock(ctrl)
	clock.EXPECT().Now().Return(now).AnyTimes()
	return webhook.NewSigner(secret, adapter.NewJSON(), clock, time.Minute)
}

func TestSigner_Sign(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	signer := newSigner(t, now)

	body := []byte(`{ "txHash": "0xabc", "key": {"tokenId": "7", "chainId": 80002} }`)
	signature, timestamp, err := signer.Sign(body)
	require.NoError(t, err)
	assert.Equal(t, now.Unix(), timestamp)

	// Computed over the canonical form of the body
	canonical := `{"key":{"chainId":80002,"tokenId":"7"},"txHash":"0xabc"}`
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(fmt.Sprintf("%d.%s", timestamp, canonical)))
	assert.Equal(t, "sha256="+hex.EncodeToString(h.Sum(nil)), signature)
}

func TestSigner_Verify(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	signer := newSigner(t, now)

	body := []byte(`{"txHash":"0xabc","key":{"tokenId":"7"}}`)
	signature, timestamp, err := signer.Sign(body)
	require.NoError(t, err)
	ts := strconv.FormatInt(timestamp, 10)

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, signer.Verify(signature, ts, body))
	})

	t.Run("key order and whitespace do not matter", func(t *testing.T) {
		reordered := []byte("{\n  \"key\": {\"tokenId\": \"7\"},\n  \"txHash\": \"0xabc\"\n}")
		assert.NoError(t, signer.Verify(signature, ts, reordered))
	})

	t.Run("tampered body", func(t *testing.T) {
		err := signer.Verify(signature, ts, []byte(`{"txHash":"0xabd","key":{"tokenId":"7"}}`))
		assert.ErrorIs(t, err, webhook.ErrInvalidSignature)
	})

	t.Run("wrong secret", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		clock := mocks.NewMockClock(ctrl)
		clock.EXPECT().Now().Return(now).AnyTimes()
		other := webhook.NewSigner("other", adapter.NewJSON(), clock, time.Minute)
		assert.ErrorIs(t, other.Verify(signature, ts, body), webhook.ErrInvalidSignature)
	})

	t.Run("missing headers", func(t *testing.T) {
		assert.ErrorIs(t, signer.Verify("", ts, body), webhook.ErrMissingSignature)
		assert.ErrorIs(t, signer.Verify(signature, "", body), webhook.ErrMissingSignature)
	})

	t.Run("malformed timestamp", func(t *testing.T) {
		assert.ErrorIs(t, signer.Verify(signature, "yesterday", body), webhook.ErrTimestampOutOfRange)
	})

	t.Run("replayed outside tolerance", func(t *testing.T) {
		later := newSigner(t, now.Add(2*time.Minute))
		assert.ErrorIs(t, later.Verify(signature, ts, body), webhook.ErrTimestampOutOfRange)
	})

	t.Run("body that is not JSON", func(t *testing.T) {
		assert.ErrorIs(t, signer.Verify(signature, ts, []byte("not json")), webhook.ErrInvalidSignature)
	})
}
