package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/feral-file/ff-ticketing/internal/adapter"
)

// Signer signs and verifies sync request bodies with a shared secret
type Signer struct {
	secret    []byte
	json      adapter.JSON
	clock     adapter.Clock
	tolerance time.Duration
}

// NewSigner creates a signer. A zero tolerance uses DefaultTolerance.
func NewSigner(secret string, jsonAdapter adapter.JSON, clock adapter.Clock, tolerance time.Duration) *Signer {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	return &Signer{
		secret:    []byte(secret),
		json:      jsonAdapter,
		clock:     clock,
		tolerance: tolerance,
	}
}

// Sign returns the signature header value and the timestamp for a JSON body.
// The body is canonicalized first so whitespace and key order do not matter.
func (s *Signer) Sign(body []byte) (signature string, timestamp int64, err error) {
	timestamp = s.clock.Now().Unix()
	signature, err = s.signature(timestamp, body)
	if err != nil {
		return "", 0, err
	}
	return signature, timestamp, nil
}

// Verify checks the headers of a signed request against its body
func (s *Signer) Verify(signatureHeader, timestampHeader string, body []byte) error {
	if signatureHeader == "" || timestampHeader == "" {
		return ErrMissingSignature
	}

	timestamp, err := strconv.ParseInt(strings.TrimSpace(timestampHeader), 10, 64)
	if err != nil {
		return fmt.Errorf("%w: malformed timestamp %q", ErrTimestampOutOfRange, timestampHeader)
	}

	drift := s.clock.Now().Sub(time.Unix(timestamp, 0))
	if drift < -s.tolerance || drift > s.tolerance {
		return ErrTimestampOutOfRange
	}

	expected, err := s.signature(timestamp, body)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSignature, err)
	}

	if !hmac.Equal([]byte(expected), []byte(strings.TrimSpace(signatureHeader))) {
		return ErrInvalidSignature
	}
	return nil
}

// signature computes "sha256=<hex>" over {timestamp}.{canonical body}
func (s *Signer) signature(timestamp int64, body []byte) (string, error) {
	canonical, err := s.json.Canonicalize(body)
	if err != nil {
		return "", fmt.Errorf("failed to canonicalize body: %w", err)
	}

	h := hmac.New(sha256.New, s.secret)
	h.Write([]byte(strconv.FormatInt(timestamp, 10)))
	h.Write([]byte("."))
	h.Write(canonical)

	return signaturePrefix + hex.EncodeToString(h.Sum(nil)), nil
}
