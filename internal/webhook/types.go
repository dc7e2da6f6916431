package webhook

import (
	"errors"
	"time"
)

// Header names carried by signed sync requests
const (
	// HeaderSignature holds "sha256=<hex hmac>"
	HeaderSignature = "X-Signature"
	// HeaderTimestamp holds the unix timestamp the sender signed with
	HeaderTimestamp = "X-Timestamp"

	signaturePrefix = "sha256="

	// DefaultTolerance is how far a signed timestamp may drift from the receiver's clock
	DefaultTolerance = 5 * time.Minute
)

var (
	// ErrMissingSignature is returned when a signed request lacks its headers
	ErrMissingSignature = errors.New("missing webhook signature")

	// ErrInvalidSignature is returned when the signature does not match the body
	ErrInvalidSignature = errors.New("invalid webhook signature")

	// ErrTimestampOutOfRange is returned for replayed or badly clocked requests
	ErrTimestampOutOfRange = errors.New("webhook timestamp outside tolerance")
)
