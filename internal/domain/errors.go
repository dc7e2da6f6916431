package domain

import "errors"

var (
	// ErrNotFoundOnAnyChain is returned when every registered chain confirmed the ticket does not exist
	ErrNotFoundOnAnyChain = errors.New("ticket not found on any chain")

	// ErrChainUnreachable is returned when a chain could not be asked; callers should retry
	ErrChainUnreachable = errors.New("chain unreachable")

	// ErrContractMismatch is returned when the scanned contract does not belong to the event being checked in
	ErrContractMismatch = errors.New("contract does not match event")

	// ErrCacheWriteFailed is logged when a cache projection could not be written
	ErrCacheWriteFailed = errors.New("cache write failed")

	// ErrInvariantViolation is returned when a mutation would break a cache invariant
	ErrInvariantViolation = errors.New("invariant violation")

	// ErrTicketNotFound is returned by a single chain when the ticket does not exist there
	ErrTicketNotFound = errors.New("ticket not found")

	// ErrTicketAlreadyUsed is returned when checking in a ticket that is already used on chain
	ErrTicketAlreadyUsed = errors.New("ticket already used")

	// ErrUnknownChain is returned when a chain id is not in the registry
	ErrUnknownChain = errors.New("unknown chain")

	// ErrInvalidTicketKey is returned for malformed contract addresses or token ids
	ErrInvalidTicketKey = errors.New("invalid ticket key")

	// ErrInvalidMutation is returned when a mutation record is missing fields required by its type
	ErrInvalidMutation = errors.New("invalid mutation")

	// ErrInvalidQRPayload is returned when a scanned payload cannot be parsed
	ErrInvalidQRPayload = errors.New("invalid QR payload")

	// ErrSignerNotConfigured is returned when a write is attempted without a signing key
	ErrSignerNotConfigured = errors.New("signer not configured")
)
