package errors

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/feral-file/ff-ticketing/internal/domain"
)

// ErrorCode represents a standardized error code
type ErrorCode string

const (
	// Client errors (4xx)
	ErrCodeBadRequest       ErrorCode = "bad_request"
	ErrCodeNotFound         ErrorCode = "not_found"
	ErrCodeValidationFailed ErrorCode = "validation_failed"
	ErrCodeUnauthorized     ErrorCode = "unauthorized"
	ErrCodeForbidden        ErrorCode = "forbidden"
	ErrCodeInvalidTicket    ErrorCode = "invalid_ticket"
	ErrCodeWrongEvent       ErrorCode = "wrong_event"
	ErrCodeAlreadyUsed      ErrorCode = "already_used"
	ErrCodeConflict         ErrorCode = "conflict"

	// Server errors (5xx)
	ErrCodeInternalError      ErrorCode = "internal_error"
	ErrCodeDatabaseError      ErrorCode = "database_error"
	ErrCodeServiceError       ErrorCode = "service_error"
	ErrCodeChainUnreachable   ErrorCode = "chain_unreachable"
	ErrCodeServiceUnavailable ErrorCode = "service_unavailable"
)

// APIError represents a structured API error that carries error code and details
type APIError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
	// Retryable tells clients the same request may succeed later
	Retryable bool `json:"retryable,omitempty"`
}

func (e *APIError) Error() string {
	jsonErr, _ := json.Marshal(e)
	return string(jsonErr)
}

// Status returns the HTTP status of the error code
func (e *APIError) Status() int {
	switch e.Code {
	case ErrCodeBadRequest, ErrCodeValidationFailed:
		return http.StatusBadRequest
	case ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrCodeForbidden:
		return http.StatusForbidden
	case ErrCodeNotFound, ErrCodeInvalidTicket:
		return http.StatusNotFound
	case ErrCodeWrongEvent, ErrCodeAlreadyUsed, ErrCodeConflict:
		return http.StatusConflict
	case ErrCodeChainUnreachable, ErrCodeServiceUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// FromDomainError maps a domain error to its API error. Errors without a mapping
// become internal errors carrying the given message.
func FromDomainError(err error, message string) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	switch {
	case errors.Is(err, domain.ErrNotFoundOnAnyChain), errors.Is(err, domain.ErrTicketNotFound):
		return NewInvalidTicketError(err.Error())
	case errors.Is(err, domain.ErrChainUnreachable):
		return NewChainUnreachableError(err.Error())
	case errors.Is(err, domain.ErrContractMismatch):
		return &APIError{Code: ErrCodeWrongEvent, Message: "Wrong event", Details: err.Error()}
	case errors.Is(err, domain.ErrTicketAlreadyUsed):
		return &APIError{Code: ErrCodeAlreadyUsed, Message: "Ticket already used", Details: err.Error()}
	case errors.Is(err, domain.ErrInvariantViolation):
		return NewConflictError("Mutation rejected", err.Error())
	case errors.Is(err, domain.ErrInvalidMutation),
		errors.Is(err, domain.ErrInvalidTicketKey),
		errors.Is(err, domain.ErrInvalidQRPayload),
		errors.Is(err, domain.ErrUnknownChain):
		return NewValidationError(err.Error())
	case errors.Is(err, domain.ErrSignerNotConfigured):
		return NewServiceError("Check-in is not enabled", err.Error())
	}

	return NewInternalError(message)
}

// Error constructors for common error types
func NewBadRequestError(message string, details ...string) *APIError {
	return &APIError{
		Code:    ErrCodeBadRequest,
		Message: message,
		Details: strings.Join(details, ", "),
	}
}

func NewNotFoundError(message string, details ...string) *APIError {
	return &APIError{
		Code:    ErrCodeNotFound,
		Message: message,
		Details: strings.Join(details, ", "),
	}
}

func NewInvalidTicketError(details ...string) *APIError {
	return &APIError{
		Code:    ErrCodeInvalidTicket,
		Message: "Invalid ticket",
		Details: strings.Join(details, ", "),
	}
}

func NewValidationError(details ...string) *APIError {
	return &APIError{
		Code:    ErrCodeValidationFailed,
		Message: "Validation failed",
		Details: strings.Join(details, ", "),
	}
}

func NewUnauthorizedError(message string, details ...string) *APIError {
	return &APIError{
		Code:    ErrCodeUnauthorized,
		Message: message,
		Details: strings.Join(details, ", "),
	}
}

func NewForbiddenError(message string, details ...string) *APIError {
	return &APIError{
		Code:    ErrCodeForbidden,
		Message: message,
		Details: strings.Join(details, ", "),
	}
}

func NewConflictError(message string, details ...string) *APIError {
	return &APIError{
		Code:    ErrCodeConflict,
		Message: message,
		Details: strings.Join(details, ", "),
	}
}

func NewInternalError(message string, details ...string) *APIError {
	return &APIError{
		Code:    ErrCodeInternalError,
		Message: message,
		Details: strings.Join(details, ", "),
	}
}

func NewDatabaseError(message string, details ...string) *APIError {
	return &APIError{
		Code:    ErrCodeDatabaseError,
		Message: message,
		Details: strings.Join(details, ", "),
	}
}

func NewServiceError(message string, details ...string) *APIError {
	return &APIError{
		Code:    ErrCodeServiceError,
		Message: message,
		Details: strings.Join(details, ", "),
	}
}

func NewChainUnreachableError(details ...string) *APIError {
	return &APIError{
		Code:      ErrCodeChainUnreachable,
		Message:   "Chain unreachable, try again",
		Details:   strings.Join(details, ", "),
		Retryable: true,
	}
}

func NewServiceUnavailableError(message string, details ...string) *APIError {
	return &APIError{
		Code:      ErrCodeServiceUnavailable,
		Message:   message,
		Details:   strings.Join(details, ", "),
		Retryable: true,
	}
}
