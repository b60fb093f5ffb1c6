package errors

import (
	"errors"
	"fmt"
)

var (
	// Schedule errors
	ErrScheduleNotFound       = errors.New("schedule not found")
	ErrInvalidStateTransition = errors.New("invalid state transition")
	ErrExecutionsExhausted    = errors.New("max executions reached")

	// Outbox errors
	ErrOutboxEntryNotFound = errors.New("outbox entry not found")

	// Submission errors, transient
	ErrNetworkUnavailable = errors.New("network unavailable")
	ErrSubmissionTimeout  = errors.New("submission request timeout")
	ErrRateLimited        = errors.New("rate limited by endpoint")

	// Submission errors, permanent
	ErrInvalidRecipient   = errors.New("invalid recipient address")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrSubmissionRejected = errors.New("transaction rejected by endpoint")

	// Auth
	ErrAuthRequired = errors.New("wallet authorization required")

	// Validation errors
	ErrInvalidInput = errors.New("invalid input")
)

// DomainError wraps errors with additional context
type DomainError struct {
	Code    string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}
