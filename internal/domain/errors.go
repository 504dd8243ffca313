package domain

import "fmt"

// ErrorCode classifies a DomainError for transport-level mapping.
type ErrorCode string

const (
	CodeNotFound           ErrorCode = "NOT_FOUND"
	CodeForbidden          ErrorCode = "FORBIDDEN"
	CodeInvalidTransition  ErrorCode = "INVALID_TRANSITION"
	CodeCleanerUnavailable ErrorCode = "CLEANER_UNAVAILABLE"
	CodeValidation         ErrorCode = "VALIDATION_ERROR"
	CodeConflict           ErrorCode = "CONFLICT"
	CodePersistence        ErrorCode = "PERSISTENCE_FAILURE"
)

// DomainError is a business-rule violation that callers can map to a response.
type DomainError struct {
	Code    ErrorCode
	Message string
	cause   error
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	return e.Message
}

// Unwrap exposes the underlying cause, if any.
func (e *DomainError) Unwrap() error {
	return e.cause
}

// NewNotFoundError indicates the requested entity does not exist.
func NewNotFoundError(entity, id string) *DomainError {
	return &DomainError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s not found: %s", entity, id),
	}
}

// NewForbiddenError indicates the actor is not allowed to perform the operation.
func NewForbiddenError(message string) *DomainError {
	return &DomainError{Code: CodeForbidden, Message: message}
}

// NewInvalidTransitionError indicates the requested status is not reachable
// from the booking's current status.
func NewInvalidTransitionError(from, to string) *DomainError {
	return &DomainError{
		Code:    CodeInvalidTransition,
		Message: fmt.Sprintf("cannot transition booking from %s to %s", from, to),
	}
}

// NewCleanerUnavailableError indicates the target cleaner cannot take the job.
func NewCleanerUnavailableError(cleanerID string) *DomainError {
	return &DomainError{
		Code:    CodeCleanerUnavailable,
		Message: fmt.Sprintf("cleaner %s is not available", cleanerID),
	}
}

// NewValidationError indicates a malformed or incomplete request.
func NewValidationError(message string) *DomainError {
	return &DomainError{Code: CodeValidation, Message: message}
}

// NewConflictError indicates a concurrent modification was detected.
func NewConflictError(message string) *DomainError {
	return &DomainError{Code: CodeConflict, Message: message}
}

// NewPersistenceError wraps a gateway write failure. The operation is aborted
// with no partial state.
func NewPersistenceError(cause error) *DomainError {
	return &DomainError{
		Code:    CodePersistence,
		Message: "persistence gateway failure",
		cause:   cause,
	}
}
