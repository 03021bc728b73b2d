package shared

import "fmt"

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrInsufficientStock   = NewDomainError("INSUFFICIENT_STOCK", "Insufficient stock available")
	ErrTransportFailure    = NewDomainError("TRANSPORT_FAILURE", "Synchronization transport failed")
	ErrApplyFailure        = NewDomainError("APPLY_FAILURE", "Synchronization batch rejected by destination")
	ErrDataError           = NewDomainError("DATA_ERROR", "Malformed record in synchronization payload")
)

// NewInvalidStateTransition creates the error raised when a state machine
// operation is invoked from a state that does not permit it.
func NewInvalidStateTransition(entity, from, to string) *DomainError {
	return &DomainError{
		Code:    "INVALID_STATE_TRANSITION",
		Message: fmt.Sprintf("%s cannot transition from %s to %s", entity, from, to),
	}
}

// NewInvariantViolation creates the error raised when an operation would
// break a structural invariant. The code identifies the invariant so callers
// can react programmatically.
func NewInvariantViolation(code, message string) *DomainError {
	return &DomainError{
		Code:    "INVARIANT_VIOLATION:" + code,
		Message: message,
	}
}

// IsInvalidStateTransition reports whether err is an invalid transition error.
func IsInvalidStateTransition(err error) bool {
	de, ok := err.(*DomainError)
	return ok && de.Code == "INVALID_STATE_TRANSITION"
}
