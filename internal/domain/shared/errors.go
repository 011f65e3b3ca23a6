// Package shared contains common domain types and errors used across all
// domain packages. This package has zero external dependencies.
package shared

import (
	"errors"
	"fmt"
)

// Base domain errors that can be used for error checking with errors.Is().
var (
	// Entity errors
	ErrNotFound      = errors.New("entity not found")
	ErrAlreadyExists = errors.New("entity already exists")
	ErrInvalidEntity = errors.New("invalid entity")

	// Validation errors
	ErrValidation      = errors.New("validation error")
	ErrInvalidID       = errors.New("invalid ID")
	ErrInvalidInput    = errors.New("invalid input")
	ErrEmptyValue      = errors.New("value cannot be empty")
	ErrValueOutOfRange = errors.New("value out of range")
	ErrInvalidFormat   = errors.New("invalid format")

	// Authorization errors
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// External service errors
	ErrExternalService    = errors.New("external service error")
	ErrServiceUnavailable = errors.New("service unavailable")
	ErrTimeout            = errors.New("operation timeout")
)

// DomainError represents a domain-specific error with context.
type DomainError struct {
	Domain  string // e.g., "record", "classifier"
	Op      string // Operation that failed, e.g., "UpdateMarks"
	Kind    error  // Base error type for errors.Is() checking
	Message string // Human-readable message
	Err     error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s.%s: %s: %v", e.Domain, e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s.%s: %s", e.Domain, e.Op, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap().
func (e *DomainError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return e.Kind
}

// Is implements errors.Is() matching.
func (e *DomainError) Is(target error) bool {
	if e.Kind != nil && errors.Is(e.Kind, target) {
		return true
	}
	if e.Err != nil && errors.Is(e.Err, target) {
		return true
	}
	return false
}

// NewDomainError creates a new domain error.
func NewDomainError(domain, op string, kind error, message string) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
	}
}

// WrapError wraps an existing error with domain context.
func WrapError(domain, op string, kind error, message string, err error) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// Record domain errors
var (
	ErrRecordNotFound      = NewDomainError("record", "Find", ErrNotFound, "student record not found")
	ErrRecordAlreadyExists = NewDomainError("record", "Create", ErrAlreadyExists, "student record already exists")
	ErrSubjectNotFound     = NewDomainError("record", "FindSubject", ErrNotFound, "subject not found in record")
	ErrInvalidStudentID    = NewDomainError("record", "Validate", ErrInvalidID, "invalid student ID")
	ErrInvalidDate         = NewDomainError("record", "Validate", ErrInvalidFormat, "date must be YYYY-MM-DD")
)

// Authorization errors
var (
	ErrNoAssignedSubject = NewDomainError("record", "Authorize", ErrForbidden, "teacher has no assigned subject")
	ErrSubjectNotOwned   = NewDomainError("record", "Authorize", ErrForbidden, "teacher does not own the targeted subject")
	ErrAdminOnly         = NewDomainError("record", "Authorize", ErrForbidden, "operation requires administrative caller")
)

// External classifier errors
var (
	ErrClassifierUnavailable     = NewDomainError("classifier", "Classify", ErrServiceUnavailable, "classifier endpoint is unavailable")
	ErrClassifierTimeout         = NewDomainError("classifier", "Classify", ErrTimeout, "classifier request timeout")
	ErrClassifierInvalidResponse = NewDomainError("classifier", "Parse", ErrInvalidFormat, "invalid response from classifier")
)

// IsNotFound checks if the error is a "not found" error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists checks if the error is an "already exists" error.
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsAuthorization checks if the error is an authorization error.
func IsAuthorization(err error) bool {
	return errors.Is(err, ErrForbidden) || errors.Is(err, ErrUnauthorized)
}

// IsValidation checks if the error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrInvalidID) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrEmptyValue) ||
		errors.Is(err, ErrValueOutOfRange) ||
		errors.Is(err, ErrInvalidFormat)
}

// IsExternalService checks if the error is from an external service.
func IsExternalService(err error) bool {
	return errors.Is(err, ErrExternalService) ||
		errors.Is(err, ErrServiceUnavailable) ||
		errors.Is(err, ErrTimeout)
}
