package domain

import (
	"errors"
	"strings"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a request is missing required fields.
	// It is usually wrapped by a *ValidationError naming the fields.
	ErrValidation = errors.New("validation failed")

	// ErrUnauthorized is returned when the ILS rejects the supplied credentials.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrUpstream is returned for any other ILS failure: transport errors,
	// non-2xx responses and responses that cannot be decoded.
	ErrUpstream = errors.New("upstream request failed")

	// ErrNotImplemented is returned by operations that are recognized but
	// not yet supported.
	ErrNotImplemented = errors.New("not implemented")

	// ErrInvalidRecord is returned when a patron record does not have the
	// shape the gateway expects (for example an address1 field that is not a list).
	ErrInvalidRecord = errors.New("invalid patron record")
)

// ValidationError reports the request fields that failed validation.
type ValidationError struct {
	// Fields holds the external names of the offending fields, in request order.
	Fields []string
	// Err is the underlying cause, normally ErrValidation.
	Err error
}

// NewValidationError creates a ValidationError for the given fields.
func NewValidationError(fields ...string) *ValidationError {
	return &ValidationError{
		Fields: fields,
		Err:    ErrValidation,
	}
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return "missing required fields: " + strings.Join(e.Fields, ",")
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ValidationError) Unwrap() error {
	return e.Err
}
