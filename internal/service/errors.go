package service

import (
	"errors"
	"fmt"

	"github.com/phrazzld/sympac-api/internal/domain"
)

// Error handling principles:
//  1. Credential rejections and unfinished operations are returned as the
//     domain sentinels (domain.ErrUnauthorized, domain.ErrNotImplemented)
//     so callers can check them with errors.Is.
//  2. Every other failure is wrapped in a WorkflowError naming the operation
//     and the step that failed.
//  3. The API layer maps these to HTTP status codes and never exposes the cause.

// WorkflowError wraps a failure of one step of a patron workflow.
type WorkflowError struct {
	// Operation is the workflow that failed (e.g. "modify_contact_info").
	Operation string
	// Step is the step that failed (e.g. "update").
	Step string
	// Err is the underlying error.
	Err error
}

// Error implements the error interface for WorkflowError.
func (e *WorkflowError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("patron %s failed at %s: %v", e.Operation, e.Step, e.Err)
	}
	return fmt.Sprintf("patron %s failed at %s", e.Operation, e.Step)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *WorkflowError) Unwrap() error {
	return e.Err
}

// NewWorkflowError creates a new WorkflowError.
// It returns known sentinel errors directly without wrapping.
func NewWorkflowError(operation, step string, err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		return domain.ErrUnauthorized
	case errors.Is(err, domain.ErrNotImplemented):
		return domain.ErrNotImplemented
	}

	return &WorkflowError{
		Operation: operation,
		Step:      step,
		Err:       err,
	}
}
