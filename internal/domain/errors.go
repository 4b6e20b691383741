package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common error conditions.
var (
	// ErrNotFound indicates that a requested entity was not found.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates that the input data is malformed.
	ErrInvalidInput = errors.New("invalid input")

	// ErrMissingFields indicates that a required field is absent or null.
	ErrMissingFields = errors.New("missing required fields")

	// ErrInvalidReference indicates an insert referenced a value absent from
	// the referenced table (a foreign-key violation).
	ErrInvalidReference = errors.New("invalid reference")
)

// NotFoundError reports that no row matched a well-formed identifier or
// filter. Msg is the client-facing message passed through to the boundary
// unchanged.
type NotFoundError struct {
	Entity string
	Msg    string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: %s", e.Entity, strings.ToLower(e.Msg))
}

// Unwrap returns the underlying sentinel error for use with errors.Is.
func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// ValidationError reports a rejected request parameter, such as a sort
// column outside the allow-list or an unknown order direction.
type ValidationError struct {
	Field string
	Msg   string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s: %s", e.Field, e.Msg)
}

// Unwrap returns the underlying sentinel error for use with errors.Is.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// ReferenceError reports a foreign-key violation with a message specialized
// by context ("Invalid username", "Username or topic not found").
type ReferenceError struct {
	Constraint string
	Msg        string
}

// Error implements the error interface.
func (e *ReferenceError) Error() string {
	return fmt.Sprintf("foreign key violation on %s: %s", e.Constraint, strings.ToLower(e.Msg))
}

// Unwrap returns the underlying sentinel error for use with errors.Is.
func (e *ReferenceError) Unwrap() error {
	return ErrInvalidReference
}

// NewNotFoundError creates a new NotFoundError.
func NewNotFoundError(entity, msg string) *NotFoundError {
	return &NotFoundError{Entity: entity, Msg: msg}
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Field: field, Msg: msg}
}

// NewReferenceError creates a new ReferenceError.
func NewReferenceError(constraint, msg string) *ReferenceError {
	return &ReferenceError{Constraint: constraint, Msg: msg}
}
