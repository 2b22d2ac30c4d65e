// Package errors provides the sentinel and coded errors shared by the
// outer surfaces (gateway, CLI). The database handle itself forwards
// engine errors verbatim and never goes through this package.
package errors

import (
	"errors"
	"fmt"
)

// Common sentinel errors for quick checks
var (
	// ErrNotFound is returned when a resource is not found.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a resource already exists.
	ErrConflict = errors.New("resource already exists")

	// ErrInvalidInput is returned when request input is invalid.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInternal is returned when an internal error occurs.
	ErrInternal = errors.New("internal error")
)

// DatabaseError carries a short machine-readable code together with a
// human-readable message and the underlying cause.
type DatabaseError struct {
	code    string
	message string
	cause   error
}

// NewDatabaseError creates a coded error wrapping cause.
func NewDatabaseError(code, message string, cause error) *DatabaseError {
	return &DatabaseError{code: code, message: message, cause: cause}
}

// Error implements the error interface.
func (e *DatabaseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Code returns the error code.
func (e *DatabaseError) Code() string {
	return e.code
}

// Message returns the human-readable error message.
func (e *DatabaseError) Message() string {
	return e.message
}

// Unwrap returns the underlying cause.
func (e *DatabaseError) Unwrap() error {
	return e.cause
}

// Is reports whether target matches this error or its cause, so coded
// errors still answer errors.Is checks against the sentinels.
func (e *DatabaseError) Is(target error) bool {
	return errors.Is(e.cause, target)
}
