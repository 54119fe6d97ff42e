// Package common defines the sentinel errors and shared constants used across
// the server and client layers. Callers should use errors.Is to match these
// values; services wrap them with operation context.
package common

import "errors"

var (
	// Input errors.
	ErrValidation = errors.New("validation error")

	// Credential store errors.
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("already exists")

	// Authentication errors.
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// ErrInternal marks failures the client must not see the details of.
	ErrInternal = errors.New("internal error")
)

// ValidationError carries a message that is safe to show to the client. It
// matches ErrValidation under errors.Is.
type ValidationError struct {
	Detail string
}

func NewValidationError(detail string) *ValidationError {
	return &ValidationError{Detail: detail}
}

func (e *ValidationError) Error() string { return e.Detail }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }
