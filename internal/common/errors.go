// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Training errors.
	ErrValidation       = errors.New("invalid training input")
	ErrInsufficientData = errors.New("insufficient data")

	// Inference errors.
	ErrNotTrained = errors.New("model not trained")

	// Persistence errors.
	ErrPersistence     = errors.New("persistence failed")
	ErrVersionMismatch = errors.New("artifact version mismatch")
	ErrNotFound        = errors.New("not found")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}
