// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Session errors.
	ErrInvalidCredentials = errors.New("identifier or secret incorrect")
	ErrSessionExpired     = errors.New("session expired")
	ErrNotAuthenticated   = errors.New("not authenticated")

	// Registration errors.
	ErrAlreadyRegistered  = fmt.Errorf("already registered: %w", ErrConflict)
	ErrRegistrationFailed = errors.New("registration failed")

	// Request errors.
	ErrConflict      = errors.New("conflict")
	ErrValidation    = errors.New("validation failed")
	ErrNotFound      = errors.New("not found")
	ErrRequestFailed = errors.New("request failed")
	ErrNetwork       = errors.New("backend unreachable")

	// Configuration errors.
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

// ValidationError reports a field that failed client-side checks before dispatch.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// ConflictError carries the backend's explanation for a rejected mutation.
// Message is shown to the user verbatim.
type ConflictError struct {
	Message    string
	StatusCode int
}

func (e *ConflictError) Error() string {
	return e.Message
}

func (e *ConflictError) Unwrap() error {
	return ErrConflict
}

// StatusError is a non-success response that has no more specific meaning.
type StatusError struct {
	Body       string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("backend returned status %d: %s", e.StatusCode, e.Body)
}

func (e *StatusError) Unwrap() error {
	return ErrRequestFailed
}

// Message returns the text that should be shown to the user for err.
func Message(err error) string {
	if err == nil {
		return ""
	}

	var userErr *UserError
	if errors.As(err, &userErr) {
		return userErr.UserMessage
	}

	var conflict *ConflictError
	if errors.As(err, &conflict) {
		return conflict.Message
	}

	var validation *ValidationError
	if errors.As(err, &validation) {
		return validation.Error()
	}

	switch {
	case errors.Is(err, ErrSessionExpired):
		return "your session has expired, please log in again"
	case errors.Is(err, ErrNetwork), errors.Is(err, ErrRequestFailed):
		return "something went wrong talking to the server, please try again"
	}

	return err.Error()
}
