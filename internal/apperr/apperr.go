// Package apperr defines the error taxonomy shared by services and HTTP handlers.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for HTTP mapping.
type Kind int

const (
	// Validation covers malformed or missing input.
	Validation Kind = iota
	// Unauthenticated covers missing/invalid tokens and bad credentials.
	Unauthenticated
	// Forbidden covers valid identities with insufficient ownership.
	Forbidden
	// NotFound covers absent referenced entities.
	NotFound
	// Internal covers storage and other unexpected failures.
	Internal
)

// FieldIssue describes a single field-level validation problem.
type FieldIssue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error carries a kind, a user-facing message and optional field issues.
type Error struct {
	Kind    Kind
	Message string
	Issues  []FieldIssue
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// New builds an error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// NewValidation builds a 400-class error with field issues.
func NewValidation(message string, issues ...FieldIssue) *Error {
	return &Error{Kind: Validation, Message: message, Issues: issues}
}

// NewInternal wraps an unexpected failure.
func NewInternal(message string, err error) *Error {
	return &Error{Kind: Internal, Message: message, Err: err}
}

// KindOf extracts the kind from err, defaulting to Internal.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return Internal
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Kind == kind
}
