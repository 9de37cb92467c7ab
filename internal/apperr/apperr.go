// Package apperr defines the typed error taxonomy shared by services,
// repositories and HTTP handlers. Every domain failure carries a Kind
// that maps to a fixed HTTP status, so handlers never inspect raw
// database errors and services never leak them upward.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a domain failure. The string value is returned to
// clients in the `error_type` field of error responses.
type Kind string

const (
	InvalidEmail       Kind = "INVALID_EMAIL"
	NotFound           Kind = "NOT_FOUND"
	DatabaseError      Kind = "DATABASE_ERROR"
	InvalidCredentials Kind = "INVALID_CREDENTIALS"
	InvalidOperation   Kind = "INVALID_OPERATION"
)

// HTTPStatus maps a kind to its default HTTP status code. Unknown kinds
// fall back to 500 so that a missing mapping can never hide a failure.
func (k Kind) HTTPStatus() int {
	switch k {
	case InvalidEmail, InvalidOperation:
		return http.StatusBadRequest
	case NotFound:
		return http.StatusNotFound
	case InvalidCredentials:
		return http.StatusUnauthorized
	case DatabaseError:
		return http.StatusInternalServerError
	}
	return http.StatusInternalServerError
}

// Error is a typed domain error. Message is user facing; Err optionally
// wraps the underlying cause for logs and errors.Is/As chains.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports kind equality so callers can match with
// errors.Is(err, &Error{Kind: NotFound}).
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind
}

// New builds a typed error without an underlying cause.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap attaches a kind and user-facing message to an underlying error.
// Wrapping a nil error returns nil.
func Wrap(kind Kind, message string, err error) *Error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf extracts the kind from an error chain. Errors that are not
// *Error are reported as DatabaseError, the generic 500 fallback.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return DatabaseError
}

// MessageOf returns the user-facing message for an error chain. Untyped
// errors get a generic message so internals never reach clients.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "internal server error"
}
