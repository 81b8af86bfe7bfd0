// Package apperr defines the typed failures returned by the shopping core.
// Every failure is client-visible; the HTTP layer maps Kind to a status code.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind string

const (
	KindNotFound        Kind = "not_found"
	KindForbidden       Kind = "forbidden"
	KindValidation      Kind = "validation_failed"
	KindConflict        Kind = "conflict"
	KindUnavailable     Kind = "unavailable"
	KindUnauthenticated Kind = "unauthenticated"
)

// Status returns the HTTP status for the kind.
func (k Kind) Status() int {
	switch k {
	case KindNotFound:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	case KindValidation:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindUnavailable:
		return http.StatusServiceUnavailable
	case KindUnauthenticated:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newf(kind Kind, format string, args ...any) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) error {
	return newf(KindNotFound, format, args...)
}

func Forbidden(format string, args ...any) error {
	return newf(KindForbidden, format, args...)
}

func Validation(format string, args ...any) error {
	return newf(KindValidation, format, args...)
}

func Conflict(format string, args ...any) error {
	return newf(KindConflict, format, args...)
}

func Unauthenticated(format string, args ...any) error {
	return newf(KindUnauthenticated, format, args...)
}

// Unavailable wraps a store or identity failure. The cause is kept for logs
// but never shown to clients.
func Unavailable(msg string, err error) error {
	return &Error{Kind: KindUnavailable, Message: msg, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain, or "" if there
// is none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Message returns the client-facing message for err.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "internal error"
}
