// Package apperror defines the error kinds every usecase reports to the HTTP
// boundary. A kind is stable and machine-checkable; the message and detail
// are what the client sees.
package apperror

import (
	"errors"
	"net/http"
)

// Kind classifies a failure
type Kind string

const (
	KindValidation      Kind = "validation"
	KindConflict        Kind = "conflict"
	KindUnauthorized    Kind = "unauthorized"
	KindForbidden       Kind = "forbidden"
	KindNotFound        Kind = "not_found"
	KindTooManyRequests Kind = "too_many_requests"
	KindInternal        Kind = "internal"
)

// Error is a classified failure.
// Message is the short summary, Detail the human explanation rendered in the
// "error" field of the response envelope.
type Error struct {
	Kind    Kind
	Message string
	Detail  string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Detail + ": " + e.Err.Error()
	}
	return e.Detail
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a classified error without a cause
func New(kind Kind, message, detail string) *Error {
	return &Error{Kind: kind, Message: message, Detail: detail}
}

// Wrap creates a classified error around a cause
func Wrap(kind Kind, message, detail string, err error) *Error {
	return &Error{Kind: kind, Message: message, Detail: detail, Err: err}
}

// Internal wraps an unexpected failure
func Internal(detail string, err error) *Error {
	return Wrap(KindInternal, "Server error", detail, err)
}

// KindOf returns the kind of err. Unclassified errors are internal.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// StatusCode maps a kind to its HTTP status.
// Conflict renders as 400, matching the public API contract.
func StatusCode(kind Kind) int {
	switch kind {
	case KindValidation, KindConflict:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindTooManyRequests:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
