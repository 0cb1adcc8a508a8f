// Package apierror defines the error taxonomy surfaced through the API's
// uniform error envelope. Handlers tag failures with a kind instead of
// throwing; the response layer maps kinds to HTTP status codes.
package apierror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an API failure.
type Kind int

const (
	// Validation marks malformed or missing input.
	Validation Kind = iota + 1
	// NotFound marks an absent referenced entity.
	NotFound
	// Authorization marks an actor/owner mismatch.
	Authorization
	// Conflict marks duplicate state, such as a video already in a playlist.
	Conflict
	// Upstream marks an external media store failure.
	Upstream
	// Internal marks an unexpected persistence or server failure.
	Internal
)

// Error carries a kind alongside a human-readable message safe to return to
// clients. The wrapped cause, if any, stays server-side.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap exposes the underlying cause for errors.Is/As chains.
func (e *Error) Unwrap() error {
	return e.Err
}

// New returns a tagged error with a client-facing message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf returns a tagged error with a formatted client-facing message.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap tags an underlying error with a kind and a client-facing message.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf extracts the kind from err, defaulting to Internal for untagged
// errors.
func KindOf(err error) Kind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return Internal
}

// MessageOf returns the client-facing message for err. Untagged errors map to
// a generic message so internals never leak to clients.
func MessageOf(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return "internal server error"
}

// StatusOf maps an error's kind to its HTTP status code.
func StatusOf(err error) int {
	switch KindOf(err) {
	case Validation:
		return http.StatusBadRequest
	case NotFound:
		return http.StatusNotFound
	case Authorization:
		return http.StatusForbidden
	case Conflict:
		return http.StatusConflict
	case Upstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
