package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Category sentinels. Every *Error unwraps to exactly one of the first
// three; ErrUnauthorized and ErrUnavailable are cross-cutting conditions
// recognized by Error.Is. All are matchable with errors.Is.
var (
	ErrAuth  = errors.New("authentication failed")
	ErrWrite = errors.New("write rejected")
	ErrRead  = errors.New("read failed")

	ErrUnauthorized = errors.New("unauthorized")
	ErrUnavailable  = errors.New("server unavailable")
)

// Error is a backend failure with a category and a human-readable message
// sourced from the response body when the backend provided one.
type Error struct {
	Kind    error
	Message string
	Status  int

	// transport marks failures where the request never completed, so no
	// status or body exists.
	transport bool
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%v: %s", e.Kind, e.Message)
	}
	return e.Kind.Error()
}

func (e *Error) Unwrap() error { return e.Kind }

// Is matches the cross-cutting sentinels in addition to the Kind chain:
// ErrUnauthorized for 401/403 responses and ErrUnavailable when the
// backend could not be reached at all.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
	case ErrUnavailable:
		return e.transport
	}
	return false
}
