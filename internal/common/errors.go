// Package common defines shared sentinel errors used across the RecipeDeck
// client. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// ErrNotFound is returned when a record id is unknown locally or remotely.
	ErrNotFound = errors.New("not found")

	// ErrNotAuthenticated is returned by operations that require an
	// established session when there is none.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrSubmitInFlight is returned when a draft submit is attempted while a
	// previous submit for the same draft has not completed.
	ErrSubmitInFlight = errors.New("submit already in flight")

	// ErrFormClosed is returned by draft operations when no form is open.
	ErrFormClosed = errors.New("form is not open")
)
