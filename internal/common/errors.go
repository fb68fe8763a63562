// Package common defines shared constants and sentinel errors used across
// the server, the client and the stores. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Credential errors.
	ErrConflict        = errors.New("username already registered")
	ErrUnauthenticated = errors.New("invalid username or password")
	ErrValidation      = errors.New("validation error")

	// Id minting gave up after the collision retry budget.
	ErrIDSpaceExhausted = errors.New("id space exhausted")

	// Auth errors (invalid or malformed cookie token).
	ErrInvalidToken = errors.New("invalid token")

	// Protocol errors.
	ErrMalformedMessage = errors.New("malformed message")
	ErrDeliveryFailure  = errors.New("delivery failure")
)
