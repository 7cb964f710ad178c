package service

import "errors"

// Sentinel errors returned by the service layer. The API layer maps each of
// these to a client-visible status; none of them crash the process.
var (
	// ErrNotFound is returned when a referenced user or product does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateProduct is returned when registering a product whose name is taken.
	ErrDuplicateProduct = errors.New("product already exists")

	// ErrMeasureMismatch is returned when a collection event's measure does
	// not match the measure the product was registered with.
	ErrMeasureMismatch = errors.New("measure does not match the registered one")

	// ErrAuthenticationFailed covers bad credentials and duplicate registration attempts.
	ErrAuthenticationFailed = errors.New("authentication failed")

	// ErrBlocked is returned when a blocked account tries to authenticate.
	ErrBlocked = errors.New("account is blocked")

	// ErrTokenInvalid is returned for malformed, unsigned or tampered tokens.
	ErrTokenInvalid = errors.New("invalid token")

	// ErrTokenExpired is returned for tokens past their expiry.
	ErrTokenExpired = errors.New("token expired")
)
