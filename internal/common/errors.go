// Package common defines shared constants and sentinel errors used across
// the taskflow backend. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorForbidden    = errors.New("forbidden")
	ErrorValidation   = errors.New("validation error")

	// Access token errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Refresh token lifecycle errors. The three below are reported
	// identically to external callers; only logs distinguish them.
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
	ErrRefreshTokenReuse   = errors.New("refresh token reuse detected")

	// Throttling.
	ErrRateLimited = errors.New("rate limit exceeded")
)
