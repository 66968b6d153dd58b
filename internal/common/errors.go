// Package common defines shared constants and sentinel errors used across
// the service layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal = errors.New("internal error")

	// User / credential errors.
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("admin access required")

	// Token lifecycle errors.
	ErrInvalidToken   = errors.New("invalid token")
	ErrTokenExpired   = errors.New("token expired")
	ErrWrongTokenType = errors.New("wrong token type")
	ErrTokenRevoked   = errors.New("token revoked")

	// ErrAlreadyRevoked signals that a revocation record for the same jti
	// already exists. The auth service treats it the same as a revoked hit,
	// which is what makes concurrent duplicate rotations single-winner.
	ErrAlreadyRevoked = errors.New("token already revoked")

	// Currency errors.
	ErrInvalidCurrencyCode = errors.New("currency code is invalid")
	ErrRatesUnavailable    = errors.New("exchange rates unavailable")
)
