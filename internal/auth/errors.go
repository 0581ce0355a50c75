// Package auth derives an authenticated identity from a request and
// defines the error kinds the login flow exposes to clients.
package auth

import "errors"

// Sentinel errors for the login flow. The callback handler surfaces
// only these; specific causes stay in the server log.
var (
	ErrNoCode        = errors.New("authorization code is required")
	ErrNoAccessToken = errors.New("no access token")
	ErrInvalidToken  = errors.New("invalid token")
	ErrUserIDMissing = errors.New("user id not found")
	ErrAuth          = errors.New("authorization failed")
)
