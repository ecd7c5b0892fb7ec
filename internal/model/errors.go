// Package model holds the plain data structures that mirror the relational
// schema, together with the sentinel errors shared by the repository and
// service layers. Handlers match these with errors.Is and translate them
// into HTTP status codes.
package model

import "errors"

// Authentication and session errors.
var (
	// ErrInvalidCredentials covers both "no such user" and "wrong password"
	// so that callers cannot tell the two apart.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidToken is returned for unknown or already-revoked refresh
	// tokens. A rotated token presented a second time fails with this.
	ErrInvalidToken = errors.New("invalid refresh token")

	// ErrExpiredToken is returned when a stored refresh token exists but its
	// expiry has passed.
	ErrExpiredToken = errors.New("refresh token expired")

	ErrUserNotFound      = errors.New("user not found")
	ErrDuplicateEmail    = errors.New("email already registered")
	ErrDuplicateUsername = errors.New("username already registered")
)

// Role errors.
var (
	ErrRoleNotFound        = errors.New("role not found")
	ErrDuplicateRoleName   = errors.New("role name already exists")
	ErrRoleAlreadyAssigned = errors.New("role already assigned to user")
)

// Ranking errors.
var (
	ErrPlayerNotFound      = errors.New("player not found")
	ErrDuplicatePlayerName = errors.New("player name already registered")
	ErrMatchNotFound       = errors.New("match history not found")
)

// Content errors.
var (
	ErrNewsNotFound  = errors.New("news article not found")
	ErrEventNotFound = errors.New("event not found")
)
