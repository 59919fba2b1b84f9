// Package common defines sentinel errors shared across profilekeeper layers.
// Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors (generic flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Token lifecycle errors. The HTTP boundary collapses all three into one
	// generic unauthorized response; the distinction exists for logs and
	// metrics only.
	ErrMissingToken = errors.New("missing token")
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// Profile-specific errors.
	ErrNoActivePhoto = errors.New("no active profile photo")
)
