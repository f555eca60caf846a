// Package common contains shared sentinel errors and small helpers used
// across the server layers. Callers should use errors.Is to match the
// sentinel values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Credential verification errors. Kept distinct so the login form can
	// render field-scoped messages; the asymmetry discloses account
	// existence and is a deliberate product decision.
	ErrUserNotFound  = errors.New("no user found with this email")
	ErrWrongPassword = errors.New("password is incorrect")

	// Session errors. ErrAnonymous covers both a missing token and an
	// expired session that has been evicted.
	ErrAnonymous = errors.New("no active session")

	// Authorization errors.
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("forbidden")

	// Generic internal failure surfaced to users as a retry message.
	ErrInternal = errors.New("internal error")
)
