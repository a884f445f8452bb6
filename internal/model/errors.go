package model

import "errors"

// Common errors used across the application
var (
	// Lookup errors
	ErrUserNotFound = errors.New("platform user not found")

	// Authentication errors. Exchange and identity-fetch failures mean the
	// caller could not be verified; ErrNotAuthorized means the caller was
	// verified but is not allow-listed. The distinction is surfaced to the
	// client.
	ErrMissingCode         = errors.New("authorization code missing")
	ErrExchangeFailed      = errors.New("token exchange failed")
	ErrIdentityFetchFailed = errors.New("identity fetch failed")
	ErrNotAuthorized       = errors.New("identity is not allow-listed")

	// Session errors
	ErrSessionNotFound = errors.New("session not found")
	ErrInvalidSession  = errors.New("invalid or expired session")
)
