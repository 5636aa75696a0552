package mfa

import "errors"

// Errors returned to callers of Service. Token failures are joined with
// ErrUnauthorized and storage or delivery failures with ErrServiceUnavailable,
// so both the category and the cause can be tested with errors.Is.
var (
	ErrValidationFailed     = errors.New("validation failed")
	ErrConflict             = errors.New("email already registered")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrInvalidCode          = errors.New("invalid code")
	ErrInvalidOrExpiredCode = errors.New("invalid or expired code")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrServiceUnavailable   = errors.New("service unavailable")
)

// Token verification causes.
var (
	ErrExpired        = errors.New("token expired")
	ErrWrongPurpose   = errors.New("token purpose mismatch")
	ErrMalformedToken = errors.New("malformed token")
	ErrTokenReplayed  = errors.New("token already used")
)

// Storage errors. CredentialStore implementations must return these so the
// service can tell "absent" apart from "broken".
var (
	ErrUserNotFound = errors.New("user not found")
	ErrOTPNotFound  = errors.New("no active one-time code")
)

// Configuration errors.
var (
	ErrMissingSigningKey  = errors.New("mfa: signing key is required")
	ErrNoDeliverer        = errors.New("mfa: no code deliverer configured")
	ErrUnsupportedFactor  = errors.New("unsupported second factor")
	ErrInvalidSecretStore = errors.New("mfa: stored TOTP secret cannot be read")
)
