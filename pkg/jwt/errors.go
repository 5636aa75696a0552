package jwt

import "errors"

var (
	ErrInvalidToken            = errors.New("jwt: invalid token")
	ErrExpiredToken            = errors.New("jwt: token is expired")
	ErrMissingSigningKey       = errors.New("jwt: missing signing key")
	ErrInvalidSigningKey       = errors.New("jwt: signing key is too short")
	ErrMissingClaims           = errors.New("jwt: missing claims")
	ErrFailedToSign            = errors.New("jwt: failed to sign token")
	ErrInvalidSignature        = errors.New("jwt: invalid signature")
	ErrUnexpectedSigningMethod = errors.New("jwt: unexpected signing method")
	ErrWrongPurpose            = errors.New("jwt: token purpose mismatch")
)
