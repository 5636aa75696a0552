package totp

import "errors"

// Input errors.
var (
	ErrMissingSecret      = errors.New("missing secret")
	ErrInvalidSecret      = errors.New("invalid secret")
	ErrMissingAccountName = errors.New("missing account name")
	ErrMissingIssuer      = errors.New("missing issuer")
	ErrInvalidOTP         = errors.New("invalid OTP format")
)

// Code and key URI errors.
var (
	ErrFailedToGenerateSecretKey = errors.New("failed to generate TOTP secret key")
	ErrFailedToGenerateTOTP      = errors.New("failed to generate TOTP")
	ErrFailedToValidateTOTP      = errors.New("failed to validate TOTP")
	ErrFailedToBuildURI          = errors.New("failed to build TOTP key URI")
)

// Secret encryption errors.
var (
	ErrEncryptionKeyNotSet           = errors.New("TOTP encryption key not set")
	ErrInvalidEncryptionKeyLength    = errors.New("invalid encryption key length")
	ErrFailedToLoadEncryptionKey     = errors.New("failed to load encryption key")
	ErrFailedToGenerateEncryptionKey = errors.New("failed to generate encryption key")
	ErrFailedToEncryptSecret         = errors.New("failed to encrypt TOTP secret")
	ErrFailedToDecryptSecret         = errors.New("failed to decrypt TOTP secret")
	ErrInvalidCipherTooShort         = errors.New("cipher text too short")
)
