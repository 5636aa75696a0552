package mfa

import (
	"time"

	"github.com/dmitrymomot/mfakit/pkg/otp"
	"github.com/dmitrymomot/mfakit/pkg/totp"
)

// Config holds the authentication policy. Load it with pkg/config or start
// from DefaultConfig.
type Config struct {
	SigningKey     string        `env:"MFA_SIGNING_KEY,required,notEmpty"`
	Issuer         string        `env:"MFA_ISSUER" envDefault:"mfakit"`
	SessionTTL     time.Duration `env:"MFA_SESSION_TTL" envDefault:"15m"`
	TempTokenTTL   time.Duration `env:"MFA_TEMP_TOKEN_TTL" envDefault:"5m"`
	EmailOTPTTL    time.Duration `env:"MFA_EMAIL_OTP_TTL" envDefault:"5m"`
	EmailOTPLength int           `env:"MFA_EMAIL_OTP_LENGTH" envDefault:"6"`
	TOTPDrift      uint          `env:"MFA_TOTP_DRIFT" envDefault:"1"` // time steps accepted on each side
	BcryptCost     int           `env:"MFA_BCRYPT_COST" envDefault:"10"`
	QRCodeSize     int           `env:"MFA_QR_CODE_SIZE" envDefault:"256"`
	EncryptionKey  string        `env:"TOTP_ENCRYPTION_KEY"` // base64 AES-256 key; secrets stored in plaintext when empty
}

// DefaultConfig returns the same values as the env defaults, with the given signing key.
func DefaultConfig(signingKey string) Config {
	return Config{
		SigningKey:     signingKey,
		Issuer:         "mfakit",
		SessionTTL:     15 * time.Minute,
		TempTokenTTL:   5 * time.Minute,
		EmailOTPTTL:    5 * time.Minute,
		EmailOTPLength: otp.DefaultLength,
		TOTPDrift:      totp.DefaultDrift,
		BcryptCost:     otp.DefaultCost,
		QRCodeSize:     256,
	}
}

// normalize fills zero durations and sizes. TOTPDrift is left alone since zero
// is a valid choice.
func (c Config) normalize() Config {
	d := DefaultConfig(c.SigningKey)
	if c.Issuer == "" {
		c.Issuer = d.Issuer
	}
	if c.SessionTTL <= 0 {
		c.SessionTTL = d.SessionTTL
	}
	if c.TempTokenTTL <= 0 {
		c.TempTokenTTL = d.TempTokenTTL
	}
	if c.EmailOTPTTL <= 0 {
		c.EmailOTPTTL = d.EmailOTPTTL
	}
	if c.EmailOTPLength <= 0 {
		c.EmailOTPLength = d.EmailOTPLength
	}
	if c.BcryptCost <= 0 {
		c.BcryptCost = d.BcryptCost
	}
	if c.QRCodeSize <= 0 {
		c.QRCodeSize = d.QRCodeSize
	}
	return c
}
