package mfa

import (
	"log/slog"
	"time"

	"github.com/dmitrymomot/mfakit/pkg/validator"
)

// Option configures a Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithSpentTokens sets the store used to reject replayed temp tokens.
// Defaults to a MemorySpentTokens, which only works for a single process.
func WithSpentTokens(store SpentTokens) Option {
	return func(s *Service) {
		s.spent = store
	}
}

// WithDeliverer sets how email codes are sent.
func WithDeliverer(d Deliverer) Option {
	return func(s *Service) {
		s.deliverer = d
	}
}

// WithSecretCipher seals TOTP secrets at rest. It takes precedence over
// Config.EncryptionKey.
func WithSecretCipher(c SecretCipher) Option {
	return func(s *Service) {
		s.cipher = c
	}
}

// WithPasswordPolicy overrides the password requirements applied at registration.
func WithPasswordPolicy(policy validator.PasswordPolicy) Option {
	return func(s *Service) {
		s.passwordPolicy = policy
	}
}

// WithClock overrides time.Now. Tokens, code expiry and TOTP windows all use it.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}
