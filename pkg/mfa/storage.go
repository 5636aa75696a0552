package mfa

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// CredentialStore persists users and one-time code records.
//
// Implementations must make ReplaceOTP, EnableTOTP and ConsumeOTP atomic per
// user: ReplaceOTP invalidates every unconsumed record of the same user and
// purpose and inserts the new one in a single step, and ConsumeOTP succeeds for
// exactly one caller per record.
type CredentialStore interface {
	// CreateUser inserts a user. Returns ErrConflict when the email is taken.
	CreateUser(ctx context.Context, user *User) error
	// GetUserByEmail looks up a normalized email. Returns ErrUserNotFound.
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	// GetUserByID returns ErrUserNotFound for unknown ids.
	GetUserByID(ctx context.Context, id uuid.UUID) (*User, error)
	// EnableTOTP stores the (sealed) secret and sets MFAEnabled.
	EnableTOTP(ctx context.Context, userID uuid.UUID, secret string) error
	// ReplaceOTP invalidates prior live records and stores rec.
	ReplaceOTP(ctx context.Context, rec *OTPRecord) error
	// GetActiveOTP returns the newest record that is live at now, or ErrOTPNotFound.
	GetActiveOTP(ctx context.Context, userID uuid.UUID, purpose OTPPurpose, now time.Time) (*OTPRecord, error)
	// ConsumeOTP marks the record consumed. Returns ErrOTPNotFound if it was
	// already consumed or does not exist.
	ConsumeOTP(ctx context.Context, id uuid.UUID) error
}

// SpentTokens remembers token ids that were already used.
type SpentTokens interface {
	// MarkSpent records id until the given time and reports whether this call
	// was the first to do so.
	MarkSpent(ctx context.Context, id string, until time.Time) (bool, error)
}

// Deliverer sends a plaintext code to a destination (an email address).
type Deliverer interface {
	Deliver(ctx context.Context, destination, code string) error
}

// DelivererFunc adapts a function to Deliverer.
type DelivererFunc func(ctx context.Context, destination, code string) error

func (f DelivererFunc) Deliver(ctx context.Context, destination, code string) error {
	return f(ctx, destination, code)
}

// SecretCipher seals TOTP secrets before they are stored.
// *totp.SecretCipher satisfies it.
type SecretCipher interface {
	Encrypt(plain string) (string, error)
	Decrypt(sealed string) (string, error)
}
