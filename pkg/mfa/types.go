package mfa

import (
	"time"

	"github.com/google/uuid"
)

// TokenPurpose separates session tokens from pre-second-factor tokens.
// A token is only accepted where its purpose is expected.
type TokenPurpose string

const (
	PurposeSession    TokenPurpose = "session"
	PurposeMFAPending TokenPurpose = "mfa_pending"
)

// OTPPurpose scopes one-time code records. Only one live record exists per
// user and purpose.
type OTPPurpose string

const PurposeEmailOTP OTPPurpose = "email_otp"

// FactorKind names a second factor.
type FactorKind string

const (
	FactorTOTP     FactorKind = "totp"
	FactorEmailOTP FactorKind = "email_otp"
)

// SupportedFactors lists every FactorKind the service can verify.
var SupportedFactors = []FactorKind{FactorTOTP, FactorEmailOTP}

// SecondFactor is a second-factor proof submitted against a temp token.
type SecondFactor struct {
	Kind FactorKind
	Code string
}

// User is the persisted account.
type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash []byte
	TOTPSecret   string // sealed with the configured SecretCipher, if any
	MFAEnabled   bool
	CreatedAt    time.Time
}

// HasTOTP reports whether an authenticator app is enrolled.
func (u *User) HasTOTP() bool {
	return u.TOTPSecret != ""
}

// OTPRecord is a hashed one-time code awaiting verification.
type OTPRecord struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Hash      string
	Purpose   OTPPurpose
	ExpiresAt time.Time
	Consumed  bool
	CreatedAt time.Time
}

// Live reports whether the record can still be matched at now.
func (r *OTPRecord) Live(now time.Time) bool {
	return !r.Consumed && !now.After(r.ExpiresAt)
}

// LoginResult is the outcome of a successful first factor. Exactly one of
// SessionToken and TempToken is set.
type LoginResult struct {
	SessionToken         string
	TempToken            string
	RequiresSecondFactor bool
	Factors              []FactorKind
	ExpiresAt            time.Time
}

// Session is a fully authenticated session token.
type Session struct {
	UserID    uuid.UUID
	Token     string
	ExpiresAt time.Time
}

// Enrollment is what a user needs to add the account to an authenticator app.
type Enrollment struct {
	Secret string
	KeyURI string
	QRCode string // PNG data URI
}

// Profile is the public view of a user.
type Profile struct {
	ID           uuid.UUID
	Email        string
	MFAEnabled   bool
	TOTPEnrolled bool
	CreatedAt    time.Time
}
