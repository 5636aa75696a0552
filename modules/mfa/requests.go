package mfa

import (
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/mfakit/pkg/mfa"
	"github.com/dmitrymomot/mfakit/pkg/sanitizer"
	"github.com/dmitrymomot/mfakit/pkg/validator"
)

const (
	maxEmailLength = 254
	maxCodeLength  = 16
	totpDigits     = 6
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r credentialsRequest) Validate() error {
	return validator.Apply(
		validator.Required("email", r.Email),
		validator.MaxLen("email", r.Email, maxEmailLength),
		validator.Required("password", r.Password),
	)
}

type confirmRequest struct {
	Code string `json:"code"`
}

func (r confirmRequest) Validate() error {
	return validator.Apply(
		validator.ValidOTP("code", sanitizer.NormalizeCode(r.Code), totpDigits),
	)
}

type verifyTOTPRequest struct {
	TempToken string `json:"temp_token"`
	Code      string `json:"code"`
}

func (r verifyTOTPRequest) Validate() error {
	return validator.Apply(
		validator.Required("temp_token", r.TempToken),
		validator.ValidOTP("code", sanitizer.NormalizeCode(r.Code), totpDigits),
	)
}

type sendEmailOTPRequest struct {
	Email string `json:"email"`
}

func (r sendEmailOTPRequest) Validate() error {
	return validator.Apply(
		validator.ValidEmail("email", sanitizer.NormalizeEmail(r.Email)),
	)
}

type verifyEmailOTPRequest struct {
	Email     string `json:"email"`
	Code      string `json:"code"`
	TempToken string `json:"temp_token,omitempty"`
}

func (r verifyEmailOTPRequest) Validate() error {
	return validator.Apply(
		validator.ValidEmail("email", sanitizer.NormalizeEmail(r.Email)),
		validator.Required("code", r.Code),
		validator.MaxLen("code", r.Code, maxCodeLength),
	)
}

type verifyFactorRequest struct {
	TempToken string         `json:"temp_token"`
	Factor    mfa.FactorKind `json:"factor"`
	Code      string         `json:"code"`
}

func (r verifyFactorRequest) Validate() error {
	return validator.Apply(
		validator.Required("temp_token", r.TempToken),
		validator.OneOf("factor", r.Factor, mfa.SupportedFactors),
		validator.Required("code", r.Code),
		validator.MaxLen("code", r.Code, maxCodeLength),
	)
}

type registerResponse struct {
	UserID uuid.UUID `json:"user_id"`
}

type loginResponse struct {
	SessionToken         string           `json:"session_token,omitempty"`
	TempToken            string           `json:"temp_token,omitempty"`
	RequiresSecondFactor bool             `json:"requires_second_factor"`
	Factors              []mfa.FactorKind `json:"factors,omitempty"`
	ExpiresAt            time.Time        `json:"expires_at"`
}

type sessionResponse struct {
	SessionToken string    `json:"session_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

type enrollmentResponse struct {
	Secret          string `json:"secret"`
	ProvisioningURI string `json:"provisioning_uri"`
	QRCode          string `json:"qr_code"`
}

type confirmResponse struct {
	Confirmed bool `json:"confirmed"`
}

type ackResponse struct {
	Message string `json:"message"`
}

type profileResponse struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	MFAEnabled   bool      `json:"mfa_enabled"`
	TOTPEnrolled bool      `json:"totp_enrolled"`
	CreatedAt    time.Time `json:"created_at"`
}

func newSessionResponse(s *mfa.Session) sessionResponse {
	return sessionResponse{SessionToken: s.Token, ExpiresAt: s.ExpiresAt}
}
