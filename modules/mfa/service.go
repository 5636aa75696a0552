package mfa

import (
	"context"

	"github.com/google/uuid"

	"github.com/dmitrymomot/mfakit/pkg/mfa"
)

// AuthService is the part of *mfa.Service the HTTP binding calls.
type AuthService interface {
	Register(ctx context.Context, email, password string) (uuid.UUID, error)
	Login(ctx context.Context, email, password string) (*mfa.LoginResult, error)
	EnableMFA(ctx context.Context, sessionToken string) (*mfa.Enrollment, error)
	ConfirmMFA(ctx context.Context, sessionToken, code string) error
	VerifyTOTP(ctx context.Context, tempToken, code string) (*mfa.Session, error)
	VerifySecondFactor(ctx context.Context, tempToken string, factor mfa.SecondFactor) (*mfa.Session, error)
	SendEmailOTP(ctx context.Context, email string) error
	VerifyEmailOTP(ctx context.Context, email, code, tempToken string) (*mfa.Session, error)
	GetProfile(ctx context.Context, sessionToken string) (*mfa.Profile, error)
	Tokens() *mfa.TokenIssuer
}

var _ AuthService = (*mfa.Service)(nil)
