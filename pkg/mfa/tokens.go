package mfa

import (
	"errors"
	"net/http"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dmitrymomot/mfakit/pkg/jwt"
)

// TokenClaims is the verified content of a session or temp token.
type TokenClaims struct {
	ID        string
	UserID    uuid.UUID
	Purpose   TokenPurpose
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// IssuedToken is a freshly signed token.
type IssuedToken struct {
	Token     string
	ID        string
	ExpiresAt time.Time
}

// TokenIssuer mints and verifies the stateless tokens of the flow.
type TokenIssuer struct {
	jwt        *jwt.Service
	sessionTTL time.Duration
	tempTTL    time.Duration
}

// NewTokenIssuer builds an issuer from cfg. now may be nil.
func NewTokenIssuer(cfg Config, now func() time.Time) (*TokenIssuer, error) {
	if cfg.SigningKey == "" {
		return nil, ErrMissingSigningKey
	}
	cfg = cfg.normalize()

	svc, err := jwt.NewFromString(cfg.SigningKey, jwt.WithIssuer(cfg.Issuer), jwt.WithTimeFunc(now))
	if err != nil {
		return nil, err
	}

	return &TokenIssuer{
		jwt:        svc,
		sessionTTL: cfg.SessionTTL,
		tempTTL:    cfg.TempTokenTTL,
	}, nil
}

// IssueSession mints a session token.
func (i *TokenIssuer) IssueSession(userID uuid.UUID) (*IssuedToken, error) {
	return i.issue(userID, PurposeSession, i.sessionTTL)
}

// IssueTemp mints a pre-second-factor token.
func (i *TokenIssuer) IssueTemp(userID uuid.UUID) (*IssuedToken, error) {
	return i.issue(userID, PurposeMFAPending, i.tempTTL)
}

func (i *TokenIssuer) issue(userID uuid.UUID, purpose TokenPurpose, ttl time.Duration) (*IssuedToken, error) {
	now := i.jwt.Now()
	id := uuid.NewString()
	exp := now.Add(ttl)

	token, err := i.jwt.Generate(jwt.Claims{
		RegisteredClaims: gojwt.RegisteredClaims{
			ID:        id,
			Subject:   userID.String(),
			IssuedAt:  gojwt.NewNumericDate(now),
			ExpiresAt: gojwt.NewNumericDate(exp),
		},
		Purpose: string(purpose),
	})
	if err != nil {
		return nil, err
	}

	return &IssuedToken{Token: token, ID: id, ExpiresAt: exp.Truncate(time.Second)}, nil
}

// Verify checks the signature and expiry of token and that it was minted
// for purpose. Errors are ErrMalformedToken, ErrExpired or ErrWrongPurpose.
func (i *TokenIssuer) Verify(token string, purpose TokenPurpose) (*TokenClaims, error) {
	claims, err := i.jwt.Parse(token)
	if err != nil {
		if errors.Is(err, jwt.ErrExpiredToken) {
			return nil, ErrExpired
		}
		return nil, ErrMalformedToken
	}

	if TokenPurpose(claims.Purpose) != purpose {
		return nil, ErrWrongPurpose
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil || claims.ID == "" || claims.IssuedAt == nil {
		return nil, ErrMalformedToken
	}

	return &TokenClaims{
		ID:        claims.ID,
		UserID:    userID,
		Purpose:   purpose,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// Middleware admits requests carrying a valid Bearer token minted for
// purpose and stores the raw token in the request context, where
// jwt.GetToken reads it. Rejections go to onError.
func (i *TokenIssuer) Middleware(purpose TokenPurpose, onError jwt.ErrorHandlerFunc) func(http.Handler) http.Handler {
	return jwt.MiddlewareWithConfig(jwt.MiddlewareConfig{
		Service:      i.jwt,
		Purpose:      string(purpose),
		ErrorHandler: onError,
	})
}
