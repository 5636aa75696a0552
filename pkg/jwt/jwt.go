package jwt

import (
	"errors"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

// SigningMethod is the only algorithm the service signs with or accepts.
var SigningMethod = gojwt.SigningMethodHS256

// minKeyLength is the shortest HMAC key accepted by New.
const minKeyLength = 32

// Claims are the registered RFC 7519 claims plus a purpose tag that keeps
// tokens minted for different flows from being accepted in place of each other.
type Claims struct {
	gojwt.RegisteredClaims
	Purpose string `json:"pur,omitempty"`
}

// Service signs and verifies HS256 tokens.
// The signing key is kept in memory only.
type Service struct {
	signingKey []byte
	issuer     string
	now        func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithIssuer sets the iss claim on generated tokens and requires it on parsed ones.
func WithIssuer(issuer string) Option {
	return func(s *Service) {
		s.issuer = issuer
	}
}

// WithTimeFunc overrides the clock used for issuing and validating tokens.
func WithTimeFunc(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New creates a JWT service. The key must be at least 32 bytes.
func New(signingKey []byte, opts ...Option) (*Service, error) {
	if len(signingKey) == 0 {
		return nil, ErrMissingSigningKey
	}
	if len(signingKey) < minKeyLength {
		return nil, ErrInvalidSigningKey
	}

	s := &Service{
		signingKey: signingKey,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// NewFromString is a convenience wrapper around New for string-based configuration.
func NewFromString(signingKey string, opts ...Option) (*Service, error) {
	return New([]byte(signingKey), opts...)
}

// Now returns the service clock.
func (s *Service) Now() time.Time {
	return s.now()
}

// Generate signs claims. IssuedAt and Issuer are filled in when empty.
func (s *Service) Generate(claims Claims) (string, error) {
	if claims.ExpiresAt == nil {
		return "", ErrMissingClaims
	}
	if claims.IssuedAt == nil {
		claims.IssuedAt = gojwt.NewNumericDate(s.now())
	}
	if claims.Issuer == "" {
		claims.Issuer = s.issuer
	}

	token, err := gojwt.NewWithClaims(SigningMethod, claims).SignedString(s.signingKey)
	if err != nil {
		return "", errors.Join(ErrFailedToSign, err)
	}
	return token, nil
}

// Parse verifies the signature, algorithm and temporal claims of tokenString.
// The returned error is one of ErrInvalidToken, ErrExpiredToken,
// ErrInvalidSignature or ErrUnexpectedSigningMethod joined with the cause.
func (s *Service) Parse(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrInvalidToken
	}

	parserOpts := []gojwt.ParserOption{
		gojwt.WithValidMethods([]string{SigningMethod.Alg()}),
		gojwt.WithTimeFunc(s.now),
		gojwt.WithExpirationRequired(),
	}
	if s.issuer != "" {
		parserOpts = append(parserOpts, gojwt.WithIssuer(s.issuer))
	}

	claims := &Claims{}
	token, err := gojwt.ParseWithClaims(tokenString, claims, s.keyFunc, parserOpts...)
	if err != nil {
		if token != nil && token.Method != nil && token.Method.Alg() != SigningMethod.Alg() {
			return nil, errors.Join(ErrUnexpectedSigningMethod, err)
		}
		return nil, classify(err)
	}
	return claims, nil
}

func (s *Service) keyFunc(t *gojwt.Token) (any, error) {
	if _, ok := t.Method.(*gojwt.SigningMethodHMAC); !ok {
		return nil, ErrUnexpectedSigningMethod
	}
	return s.signingKey, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, gojwt.ErrTokenExpired):
		return errors.Join(ErrExpiredToken, err)
	case errors.Is(err, ErrUnexpectedSigningMethod):
		return errors.Join(ErrUnexpectedSigningMethod, err)
	case errors.Is(err, gojwt.ErrTokenSignatureInvalid):
		return errors.Join(ErrInvalidSignature, err)
	default:
		return errors.Join(ErrInvalidToken, err)
	}
}
