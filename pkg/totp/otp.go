package totp

import (
	"crypto/rand"
	"encoding/base32"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/pquerna/otp"
	pqtotp "github.com/pquerna/otp/totp"
)

const (
	DefaultDigits    = 6  // Standard 6-digit TOTP codes
	DefaultPeriod    = 30 // 30-second time step (RFC 6238 standard)
	DefaultDrift     = 1  // Accept one step in the past and in the future
	DefaultAlgorithm = "SHA1"

	secretSize = 20 // 160-bit secret (RFC 4226 recommendation)
)

var (
	// ValidateSecretKeyRegex ensures Base32 format: uppercase A-Z, digits 2-7, optional padding
	ValidateSecretKeyRegex = regexp.MustCompile("^[A-Z2-7]+=*$")

	codeRegex = regexp.MustCompile(fmt.Sprintf(`^\d{%d}$`, DefaultDigits))

	b32NoPadding = base32.StdEncoding.WithPadding(base32.NoPadding)
)

// validateOpts pins every parameter so that codes match what authenticator apps compute
// from the provisioning URI.
var validateOpts = pqtotp.ValidateOpts{
	Period:    DefaultPeriod,
	Digits:    otp.DigitsSix,
	Algorithm: otp.AlgorithmSHA1,
}

// GenerateSecretKey generates a new Base32-encoded secret key for TOTP.
func GenerateSecretKey() (string, error) {
	secret := make([]byte, secretSize)
	if _, err := rand.Read(secret); err != nil {
		return "", errors.Join(ErrFailedToGenerateSecretKey, err)
	}
	return b32NoPadding.EncodeToString(secret), nil
}

// Counter returns the RFC 6238 time-step counter for t.
func Counter(t time.Time) int64 {
	return t.Unix() / DefaultPeriod
}

// GenerateCodeAt computes the code for the time step containing t.
func GenerateCodeAt(secret string, t time.Time) (string, error) {
	secret, err := normalizeSecret(secret)
	if err != nil {
		return "", err
	}

	code, err := pqtotp.GenerateCodeCustom(secret, t, validateOpts)
	if err != nil {
		return "", errors.Join(ErrFailedToGenerateTOTP, err)
	}
	return code, nil
}

// GenerateTOTP generates a code for the current time step.
func GenerateTOTP(secret string) (string, error) {
	return GenerateCodeAt(secret, time.Now())
}

// ValidateAt reports whether code matches the counter of t or any counter within
// ±drift steps. Each candidate is compared in constant time.
func ValidateAt(secret, code string, t time.Time, drift uint) (bool, error) {
	secret, err := normalizeSecret(secret)
	if err != nil {
		return false, err
	}

	code = strings.TrimSpace(code)
	if !codeRegex.MatchString(code) {
		return false, ErrInvalidOTP
	}

	opts := validateOpts
	opts.Skew = drift

	ok, err := pqtotp.ValidateCustom(code, secret, t, opts)
	if err != nil {
		return false, errors.Join(ErrFailedToValidateTOTP, err)
	}
	return ok, nil
}

// ValidateTOTP validates code against the current time with the default drift tolerance.
func ValidateTOTP(secret, code string) (bool, error) {
	return ValidateAt(secret, code, time.Now(), DefaultDrift)
}

func normalizeSecret(secret string) (string, error) {
	secret = strings.TrimSpace(strings.ToUpper(secret))
	if secret == "" {
		return "", ErrMissingSecret
	}
	if !ValidateSecretKeyRegex.MatchString(secret) {
		return "", ErrInvalidSecret
	}
	return secret, nil
}
