package totp

import (
	"errors"
	"strings"

	"github.com/pquerna/otp"
	pqtotp "github.com/pquerna/otp/totp"
)

// ProvisionParams describes the enrollment material shown to a user.
type ProvisionParams struct {
	Secret      string // Base32-encoded secret (required)
	AccountName string // User identifier like email (required)
	Issuer      string // Service name displayed in authenticator apps (required)
}

// Validate ensures all required parameters are present and valid
func (p ProvisionParams) Validate() error {
	if p.Secret == "" {
		return ErrMissingSecret
	}
	if !ValidateSecretKeyRegex.MatchString(p.Secret) {
		return ErrInvalidSecret
	}
	if p.AccountName == "" {
		return ErrMissingAccountName
	}
	if p.Issuer == "" {
		return ErrMissingIssuer
	}
	return nil
}

// Provision returns the otpauth:// key URI for the given secret.
// The URI format follows the Key Uri Format specification:
// https://github.com/google/google-authenticator/wiki/Key-Uri-Format
func Provision(params ProvisionParams) (string, error) {
	params.Secret = strings.TrimSpace(strings.ToUpper(params.Secret))
	if err := params.Validate(); err != nil {
		return "", err
	}

	raw, err := b32NoPadding.DecodeString(strings.TrimRight(params.Secret, "="))
	if err != nil {
		return "", errors.Join(ErrInvalidSecret, err)
	}

	key, err := pqtotp.Generate(pqtotp.GenerateOpts{
		Issuer:      params.Issuer,
		AccountName: params.AccountName,
		Period:      DefaultPeriod,
		Secret:      raw,
		Digits:      otp.DigitsSix,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return "", errors.Join(ErrFailedToBuildURI, err)
	}

	return key.URL(), nil
}
