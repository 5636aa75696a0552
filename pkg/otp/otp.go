// Package otp generates numeric one-time codes for out-of-band delivery
// (email, SMS) and hashes them for storage.
package otp

import (
	"crypto/rand"
	"errors"
	"math/big"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const (
	// DefaultLength is the number of digits in a generated code.
	DefaultLength = 6
	// DefaultCost is the bcrypt cost used for code hashes.
	DefaultCost = bcrypt.DefaultCost
)

var (
	ErrInvalidLength    = errors.New("otp: invalid code length")
	ErrFailedToGenerate = errors.New("otp: failed to generate code")
	ErrFailedToHash     = errors.New("otp: failed to hash code")
	ErrMismatch         = errors.New("otp: code mismatch")
)

// GenerateCode returns a uniformly random numeric code with exactly length digits.
// Leading zeros are allowed.
func GenerateCode(length int) (string, error) {
	if length <= 0 || length > 18 {
		return "", ErrInvalidLength
	}

	var b strings.Builder
	b.Grow(length)
	ten := big.NewInt(10)
	for range length {
		n, err := rand.Int(rand.Reader, ten)
		if err != nil {
			return "", errors.Join(ErrFailedToGenerate, err)
		}
		b.WriteByte(byte('0' + n.Int64()))
	}
	return b.String(), nil
}

// Hash returns the bcrypt hash of code. A cost outside bcrypt's range falls back to DefaultCost.
func Hash(code string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	h, err := bcrypt.GenerateFromPassword([]byte(code), cost)
	if err != nil {
		return "", errors.Join(ErrFailedToHash, err)
	}
	return string(h), nil
}

// Compare checks code against a hash produced by Hash.
func Compare(code, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(code)); err != nil {
		return errors.Join(ErrMismatch, err)
	}
	return nil
}
