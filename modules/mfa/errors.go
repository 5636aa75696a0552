package mfa

import (
	"errors"
	"net/http"

	"github.com/dmitrymomot/mfakit/handler"
	"github.com/dmitrymomot/mfakit/pkg/mfa"
)

// classify maps service errors to HTTP errors. Token failures share one
// response except for expiry, so clients know to log in again.
func classify(err error) (handler.HTTPError, bool) {
	switch {
	case errors.Is(err, mfa.ErrValidationFailed):
		return handler.HTTPError{Status: http.StatusBadRequest, Code: "validation_failed", Message: "request validation failed"}, true
	case errors.Is(err, mfa.ErrConflict):
		return handler.HTTPError{Status: http.StatusConflict, Code: "email_taken", Message: "email already registered"}, true
	case errors.Is(err, mfa.ErrInvalidCredentials):
		return handler.HTTPError{Status: http.StatusUnauthorized, Code: "invalid_credentials", Message: "invalid email or password"}, true
	case errors.Is(err, mfa.ErrInvalidCode):
		return handler.HTTPError{Status: http.StatusUnauthorized, Code: "invalid_code", Message: "invalid code"}, true
	case errors.Is(err, mfa.ErrInvalidOrExpiredCode):
		return handler.HTTPError{Status: http.StatusUnauthorized, Code: "invalid_or_expired_code", Message: "invalid or expired code"}, true
	case errors.Is(err, mfa.ErrUnauthorized) && errors.Is(err, mfa.ErrExpired):
		return handler.HTTPError{Status: http.StatusUnauthorized, Code: "token_expired", Message: "token expired"}, true
	case errors.Is(err, mfa.ErrUnauthorized):
		return handler.ErrUnauthorized, true
	case errors.Is(err, mfa.ErrServiceUnavailable):
		return handler.ErrServiceUnavailable, true
	}
	return handler.HTTPError{}, false
}
