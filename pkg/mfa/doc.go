// Package mfa is the authentication core: password registration and login,
// TOTP enrollment, and second-factor verification with TOTP or emailed codes.
//
// A login runs through a small state machine:
//
//	unauthenticated --Login (MFA off)--> session token
//	unauthenticated --Login (MFA on)---> temp token (purpose mfa_pending)
//	temp token ------valid code--------> session token
//	temp token ------invalid/expired---> unauthenticated
//
// Tokens are stateless HS256 JWTs issued by TokenIssuer. Session and temp
// tokens carry different purposes and are never accepted in place of each
// other. A temp token is spent on its first second-factor attempt (tracked by
// id in a SpentTokens store), so a failed code requires logging in again.
//
// Persistence is behind CredentialStore; see pkg/store/memory and
// pkg/store/postgres. Emailed codes leave through a Deliverer; see pkg/email.
//
// # Usage
//
//	svc, err := mfa.NewService(store, cfg,
//	    mfa.WithLogger(log),
//	    mfa.WithDeliverer(deliverer),
//	    mfa.WithSpentTokens(redisstore.NewSpentTokens(rdb)),
//	)
//	res, err := svc.Login(ctx, email, password)
//	if res.RequiresSecondFactor {
//	    session, err := svc.VerifyTOTP(ctx, res.TempToken, code)
//	}
//
// # Errors
//
// Callers test results with errors.Is against ErrValidationFailed, ErrConflict,
// ErrInvalidCredentials, ErrInvalidCode, ErrInvalidOrExpiredCode,
// ErrUnauthorized and ErrServiceUnavailable. Token failures additionally wrap
// the cause: ErrExpired, ErrWrongPurpose, ErrMalformedToken or ErrTokenReplayed.
package mfa
