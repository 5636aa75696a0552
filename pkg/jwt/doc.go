// Package jwt signs and verifies HS256 JSON Web Tokens on top of
// github.com/golang-jwt/jwt/v5 and carries them through HTTP requests.
//
// Every token carries the registered claims plus a "pur" (purpose) claim.
// Parse only accepts HS256, requires exp, and reports failures through the
// package sentinels (ErrInvalidToken, ErrExpiredToken, ErrInvalidSignature,
// ErrUnexpectedSigningMethod) so callers never need to import golang-jwt.
//
// # Usage
//
//	svc, err := jwt.New(key, jwt.WithIssuer("mfakit"))
//	token, err := svc.Generate(jwt.Claims{
//	    RegisteredClaims: gojwt.RegisteredClaims{
//	        Subject:   userID.String(),
//	        ExpiresAt: gojwt.NewNumericDate(time.Now().Add(15 * time.Minute)),
//	    },
//	    Purpose: "session",
//	})
//
//	r.With(jwt.Middleware(svc, "session")).Get("/profile", handler)
//
// Inside the handler, GetToken and GetClaims return what the middleware verified.
package jwt
