// Package totp implements RFC 6238 time-based one-time passwords on top of
// github.com/pquerna/otp, plus the helpers needed to enroll a user: secret
// generation, otpauth:// key URIs and AES-256-GCM encryption of secrets at rest.
//
// Codes are always 6 digits, SHA1, with a 30 second step, which is what every
// mainstream authenticator app computes from the provisioning URI.
//
// # Usage
//
//	secret, _ := totp.GenerateSecretKey()
//
//	uri, _ := totp.Provision(totp.ProvisionParams{
//	    Secret:      secret,
//	    AccountName: "alice@example.com",
//	    Issuer:      "Acme",
//	})
//
//	cipher, _ := totp.NewSecretCipherFromString(os.Getenv("TOTP_ENCRYPTION_KEY"))
//	stored, _ := cipher.Encrypt(secret)
//
//	ok, _ := totp.ValidateAt(secret, "123456", time.Now(), totp.DefaultDrift)
//
// # Error Handling
//
// Errors are package level sentinels, possibly joined with the underlying cause.
// Use errors.Is against ErrInvalidSecret, ErrInvalidOTP, ErrFailedToDecryptSecret etc.
package totp
