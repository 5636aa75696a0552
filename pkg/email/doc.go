// Package email delivers one-time codes by email.
//
// NewDeliverer returns an mfa.Deliverer for the configured driver:
//
//   - postmark: renders the code email with templ and sends it via Postmark
//   - file: renders the same email and writes it to EMAIL_DEV_DIR
//   - log: writes the plaintext code to the logger (development only)
//
// EmailSender is the lower-level seam. CodeDeliverer adapts any EmailSender
// to mfa.Deliverer.
package email
