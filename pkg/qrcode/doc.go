// Package qrcode renders TOTP key URIs as scannable QR codes: PNG bytes,
// a base64 data URI for JSON responses, or a compact text block for terminals.
// It is a thin wrapper around github.com/skip2/go-qrcode.
package qrcode
