package totp_test

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mfakit/pkg/totp"
)

func TestSecretCipher_RoundTrip(t *testing.T) {
	t.Parallel()

	c, err := totp.NewSecretCipher(make([]byte, 32))
	require.NoError(t, err)

	tests := []struct {
		name  string
		plain string
	}{
		{name: "base32 secret", plain: "JBSWY3DPEHPK3PXPJBSWY3DPEHPK3PXP"},
		{name: "empty secret", plain: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			enc, err := c.Encrypt(tt.plain)
			require.NoError(t, err)
			assert.NotEqual(t, tt.plain, enc)

			dec, err := c.Decrypt(enc)
			require.NoError(t, err)
			assert.Equal(t, tt.plain, dec)
		})
	}
}

func TestSecretCipher_NonceIsRandom(t *testing.T) {
	t.Parallel()

	c, err := totp.NewSecretCipher(make([]byte, 32))
	require.NoError(t, err)

	a, err := c.Encrypt("SECRET")
	require.NoError(t, err)
	b, err := c.Encrypt("SECRET")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestNewSecretCipher_InvalidKey(t *testing.T) {
	t.Parallel()

	_, err := totp.NewSecretCipher(make([]byte, 16))
	assert.ErrorIs(t, err, totp.ErrInvalidEncryptionKeyLength)

	_, err = totp.NewSecretCipherFromString("")
	assert.ErrorIs(t, err, totp.ErrEncryptionKeyNotSet)

	_, err = totp.NewSecretCipherFromString("not base64!@#")
	assert.ErrorIs(t, err, totp.ErrFailedToLoadEncryptionKey)

	short := base64.StdEncoding.EncodeToString(make([]byte, 8))
	_, err = totp.NewSecretCipherFromString(short)
	assert.ErrorIs(t, err, totp.ErrInvalidEncryptionKeyLength)
}

func TestSecretCipher_DecryptInvalid(t *testing.T) {
	t.Parallel()

	c, err := totp.NewSecretCipher(make([]byte, 32))
	require.NoError(t, err)

	tests := []struct {
		name  string
		input string
	}{
		{name: "invalid base64", input: "invalid-base64!@#$"},
		{name: "too short", input: base64.StdEncoding.EncodeToString([]byte("short"))},
		{name: "tampered", input: base64.StdEncoding.EncodeToString(make([]byte, 40))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := c.Decrypt(tt.input)
			assert.ErrorIs(t, err, totp.ErrFailedToDecryptSecret)
		})
	}
}

func TestGenerateEncodedEncryptionKey(t *testing.T) {
	t.Parallel()

	key, err := totp.GenerateEncodedEncryptionKey()
	require.NoError(t, err)

	c, err := totp.NewSecretCipherFromString(key)
	require.NoError(t, err)
	require.NotNil(t, c)
}
