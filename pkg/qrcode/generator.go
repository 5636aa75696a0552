package qrcode

import (
	"encoding/base64"
	"errors"
	"strings"

	skipqrcode "github.com/skip2/go-qrcode"
)

var (
	ErrEmptyContent   = errors.New("qrcode: content cannot be empty")
	ErrFailedToEncode = errors.New("qrcode: failed to encode content")
)

const (
	// DefaultSize is the PNG edge length in pixels used when size is not positive.
	DefaultSize = 256

	dataURIPrefix = "data:image/png;base64,"
)

// Generate encodes content as a PNG QR code of size×size pixels.
// Key URIs are short enough that Medium recovery keeps the symbol easy to scan.
func Generate(content string, size int) ([]byte, error) {
	q, err := newCode(content)
	if err != nil {
		return nil, err
	}
	if size <= 0 {
		size = DefaultSize
	}

	png, err := q.PNG(size)
	if err != nil {
		return nil, errors.Join(ErrFailedToEncode, err)
	}
	return png, nil
}

// GenerateBase64Image returns the PNG as a data URI that can be used directly
// as the src of an <img> tag.
func GenerateBase64Image(content string, size int) (string, error) {
	png, err := Generate(content, size)
	if err != nil {
		return "", err
	}
	return dataURIPrefix + base64.StdEncoding.EncodeToString(png), nil
}

// Terminal renders content with Unicode half blocks for display in a terminal.
func Terminal(content string) (string, error) {
	q, err := newCode(content)
	if err != nil {
		return "", err
	}
	return q.ToSmallString(false), nil
}

func newCode(content string) (*skipqrcode.QRCode, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyContent
	}
	q, err := skipqrcode.New(content, skipqrcode.Medium)
	if err != nil {
		return nil, errors.Join(ErrFailedToEncode, err)
	}
	return q, nil
}
