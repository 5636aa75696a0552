package sanitizer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/mfakit/pkg/sanitizer"
)

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "trims whitespace and converts to lowercase", input: "  USER@EXAMPLE.COM  ", expected: "user@example.com"},
		{name: "collapses consecutive dots in local part", input: "user..name@example.com", expected: "user.name@example.com"},
		{name: "removes leading and trailing dots in local part", input: ".user.name.@example.com", expected: "user.name@example.com"},
		{name: "keeps plus tags", input: "User+Tag@Example.com", expected: "user+tag@example.com"},
		{name: "handles invalid email format", input: "Invalid-Email", expected: "invalid-email"},
		{name: "handles multiple at signs", input: "a@b@c.com", expected: "a@b@c.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizer.NormalizeEmail(tt.input))
		})
	}
}

func TestMaskEmail(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "masks normal email", input: "user@example.com", expected: "u***@example.com"},
		{name: "masks single character local part", input: "a@example.com", expected: "*@example.com"},
		{name: "returns invalid input unchanged", input: "not-an-email", expected: "not-an-email"},
		{name: "empty local part", input: "@example.com", expected: "@example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizer.MaskEmail(tt.input))
		})
	}
}

func TestNormalizeCode(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{input: "123456", expected: "123456"},
		{input: " 123 456 ", expected: "123456"},
		{input: "123-456", expected: "123456"},
		{input: "12a456", expected: "12a456"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizer.NormalizeCode(tt.input))
		})
	}
}
