package sanitizer

import "strings"

// NormalizeCode strips the separators people type into one-time codes
// ("123 456", "123-456") and surrounding whitespace.
func NormalizeCode(code string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '\t', '\n', '\r':
			return -1
		}
		return r
	}, code)
}
