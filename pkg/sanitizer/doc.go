// Package sanitizer normalizes user input before it reaches validation and
// storage: email addresses are canonicalized for uniqueness, codes are
// stripped of separators, and emails can be masked for logs.
package sanitizer
