package salin

import (
	"strings"
	"unicode"
)

// Normalize converts a phrase into its memory key form: trimmed and lowercased.
func Normalize(phrase string) string {
	return strings.ToLower(strings.TrimSpace(phrase))
}

// Tokens splits a phrase on whitespace, preserving order.
func Tokens(phrase string) []string {
	return strings.Fields(phrase)
}

// HasControlChars reports whether s contains control characters other than
// ordinary spaces. Memory values must be plain text.
func HasControlChars(s string) bool {
	for _, r := range s {
		if unicode.IsControl(r) {
			return true
		}
	}
	return false
}
