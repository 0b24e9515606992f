package utils

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// IsSeparator reports runes that split command arguments.
func IsSeparator(r rune) bool {
	return r == ' ' || r == '\t' || r == ','
}

// SplitArgs splits s on separators, dropping empty fields.
func SplitArgs(s string) []string {
	return strings.FieldsFunc(s, IsSeparator)
}

// ContainsControl reports whether s has control characters.
func ContainsControl(s string) bool {
	for _, r := range s {
		if unicode.IsControl(r) {
			return true
		}
	}
	return false
}

// IsValidQuery checks a query literal: non-empty valid UTF-8 without control
// characters, and at most maxRunes runes when maxRunes is positive.
func IsValidQuery(s string, maxRunes int) bool {
	if s == "" || !utf8.ValidString(s) || ContainsControl(s) {
		return false
	}
	return maxRunes <= 0 || utf8.RuneCountInString(s) <= maxRunes
}
