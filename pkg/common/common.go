package common

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Punctuation trimmed from both ends of a token before pattern matching
const (
	BitcoinTokenCutset = ".,;:!?\"'"
	NostrTokenCutset   = ".,;:!?\"'()[]{}"
)

// Tokens splits text on any run of Unicode whitespace
func Tokens(text string) []string {
	return strings.Fields(text)
}

// StripToken trims the cutset from both ends of a token
func StripToken(token, cutset string) string {
	return strings.Trim(token, cutset)
}

// IsHex returns true if the string contains only hexadecimal characters
func IsHex(s string) bool {
	for _, c := range s {
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')) {
			return false
		}
	}
	return true
}

// IsAlpha reports whether s is non-empty and made only of letters
func IsAlpha(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if !unicode.IsLetter(c) {
			return false
		}
	}
	return true
}

// RuneLen returns the number of characters in s
func RuneLen(s string) int {
	return utf8.RuneCountInString(s)
}

// Head returns the first n characters of s
func Head(s string, n int) string {
	r := []rune(s)
	if n >= len(r) {
		return s
	}
	if n < 0 {
		n = 0
	}
	return string(r[:n])
}

// Tail returns the last n characters of s
func Tail(s string, n int) string {
	r := []rune(s)
	if n >= len(r) {
		return s
	}
	if n < 0 {
		n = 0
	}
	return string(r[len(r)-n:])
}

// Abbreviate keeps the first head and last tail characters joined by "..."
func Abbreviate(s string, head, tail int) string {
	return Head(s, head) + "..." + Tail(s, tail)
}

// Truncate shortens s to keep characters followed by "..." when s is longer than limit
func Truncate(s string, limit, keep int) string {
	if RuneLen(s) <= limit {
		return s
	}
	return Head(s, keep) + "..."
}
