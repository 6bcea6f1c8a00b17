// Package random generates short codes for links.
package random

import (
	"math/rand"
)

const (
	alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

	// DefaultLength is the length of a generated code when none is configured.
	DefaultLength = 6
)

// Generator produces a candidate code of the given length.
type Generator func(length int) string

// NewRandomString returns a string of length characters drawn uniformly from
// the 62-symbol alphabet. Codes only need to avoid collisions, so a fast
// non-cryptographic source is used.
func NewRandomString(length int) string {
	if length <= 0 {
		length = DefaultLength
	}

	b := make([]byte, length)
	for i := range b {
		b[i] = alphabet[rand.Intn(len(alphabet))]
	}
	return string(b)
}

// Alphabet returns the symbols codes are drawn from.
func Alphabet() string { return alphabet }

// IsAlphanumeric reports whether s is non-empty and uses only alphabet symbols.
func IsAlphanumeric(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
		case c >= 'A' && c <= 'Z':
		case c >= 'a' && c <= 'z':
		default:
			return false
		}
	}
	return true
}
