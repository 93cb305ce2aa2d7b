// Package token maps game identifiers to the integer keys used for cross references.
package token

import (
	"strconv"
	"strings"
)

// Token is a packed identifier used as the key of every lookup table.
type Token uint64

const (
	alphabet = "\x000123456789abcdefghijklmnopqrstuvwxyz_"
	base     = uint64(len(alphabet))
	maxLen   = 12
)

// FromString packs an identifier into a token.
// Characters outside [0-9a-z_] (case-insensitive) or names over 12 chars give 0.
func FromString(s string) Token {
	if s == "" || len(s) > maxLen {
		return 0
	}

	var (
		out uint64
		mul uint64 = 1
	)
	for i := 0; i < len(s); i++ {
		idx := charIndex(s[i])
		if idx <= 0 {
			return 0
		}

		out += uint64(idx) * mul
		mul *= base
	}

	return Token(out)
}

// Part returns the token of the n-th dot separated segment of a dotted name.
// Surrounding spaces and braces are trimmed from the segment.
func Part(dotted string, n int) Token {
	parts := strings.Split(dotted, ".")
	if n < 0 || n >= len(parts) {
		return 0
	}

	return FromString(strings.Trim(parts[n], " \t{}"))
}

// String unpacks the token back to its identifier.
func (t Token) String() string {
	if t == 0 {
		return ""
	}

	var b strings.Builder
	v := uint64(t)
	for v > 0 {
		idx := v % base
		v /= base
		if idx == 0 {
			continue
		}
		b.WriteByte(alphabet[idx])
	}

	return b.String()
}

// Parse reads a token written either as a number (decimal or 0x hex) or as an identifier.
func Parse(s string) (Token, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	if v, err := strconv.ParseUint(s, 0, 64); err == nil {
		return Token(v), true
	}

	t := FromString(s)

	return t, t != 0
}

// charIndex returns the alphabet index of c, or -1.
func charIndex(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c-'0') + 1
	case c >= 'a' && c <= 'z':
		return int(c-'a') + 11
	case c >= 'A' && c <= 'Z':
		return int(c-'A') + 11
	case c == '_':
		return 37
	default:
		return -1
	}
}
