package sii

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/unicode"
)

// Lines decodes a definition file into lines. A leading UTF-8 BOM is
// dropped and CRLF endings are tolerated.
func Lines(data []byte) []string {
	if dec, err := unicode.UTF8BOM.NewDecoder().Bytes(data); err == nil {
		data = dec
	}

	lines := strings.Split(string(data), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}

	return lines
}

// Unquote returns the first double-quoted string inside s.
func Unquote(s string) (string, bool) {
	i := strings.IndexByte(s, '"')
	if i < 0 {
		return "", false
	}

	j := strings.IndexByte(s[i+1:], '"')
	if j < 0 {
		return "", false
	}

	return s[i+1 : i+1+j], true
}

// QuotedOrTrimmed returns the quoted part of s when present, the trimmed value otherwise.
func QuotedOrTrimmed(s string) string {
	if q, ok := Unquote(s); ok {
		return q
	}

	return strings.TrimSpace(s)
}

// ParseFloat parses a decimal float or the `&xxxxxxxx` hex-bits form.
func ParseFloat(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "&") {
		bits, err := strconv.ParseUint(s[1:], 16, 32)
		if err != nil {
			return 0, false
		}
		return float64(math.Float32frombits(uint32(bits))), true
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}

	return v, true
}

// ParseInt parses a base-10 integer.
func ParseInt(s string) (int, bool) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}

	return v, true
}

// ParseVector reads `(x, y, z)` and returns the x and z components.
func ParseVector(value string) (x, z float64, ok bool) {
	open := strings.IndexByte(value, '(')
	if open < 0 {
		return 0, 0, false
	}

	body := value[open+1:]
	if end := strings.IndexByte(body, ')'); end >= 0 {
		body = body[:end]
	}

	parts := strings.Split(body, ",")
	if len(parts) < 3 {
		return 0, 0, false
	}

	x, okX := ParseFloat(parts[0])
	z, okZ := ParseFloat(parts[2])
	if !okX || !okZ {
		return 0, 0, false
	}

	return x, z, true
}

// LocalizationKey strips the `@@key@@` markers of a localized string reference.
func LocalizationKey(value string) string {
	v := QuotedOrTrimmed(value)

	return strings.TrimSuffix(strings.TrimPrefix(v, "@@"), "@@")
}
