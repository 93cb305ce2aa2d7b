// Package sii tokenizes lines of the SII definition dialect used by game data files.
package sii

import (
	"path"
	"strconv"
	"strings"
	"unicode"
)

// IncludeKey is the key reported for `@include "path"` directives.
const IncludeKey = "@include"

// Line is one tokenized source line.
type Line struct {
	Key    string // attribute name without the index suffix
	Value  string // raw value, trimmed, comments removed
	Index  int    // explicit slot for name[n], -1 for name[] or scalars
	Array  bool   // key carried an index suffix
	Valid  bool   // key/value pair recognized
	Opens  bool   // line contains '{'
	Closes bool   // line contains '}'
}

// ParseLine tokenizes a single line. It never fails: unrecognized lines
// come back with Valid=false, brace flags still set.
func ParseLine(raw string) Line {
	out := Line{Index: -1}

	s := strings.TrimSpace(raw)
	if s == "" || strings.HasPrefix(s, "#") || strings.HasPrefix(s, "//") {
		return out
	}

	s = stripComment(s)
	out.Opens = strings.Contains(s, "{")
	out.Closes = strings.Contains(s, "}")

	if strings.Contains(s, IncludeKey) {
		if p, ok := Unquote(s); ok && p != "" {
			out.Valid = true
			out.Key = IncludeKey
			out.Value = p
		}
		return out
	}

	end := strings.IndexFunc(s, isSeparator)
	if end <= 0 {
		return out
	}

	value := strings.TrimSpace(strings.TrimLeftFunc(s[end:], isSeparator))
	if value == "" {
		return out
	}

	name, idx, array, ok := splitIndex(s[:end])
	if !ok {
		return out
	}

	out.Valid = true
	out.Key = name
	out.Value = value
	out.Index = idx
	out.Array = array

	return out
}

// String serializes the line back to `key: value` form.
func (l Line) String() string {
	if !l.Valid {
		return ""
	}
	if l.Key == IncludeKey {
		return IncludeKey + ` "` + l.Value + `"`
	}

	key := l.Key
	if l.Array {
		if l.Index >= 0 {
			key += "[" + strconv.Itoa(l.Index) + "]"
		} else {
			key += "[]"
		}
	}

	return key + ": " + l.Value
}

// Is reports whether the line is the scalar or array attribute name.
func (l Line) Is(name string) bool {
	return l.Valid && l.Key == name
}

// ResolveInclude resolves an include path against the including directory.
// Paths starting with '/' are rooted at the archive root.
func ResolveInclude(rel, base string) string {
	rel = strings.TrimSpace(strings.ReplaceAll(rel, "\\", "/"))
	if strings.HasPrefix(rel, "/") {
		return strings.TrimPrefix(path.Clean(rel), "/")
	}

	return strings.TrimPrefix(path.Join(base, rel), "/")
}

// splitIndex splits `name[n]` / `name[]` into its parts.
func splitIndex(key string) (name string, idx int, array bool, ok bool) {
	idx = -1
	name = key
	if i := strings.IndexByte(key, '['); i >= 0 {
		if !strings.HasSuffix(key, "]") || i == 0 {
			return "", -1, false, false
		}

		name = key[:i]
		slot := key[i+1 : len(key)-1]
		array = true
		if slot != "" {
			n, err := strconv.Atoi(slot)
			if err != nil || n < 0 {
				return "", -1, false, false
			}
			idx = n
		}
	}

	for _, r := range name {
		if !isKeyRune(r) {
			return "", -1, false, false
		}
	}

	return name, idx, array, name != ""
}

// stripComment removes a trailing `//` comment outside of quotes.
func stripComment(s string) string {
	inQuote := false
	for i := 0; i+1 < len(s); i++ {
		switch {
		case s[i] == '"':
			inQuote = !inQuote
		case !inQuote && s[i] == '/' && s[i+1] == '/':
			return strings.TrimSpace(s[:i])
		}
	}

	return s
}

// isSeparator reports whether r separates a key from its value.
func isSeparator(r rune) bool {
	return unicode.IsSpace(r) || r == ':' || r == '='
}

// isKeyRune reports whether r may appear in an attribute name.
func isKeyRune(r rune) bool {
	return r == '_' || r == '.' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}
