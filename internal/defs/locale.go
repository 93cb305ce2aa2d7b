package defs

import (
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/woozymasta/scs-route-tool/internal/archive"
	"github.com/woozymasta/scs-route-tool/internal/sii"
)

// LocaleDir holds one subdirectory per locale.
const LocaleDir = "locale"

// Localization maps localization keys to their values per locale.
type Localization struct {
	values map[string]map[string]string // locale -> key -> value
}

// NewLocalization returns an empty localization.
func NewLocalization() *Localization {
	return &Localization{values: map[string]map[string]string{}}
}

// Set stores a value; the first value for a key in a locale wins.
func (l *Localization) Set(locale, key, value string) {
	m, ok := l.values[locale]
	if !ok {
		m = map[string]string{}
		l.values[locale] = m
	}
	if _, dup := m[key]; !dup {
		m[key] = value
	}
}

// Locales returns the known locales, sorted.
func (l *Localization) Locales() []string {
	out := make([]string, 0, len(l.values))
	for loc := range l.values {
		out = append(out, loc)
	}
	sort.Strings(out)

	return out
}

// Value returns the value of key in locale.
func (l *Localization) Value(key, locale string) (string, bool) {
	v, ok := l.values[locale][key]
	return v, ok
}

// Len returns the number of stored values over all locales.
func (l *Localization) Len() int {
	n := 0
	for _, m := range l.values {
		n += len(m)
	}

	return n
}

// LoadLocalization reads locale/<locale>/local*.sii files. Values pair
// key[] and val[] entries in order of appearance.
func (l *Loader) LoadLocalization() *Localization {
	out := NewLocalization()
	if !l.fs.HasDir(LocaleDir) {
		l.log.Debug("no locale directory", zap.String("dir", LocaleDir))
		return out
	}

	for _, locale := range l.fs.Dirs(LocaleDir) {
		dir := LocaleDir + "/" + locale
		for _, name := range l.fs.ListFiles(dir, localFile) {
			var keys, vals []string
			for _, raw := range l.lines(name) {
				line := sii.ParseLine(raw)
				switch {
				case line.Is("key"):
					keys = append(keys, sii.QuotedOrTrimmed(line.Value))
				case line.Is("val"):
					vals = append(vals, sii.QuotedOrTrimmed(line.Value))
				}
			}

			if len(keys) != len(vals) {
				l.log.Warn("unbalanced localization file",
					zap.String("file", name),
					zap.Int("keys", len(keys)),
					zap.Int("values", len(vals)),
				)
			}
			for i := 0; i < len(keys) && i < len(vals); i++ {
				out.Set(locale, keys[i], vals[i])
			}
		}
	}

	l.log.Info("loaded localization",
		zap.Int("locales", len(out.values)),
		zap.Int("values", out.Len()),
	)

	return out
}

func localFile(name string) bool {
	return strings.HasPrefix(name, "local") && archive.HasExt(".sii", ".sui")(name)
}
