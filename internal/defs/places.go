package defs

import (
	"go.uber.org/zap"

	"github.com/woozymasta/scs-route-tool/internal/archive"
	"github.com/woozymasta/scs-route-tool/internal/sii"
	"github.com/woozymasta/scs-route-tool/internal/token"
)

// City is a city definition.
type City struct {
	Token        token.Token `json:"token"`
	Name         string      `json:"name"`
	LocalizedKey string      `json:"localized_key,omitempty"`
	Country      string      `json:"country"`
	Path         string      `json:"path"`
}

// Country is a country definition.
type Country struct {
	Token        token.Token `json:"token"`
	Name         string      `json:"name"`
	LocalizedKey string      `json:"localized_key,omitempty"`
	Code         string      `json:"country_code"`
	ID           int         `json:"country_id"`
	X            float64     `json:"x"`
	Z            float64     `json:"z"`
	Path         string      `json:"path"`
}

// LoadCities follows the @include directives of def/city*.
func (l *Loader) LoadCities() {
	l.loadIncludes("city", func(path string, lines []string) {
		c := ParseCity(path, lines)
		if c.Token == 0 {
			return
		}
		if _, ok := l.t.Cities[c.Token]; ok {
			l.log.Debug("duplicate city", zap.Stringer("token", c.Token), zap.String("file", path))
			return
		}
		l.t.Cities[c.Token] = c
	})
}

// LoadCountries follows the @include directives of def/country*.
func (l *Loader) LoadCountries() {
	l.loadIncludes("country", func(path string, lines []string) {
		c := ParseCountry(path, lines)
		if c.Token == 0 {
			return
		}
		if _, ok := l.t.Countries[c.Token]; ok {
			l.log.Debug("duplicate country", zap.Stringer("token", c.Token), zap.String("file", path))
			return
		}
		l.t.Countries[c.Token] = c
	})
}

// loadIncludes calls add for every file included from def/<prefix>*.
func (l *Loader) loadIncludes(prefix string, add func(path string, lines []string)) {
	files, ok := l.files(DefDir, archive.HasPrefix(prefix))
	if !ok {
		return
	}

	for _, f := range files {
		for _, raw := range l.lines(f) {
			line := sii.ParseLine(raw)
			if !line.Is(sii.IncludeKey) {
				continue
			}

			path := sii.ResolveInclude(line.Value, DefDir)
			add(path, l.lines(path))
		}
	}
}

// ParseCity builds a city from its definition file lines.
func ParseCity(path string, lines []string) *City {
	c := &City{Path: path}
	for _, raw := range lines {
		line := sii.ParseLine(raw)
		if !line.Valid {
			continue
		}

		switch line.Key {
		case "city_data":
			c.Token = token.Part(line.Value, 1)
		case "city_name":
			c.Name = sii.QuotedOrTrimmed(line.Value)
		case "city_name_localized":
			c.LocalizedKey = sii.LocalizationKey(line.Value)
		case "country":
			c.Country = sii.QuotedOrTrimmed(line.Value)
		}
	}

	return c
}

// ParseCountry builds a country from its definition file lines.
func ParseCountry(path string, lines []string) *Country {
	c := &Country{Path: path}
	for _, raw := range lines {
		line := sii.ParseLine(raw)
		if !line.Valid {
			continue
		}

		switch line.Key {
		case "country_data":
			c.Token = token.Part(line.Value, 2)
		case "name":
			c.Name = sii.QuotedOrTrimmed(line.Value)
		case "name_localized":
			c.LocalizedKey = sii.LocalizationKey(line.Value)
		case "country_code":
			c.Code = sii.QuotedOrTrimmed(line.Value)
		case "country_id":
			if id, ok := sii.ParseInt(line.Value); ok {
				c.ID = id
			}
		case "pos":
			if x, z, ok := sii.ParseVector(line.Value); ok {
				c.X, c.Z = x, z
			}
		}
	}

	return c
}
