package defs

import (
	"go.uber.org/zap"

	"github.com/woozymasta/scs-route-tool/internal/archive"
	"github.com/woozymasta/scs-route-tool/internal/prefab"
	"github.com/woozymasta/scs-route-tool/internal/sii"
	"github.com/woozymasta/scs-route-tool/internal/token"
)

// LoadPrefabs reads def/world/prefab* and decodes each referenced descriptor.
func (l *Loader) LoadPrefabs() {
	files, ok := l.files(WorldDir, archive.HasPrefix("prefab"))
	if !ok {
		return
	}

	for _, f := range files {
		var (
			tok      token.Token
			path     string
			category string
		)

		for _, raw := range l.lines(f) {
			line := sii.ParseLine(raw)
			if line.Valid {
				switch line.Key {
				case "prefab_model":
					tok = token.Part(line.Value, 1)
				case "prefab_desc":
					if p, ok := sii.Unquote(line.Value); ok {
						path = archive.Clean(p)
					}
				case "category":
					category = sii.QuotedOrTrimmed(line.Value)
				}
			}

			if !line.Closes || tok == 0 || path == "" {
				continue
			}

			if _, dup := l.t.Prefabs[tok]; dup {
				l.log.Debug("duplicate prefab", zap.Stringer("token", tok), zap.String("file", f))
			} else {
				l.t.Prefabs[tok] = l.loadPrefab(tok, path, category)
			}

			tok, path, category = 0, "", ""
		}
	}
}

// loadPrefab builds a prefab definition and attaches its descriptor geometry.
// Missing or unreadable descriptors leave the definition without routes.
func (l *Loader) loadPrefab(tok token.Token, path, category string) *prefab.Def {
	def := prefab.NewDef(tok, path, category)

	data, err := l.fs.ReadFile(path)
	if err != nil {
		l.log.Debug("prefab descriptor missing", zap.Stringer("token", tok), zap.String("path", path))
		return def
	}

	desc, err := prefab.Decode(data)
	if err != nil {
		l.log.Warn("prefab descriptor rejected", zap.String("path", path), zap.Error(err))
		return def
	}
	def.SetDescriptor(desc)

	return def
}
