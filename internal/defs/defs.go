// Package defs loads the definition tables (cities, countries, prefabs,
// road looks, ferry connections) from a mounted archive file system.
package defs

import (
	"time"

	"go.uber.org/zap"

	"github.com/woozymasta/scs-route-tool/internal/archive"
	"github.com/woozymasta/scs-route-tool/internal/prefab"
	"github.com/woozymasta/scs-route-tool/internal/roadlook"
	"github.com/woozymasta/scs-route-tool/internal/sii"
	"github.com/woozymasta/scs-route-tool/internal/token"
)

// Definition directories inside the archives.
const (
	DefDir   = "def"
	WorldDir = "def/world"
	FerryDir = "def/ferry/connection"
)

// Tables holds every definition keyed by token.
type Tables struct {
	Cities    map[token.Token]*City
	Countries map[token.Token]*Country
	Prefabs   map[token.Token]*prefab.Def
	RoadLooks map[token.Token]*roadlook.RoadLook
	Ferries   []*FerryConnection
}

// NewTables returns empty tables.
func NewTables() *Tables {
	return &Tables{
		Cities:    map[token.Token]*City{},
		Countries: map[token.Token]*Country{},
		Prefabs:   map[token.Token]*prefab.Def{},
		RoadLooks: map[token.Token]*roadlook.RoadLook{},
	}
}

// Stats is a count summary of the tables.
type Stats struct {
	Cities    int `json:"cities"`
	Countries int `json:"countries"`
	Prefabs   int `json:"prefabs"`
	RoadLooks int `json:"road_looks"`
	Ferries   int `json:"ferry_connections"`
}

// Stats returns table sizes.
func (t *Tables) Stats() Stats {
	return Stats{
		Cities:    len(t.Cities),
		Countries: len(t.Countries),
		Prefabs:   len(t.Prefabs),
		RoadLooks: len(t.RoadLooks),
		Ferries:   len(t.Ferries),
	}
}

// Loader fills Tables from archive definition files.
type Loader struct {
	fs  *archive.FS
	log *zap.Logger
	t   *Tables
}

// NewLoader returns a loader over fs. A nil logger discards output.
func NewLoader(fs *archive.FS, log *zap.Logger) *Loader {
	if log == nil {
		log = zap.NewNop()
	}

	return &Loader{fs: fs, log: log, t: NewTables()}
}

// Tables returns the tables filled so far.
func (l *Loader) Tables() *Tables {
	return l.t
}

// LoadAll runs every loader in order and returns the tables.
func (l *Loader) LoadAll() *Tables {
	steps := []struct {
		name  string
		load  func()
		count func() int
	}{
		{"cities", l.LoadCities, func() int { return len(l.t.Cities) }},
		{"countries", l.LoadCountries, func() int { return len(l.t.Countries) }},
		{"prefabs", l.LoadPrefabs, func() int { return len(l.t.Prefabs) }},
		{"road looks", l.LoadRoadLooks, func() int { return len(l.t.RoadLooks) }},
		{"ferry connections", l.LoadFerryConnections, func() int { return len(l.t.Ferries) }},
	}

	for _, s := range steps {
		start := time.Now()
		s.load()
		l.log.Info("loaded definitions",
			zap.String("kind", s.name),
			zap.Int("count", s.count()),
			zap.Duration("took", time.Since(start)),
		)
	}

	return l.t
}

// files lists the definition files of dir accepted by match, logging a
// missing directory. ok is false when the directory does not exist.
func (l *Loader) files(dir string, match archive.Matcher) ([]string, bool) {
	if !l.fs.HasDir(dir) {
		l.log.Error("could not read definition directory", zap.String("dir", dir))
		return nil, false
	}

	return l.fs.ListFiles(dir, match), true
}

// lines reads a file and splits it into lines; unreadable files yield nil.
func (l *Loader) lines(name string) []string {
	data, err := l.fs.ReadFile(name)
	if err != nil {
		l.log.Warn("could not read definition file", zap.String("file", name), zap.Error(err))
		return nil
	}

	return sii.Lines(data)
}
