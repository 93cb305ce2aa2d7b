// Package export writes the map graph and the definition tables as JSON files.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/woozymasta/scs-route-tool/internal/defs"
	"github.com/woozymasta/scs-route-tool/internal/mapgraph"
	"github.com/woozymasta/scs-route-tool/internal/prefab"
	"github.com/woozymasta/scs-route-tool/internal/roadlook"
	"github.com/woozymasta/scs-route-tool/internal/token"
)

// Definition export file names. Graph files use the map dump names.
const (
	PrefabDefsFile       = "prefabs.json"
	RoadLooksFile        = "road_looks.json"
	FerryConnectionsFile = "ferry_connections.json"
	CityDefsFile         = "cities.json"
	CountriesFile        = "countries.json"
)

// Localizer answers localized names by key.
type Localizer interface {
	Locales() []string
	Value(key, locale string) (string, bool)
}

// Exporter writes a registry and its tables.
type Exporter struct {
	reg *mapgraph.Registry
	loc Localizer
	log *zap.Logger
}

// New returns an exporter. A nil localizer omits localized names, a nil
// logger discards output.
func New(reg *mapgraph.Registry, loc Localizer, log *zap.Logger) *Exporter {
	if log == nil {
		log = zap.NewNop()
	}

	return &Exporter{reg: reg, loc: loc, log: log}
}

// Write writes the files of scope into dir, creating it, and returns the
// written paths.
func (e *Exporter) Write(dir string, scope Scope) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create export dir: %w", err)
	}

	type file struct {
		name  string
		build func() any
	}
	var files []file
	if scope.IncludesGraph() {
		files = append(files,
			file{mapgraph.NodesFile, e.nodes},
			file{mapgraph.RoadsFile, e.roads},
			file{mapgraph.PrefabsFile, e.prefabItems},
			file{mapgraph.FerryPortsFile, e.ferryPorts},
			file{mapgraph.CitiesFile, e.cityItems},
			file{mapgraph.MapAreasFile, e.mapAreas},
		)
	}
	if scope.IncludesDefs() {
		files = append(files,
			file{PrefabDefsFile, e.prefabDefs},
			file{RoadLooksFile, e.roadLooks},
			file{FerryConnectionsFile, e.ferryConnections},
			file{CityDefsFile, e.cities},
			file{CountriesFile, e.countries},
		)
	}

	start := time.Now()
	written := make([]string, 0, len(files))
	for _, f := range files {
		p := filepath.Join(dir, f.name)
		if err := writeJSON(p, f.build()); err != nil {
			return written, err
		}
		written = append(written, p)
	}

	e.log.Info("exported",
		zap.String("dir", dir),
		zap.String("scope", string(scope)),
		zap.Int("files", len(written)),
		zap.Duration("took", time.Since(start)),
	)

	return written, nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}

	if err := os.WriteFile(path, append(data, '\n'), 0o600); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	return nil
}

func (e *Exporter) ref(uid uint64) *itemRef {
	it := e.reg.Item(uid)
	if it == nil {
		return nil
	}

	return &itemRef{UID: it.UID, Type: it.Kind.String()}
}

func (e *Exporter) nodes() any {
	out := []nodeRecord{}
	for _, n := range e.reg.Nodes() {
		out = append(out, nodeRecord{
			UID:             n.UID,
			X:               n.X,
			Z:               n.Z,
			Rotation:        n.Rotation,
			ForwardItemUID:  n.ForwardUID,
			BackwardItemUID: n.BackwardUID,
			ForwardItem:     e.ref(n.Forward),
			BackwardItem:    e.ref(n.Backward),
		})
	}

	return out
}

func (e *Exporter) roads() any {
	out := []roadRecord{}
	for _, it := range e.reg.Roads() {
		rec := roadRecord{
			UID:           it.UID,
			X:             it.X,
			Z:             it.Z,
			Hidden:        it.Hidden,
			StartNodeUID:  it.Road.StartNode,
			EndNodeUID:    it.Road.EndNode,
			RoadLook:      uint64(it.Road.Look),
			RoadLookName:  it.Road.Look.String(),
			Length:        e.reg.RoadLength(it),
			Width:         e.reg.RoadWidth(it),
			Class:         roadlook.Unclassified.String(),
			Bidirectional: true,
		}
		if look := e.reg.RoadLook(it); look != nil {
			fill, outline := roadlook.Palette(look)
			rec.Class = look.Class().String()
			rec.Bidirectional = look.IsBidirectional()
			rec.Color, rec.OutlineColor = fill.Hex(), outline.Hex()
		}
		out = append(out, rec)
	}

	return out
}

func (e *Exporter) prefabItems() any {
	out := []prefabItemRecord{}
	for _, it := range e.reg.Prefabs() {
		rec := prefabItemRecord{
			UID:        it.UID,
			X:          it.X,
			Z:          it.Z,
			Hidden:     it.Hidden,
			Prefab:     uint64(it.Prefab.Def),
			PrefabName: it.Prefab.Def.String(),
			Nodes:      it.Prefab.Nodes,
			Origin:     it.Prefab.Origin,
			Navigation: []navRecord{},
		}
		for _, edge := range it.Prefab.Navigation.Edges {
			nav := navRecord{To: edge.To, Weight: edge.Weight, Items: []itemRef{}}
			for _, uid := range edge.Payload {
				if r := e.ref(uid); r != nil {
					nav.Items = append(nav.Items, *r)
				}
			}
			rec.Navigation = append(rec.Navigation, nav)
		}
		out = append(out, rec)
	}

	return out
}

func (e *Exporter) ferryPorts() any {
	out := []ferryPortRecord{}
	for _, it := range e.reg.FerryPorts() {
		out = append(out, ferryPortRecord{
			UID:      it.UID,
			X:        it.X,
			Z:        it.Z,
			Port:     uint64(it.Ferry.Port),
			PortName: it.Ferry.Port.String(),
		})
	}

	return out
}

func (e *Exporter) cityItems() any {
	out := []cityItemRecord{}
	for _, it := range e.reg.Items(mapgraph.KindCity) {
		out = append(out, cityItemRecord{
			UID:      it.UID,
			X:        it.X,
			Z:        it.Z,
			Hidden:   it.Hidden,
			City:     uint64(it.City.City),
			CityName: it.City.City.String(),
			Width:    it.City.Width,
			Height:   it.City.Height,
		})
	}

	return out
}

func (e *Exporter) mapAreas() any {
	out := []mapAreaRecord{}
	for _, it := range e.reg.Items(mapgraph.KindMapArea) {
		out = append(out, mapAreaRecord{
			UID:    it.UID,
			X:      it.X,
			Z:      it.Z,
			Hidden: it.Hidden,
			Nodes:  it.Area.Nodes,
			Color:  it.Area.Color,
		})
	}

	return out
}

func (e *Exporter) prefabDefs() any {
	out := []prefabDefRecord{}
	for _, t := range sortedTokens(e.reg.Defs.Prefabs) {
		d := e.reg.Defs.Prefabs[t]
		routes := make(map[string]prefab.Route, len(d.Routes))
		for k, r := range d.Routes {
			routes[k.String()] = r
		}
		out = append(out, prefabDefRecord{
			Token:            uint64(t),
			Name:             t.String(),
			FilePath:         d.Path,
			Category:         d.Category,
			ValidRoad:        d.ValidRoad(),
			Version:          d.Version,
			PrefabNodes:      d.Nodes,
			PrefabCurves:     d.Curves,
			NavigationRoutes: routes,
		})
	}

	return out
}

func (e *Exporter) roadLooks() any {
	out := []roadLookRecord{}
	for _, t := range sortedTokens(e.reg.Defs.RoadLooks) {
		l := e.reg.Defs.RoadLooks[t]
		fill, outline := roadlook.Palette(l)
		out = append(out, roadLookRecord{
			Token:         uint64(t),
			Name:          t.String(),
			Title:         l.Name,
			LanesLeft:     l.LanesLeft,
			LanesRight:    l.LanesRight,
			Offset:        l.Offset,
			Width:         l.Width(),
			Class:         l.Class().String(),
			Bidirectional: l.IsBidirectional(),
			Color:         fill.Hex(),
			OutlineColor:  outline.Hex(),
		})
	}

	return out
}

func (e *Exporter) ferryConnections() any {
	out := []ferryConnectionRecord{}
	for _, c := range e.reg.Defs.Ferries {
		rec := ferryConnectionRecord{
			StartPort:     uint64(c.StartPort),
			StartPortName: c.StartPort.String(),
			EndPort:       uint64(c.EndPort),
			EndPortName:   c.EndPort.String(),
			Price:         c.Price,
			Time:          c.Time,
			Distance:      c.Distance,
			StartX:        c.StartX,
			StartZ:        c.StartZ,
			EndX:          c.EndX,
			EndZ:          c.EndZ,
			Points:        []ferryPointRecord{},
		}
		for _, p := range c.Points {
			rec.Points = append(rec.Points, ferryPointRecord(p))
		}
		out = append(out, rec)
	}

	return out
}

// cities writes the visible city markers joined with their definitions.
func (e *Exporter) cities() any {
	out := []cityRecord{}
	for _, it := range e.reg.Items(mapgraph.KindCity) {
		if it.Hidden {
			continue
		}
		c, ok := e.reg.Defs.Cities[it.City.City]
		if !ok {
			continue
		}

		rec := cityRecord{
			Token:          uint64(c.Token),
			Name:           c.Name,
			LocalizedKey:   c.LocalizedKey,
			Country:        c.Country,
			X:              it.X,
			Y:              it.Z,
			LocalizedNames: e.localized(c.LocalizedKey),
		}
		if country, ok := e.reg.Defs.Countries[token.FromString(c.Country)]; ok {
			id := country.ID
			rec.CountryID = &id
		} else {
			e.log.Warn("could not find country for city",
				zap.String("city", c.Name),
				zap.String("country", c.Country),
			)
		}
		out = append(out, rec)
	}

	return out
}

func (e *Exporter) countries() any {
	out := []countryRecord{}
	for _, t := range sortedTokens(e.reg.Defs.Countries) {
		c := e.reg.Defs.Countries[t]
		out = append(out, countryRecord{
			Token:          uint64(t),
			Name:           c.Name,
			LocalizedKey:   c.LocalizedKey,
			CountryCode:    c.Code,
			CountryID:      c.ID,
			X:              c.X,
			Y:              c.Z,
			LocalizedNames: e.localized(c.LocalizedKey),
		})
	}

	return out
}

// localized returns the value of key in every locale that has one.
func (e *Exporter) localized(key string) map[string]string {
	if e.loc == nil || key == "" {
		return nil
	}

	out := map[string]string{}
	for _, locale := range e.loc.Locales() {
		if v, ok := e.loc.Value(key, locale); ok {
			out[locale] = v
		}
	}
	if len(out) == 0 {
		return nil
	}

	return out
}

func sortedTokens[V any](m map[token.Token]V) []token.Token {
	out := make([]token.Token, 0, len(m))
	for t := range m {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })

	return out
}

var _ Localizer = (*defs.Localization)(nil)
