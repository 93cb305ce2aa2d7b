package mapgraph

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/woozymasta/scs-route-tool/internal/token"
)

// Map dump file names.
const (
	NodesFile      = "nodes.json"
	RoadsFile      = "roads.json"
	PrefabsFile    = "prefab_items.json"
	FerryPortsFile = "ferry_ports.json"
	CitiesFile     = "city_items.json"
	MapAreasFile   = "map_areas.json"
)

// ErrInvalidDump is returned for dump files that are not valid JSON arrays.
var ErrInvalidDump = errors.New("invalid map dump")

// DumpStats counts what a dump contributed.
type DumpStats struct {
	Nodes      int `json:"nodes"`
	Roads      int `json:"roads"`
	Prefabs    int `json:"prefabs"`
	FerryPorts int `json:"ferry_ports"`
	Cities     int `json:"cities"`
	MapAreas   int `json:"map_areas"`
	Skipped    int `json:"skipped"`
}

// DumpFiles lists the dump files present in dir, for fingerprinting.
func DumpFiles(dir string) []string {
	var out []string
	for _, name := range []string{NodesFile, RoadsFile, PrefabsFile, FerryPortsFile, CitiesFile, MapAreasFile} {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			out = append(out, p)
		}
	}

	return out
}

// LoadDump reads a map dump directory into the registry. Nodes, roads and
// prefab items are required; ferry ports, cities and map areas are optional.
// Records with a duplicate or zero uid are skipped and logged.
func LoadDump(dir string, r *Registry, log *zap.Logger) (DumpStats, error) {
	if log == nil {
		log = zap.NewNop()
	}

	var st DumpStats
	steps := []struct {
		name     string
		required bool
		read     func(v gjson.Result) (bool, error)
		count    *int
	}{
		{NodesFile, true, r.readNode, &st.Nodes},
		{RoadsFile, true, r.readRoad, &st.Roads},
		{PrefabsFile, true, r.readPrefab, &st.Prefabs},
		{FerryPortsFile, false, r.readFerryPort, &st.FerryPorts},
		{CitiesFile, false, r.readCity, &st.Cities},
		{MapAreasFile, false, r.readMapArea, &st.MapAreas},
	}

	for _, s := range steps {
		data, err := os.ReadFile(filepath.Join(dir, s.name))
		if err != nil {
			if !s.required && errors.Is(err, os.ErrNotExist) {
				continue
			}
			return st, fmt.Errorf("read %s: %w", s.name, err)
		}

		if !gjson.ValidBytes(data) {
			return st, fmt.Errorf("%s: %w", s.name, ErrInvalidDump)
		}
		root := gjson.ParseBytes(data)
		if !root.IsArray() {
			return st, fmt.Errorf("%s: %w: want an array", s.name, ErrInvalidDump)
		}

		root.ForEach(func(_, v gjson.Result) bool {
			ok, err := s.read(v)
			switch {
			case err != nil:
				st.Skipped++
				log.Debug("skipped dump record", zap.String("file", s.name), zap.Error(err))
			case ok:
				*s.count++
			default:
				st.Skipped++
			}
			return true
		})
	}

	log.Info("loaded map dump",
		zap.String("dir", dir),
		zap.Int("nodes", st.Nodes),
		zap.Int("roads", st.Roads),
		zap.Int("prefabs", st.Prefabs),
		zap.Int("ferry_ports", st.FerryPorts),
		zap.Int("skipped", st.Skipped),
	)

	return st, nil
}

func (r *Registry) readNode(v gjson.Result) (bool, error) {
	uid := uidOf(v.Get("Uid"))
	if uid == 0 {
		return false, nil
	}

	n := &Node{
		UID:         uid,
		X:           v.Get("X").Float(),
		Z:           v.Get("Z").Float(),
		Rotation:    v.Get("Rotation").Float(),
		ForwardUID:  uidOf(v.Get("ForwardItemUid")),
		BackwardUID: uidOf(v.Get("BackwardItemUid")),
	}
	if rx, rz := v.Get("RX"), v.Get("RZ"); rx.Exists() && rz.Exists() {
		n.Rotation = NodeRotation(rx.Float(), rz.Float())
	}

	return true, r.AddNode(n)
}

func (r *Registry) readRoad(v gjson.Result) (bool, error) {
	uid := uidOf(v.Get("Uid"))
	if uid == 0 {
		return false, nil
	}

	it := NewRoad(uid, v.Get("X").Float(), v.Get("Z").Float(), v.Get("Hidden").Bool(), Road{
		StartNode: uidOf(v.Get("StartNodeUid")),
		EndNode:   uidOf(v.Get("EndNodeUid")),
		Look:      tokenOf(v.Get("RoadLook")),
	})

	return true, r.AddItem(it)
}

func (r *Registry) readPrefab(v gjson.Result) (bool, error) {
	uid := uidOf(v.Get("Uid"))
	if uid == 0 {
		return false, nil
	}

	var nodes []uint64
	v.Get("Nodes").ForEach(func(_, n gjson.Result) bool {
		nodes = append(nodes, uidOf(n))
		return true
	})

	it := NewPrefab(uid, v.Get("X").Float(), v.Get("Z").Float(), v.Get("Hidden").Bool(),
		tokenOf(v.Get("Prefab")), nodes, int(v.Get("Origin").Int()))

	return true, r.AddItem(it)
}

func (r *Registry) readFerryPort(v gjson.Result) (bool, error) {
	uid := uidOf(v.Get("Uid"))
	if uid == 0 {
		return false, nil
	}

	it := NewFerryPort(uid, v.Get("X").Float(), v.Get("Z").Float(), tokenOf(v.Get("FerryPortId")))

	return true, r.AddItem(it)
}

func (r *Registry) readCity(v gjson.Result) (bool, error) {
	uid := uidOf(v.Get("Uid"))
	if uid == 0 {
		return false, nil
	}

	it := NewCity(uid, v.Get("X").Float(), v.Get("Z").Float(), v.Get("Hidden").Bool(), CityMarker{
		City:   tokenOf(v.Get("City")),
		Width:  v.Get("Width").Float(),
		Height: v.Get("Height").Float(),
	})

	return true, r.AddItem(it)
}

func (r *Registry) readMapArea(v gjson.Result) (bool, error) {
	uid := uidOf(v.Get("Uid"))
	if uid == 0 {
		return false, nil
	}

	var nodes []uint64
	v.Get("Nodes").ForEach(func(_, n gjson.Result) bool {
		nodes = append(nodes, uidOf(n))
		return true
	})

	it := NewMapArea(uid, v.Get("X").Float(), v.Get("Z").Float(), v.Get("Hidden").Bool(), MapArea{
		Nodes: nodes,
		Color: int(v.Get("Color").Int()),
	})

	return true, r.AddItem(it)
}

// uidOf reads a uid written as a JSON number or as a decimal/0x string.
func uidOf(v gjson.Result) uint64 {
	switch v.Type {
	case gjson.Number:
		return v.Uint()
	case gjson.String:
		u, err := strconv.ParseUint(strings.TrimSpace(v.Str), 0, 64)
		if err != nil {
			return 0
		}
		return u
	default:
		return 0
	}
}

// tokenOf reads a token written as a number or as its name.
func tokenOf(v gjson.Result) token.Token {
	switch v.Type {
	case gjson.Number:
		return token.Token(v.Uint())
	case gjson.String:
		t, _ := token.Parse(v.Str)
		return t
	default:
		return 0
	}
}

// ApplyFerryPortLocations copies ferry port positions onto the ferry
// connections and prunes connections left without both ends. It returns
// the number of pruned connections.
func (r *Registry) ApplyFerryPortLocations(log *zap.Logger) int {
	for _, it := range r.FerryPorts() {
		r.Defs.SetFerryPortLocation(it.Ferry.Port, it.X, it.Z)
	}

	return r.Defs.PruneFerryConnections(log)
}
