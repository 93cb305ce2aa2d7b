// Package mapgraph holds the spatial model of the map: nodes, the typed
// items between them, and the uid registry that links the two.
package mapgraph

import (
	"math"

	"github.com/woozymasta/scs-route-tool/internal/token"
)

// Kind is the variant of a map item.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindRoad
	KindPrefab
	KindFerryPort
	KindCity
	KindMapArea
)

// String returns the kind name used in logs and exports.
func (k Kind) String() string {
	switch k {
	case KindRoad:
		return "road"
	case KindPrefab:
		return "prefab"
	case KindFerryPort:
		return "ferry_port"
	case KindCity:
		return "city"
	case KindMapArea:
		return "map_area"
	default:
		return "unknown"
	}
}

// Node is a map node: a position with a heading and up to two adjacent items.
type Node struct {
	UID         uint64
	X           float64
	Z           float64
	Rotation    float64
	ForwardUID  uint64 // raw forward item uid as read
	BackwardUID uint64 // raw backward item uid as read
	Forward     uint64 // linked forward item, 0 when absent
	Backward    uint64 // linked backward item, 0 when absent
}

// NodeRotation converts a node direction vector to its map heading.
func NodeRotation(rx, rz float64) float64 {
	return math.Mod(math.Pi-math.Atan2(rz, rx), math.Pi) * 2
}

// Road is a road segment between two nodes.
type Road struct {
	StartNode uint64
	EndNode   uint64
	Look      token.Token
}

// Prefab is a placed prefab and its macro-graph edges.
type Prefab struct {
	Def        token.Token
	Nodes      []uint64 // boundary nodes, first one places the prefab
	Origin     int      // prefab node index at Nodes[0]
	Navigation Navigation
}

// FerryPort is a ferry terminal.
type FerryPort struct {
	Port token.Token
}

// CityMarker is the area of a city on the map.
type CityMarker struct {
	City   token.Token
	Width  float64
	Height float64
}

// MapArea is a decorative polygon.
type MapArea struct {
	Nodes []uint64
	Color int
}

// Item is a map item. Exactly one variant pointer matching Kind is set.
type Item struct {
	UID    uint64
	Kind   Kind
	X      float64
	Z      float64
	Hidden bool

	Road   *Road
	Prefab *Prefab
	Ferry  *FerryPort
	City   *CityMarker
	Area   *MapArea
}

// NewRoad returns a road item.
func NewRoad(uid uint64, x, z float64, hidden bool, r Road) *Item {
	return &Item{UID: uid, Kind: KindRoad, X: x, Z: z, Hidden: hidden, Road: &r}
}

// NewPrefab returns a prefab item.
func NewPrefab(uid uint64, x, z float64, hidden bool, def token.Token, nodes []uint64, origin int) *Item {
	return &Item{
		UID: uid, Kind: KindPrefab, X: x, Z: z, Hidden: hidden,
		Prefab: &Prefab{Def: def, Nodes: nodes, Origin: origin},
	}
}

// NewFerryPort returns a ferry port item.
func NewFerryPort(uid uint64, x, z float64, port token.Token) *Item {
	return &Item{UID: uid, Kind: KindFerryPort, X: x, Z: z, Ferry: &FerryPort{Port: port}}
}

// NewCity returns a city marker item.
func NewCity(uid uint64, x, z float64, hidden bool, c CityMarker) *Item {
	return &Item{UID: uid, Kind: KindCity, X: x, Z: z, Hidden: hidden, City: &c}
}

// NewMapArea returns a map area item.
func NewMapArea(uid uint64, x, z float64, hidden bool, a MapArea) *Item {
	return &Item{UID: uid, Kind: KindMapArea, X: x, Z: z, Hidden: hidden, Area: &a}
}

// IsRoad reports whether the item is a road segment.
func (it *Item) IsRoad() bool { return it != nil && it.Kind == KindRoad }

// IsPrefab reports whether the item is a prefab.
func (it *Item) IsPrefab() bool { return it != nil && it.Kind == KindPrefab }

// IsFerryPort reports whether the item is a ferry port.
func (it *Item) IsFerryPort() bool { return it != nil && it.Kind == KindFerryPort }
