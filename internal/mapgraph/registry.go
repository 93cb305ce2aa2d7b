package mapgraph

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/woozymasta/scs-route-tool/internal/defs"
	"github.com/woozymasta/scs-route-tool/internal/prefab"
	"github.com/woozymasta/scs-route-tool/internal/roadlook"
)

var (
	// ErrDuplicateUID is returned when a uid is registered twice.
	ErrDuplicateUID = errors.New("duplicate uid")
	// ErrNoVariant is returned for items whose variant does not match their kind.
	ErrNoVariant = errors.New("item variant missing")
)

// Registry owns every node and item of the map, keyed by uid.
// Items keep their insertion order per kind.
type Registry struct {
	Defs *defs.Tables

	nodes  map[uint64]*Node
	items  map[uint64]*Item
	byKind map[Kind][]uint64
	linked bool
}

// NewRegistry returns an empty registry resolving references against tables.
func NewRegistry(tables *defs.Tables) *Registry {
	if tables == nil {
		tables = defs.NewTables()
	}

	return &Registry{
		Defs:   tables,
		nodes:  map[uint64]*Node{},
		items:  map[uint64]*Item{},
		byKind: map[Kind][]uint64{},
	}
}

// AddNode registers a node.
func (r *Registry) AddNode(n *Node) error {
	if _, ok := r.nodes[n.UID]; ok {
		return fmt.Errorf("node %#x: %w", n.UID, ErrDuplicateUID)
	}

	r.nodes[n.UID] = n
	r.linked = false

	return nil
}

// AddItem registers an item. Uids are unique across every item kind.
func (r *Registry) AddItem(it *Item) error {
	if _, ok := r.items[it.UID]; ok {
		return fmt.Errorf("item %#x: %w", it.UID, ErrDuplicateUID)
	}
	if !it.hasVariant() {
		return fmt.Errorf("item %#x (%s): %w", it.UID, it.Kind, ErrNoVariant)
	}

	r.items[it.UID] = it
	r.byKind[it.Kind] = append(r.byKind[it.Kind], it.UID)
	r.linked = false

	return nil
}

func (it *Item) hasVariant() bool {
	switch it.Kind {
	case KindRoad:
		return it.Road != nil
	case KindPrefab:
		return it.Prefab != nil
	case KindFerryPort:
		return it.Ferry != nil
	case KindCity:
		return it.City != nil
	case KindMapArea:
		return it.Area != nil
	default:
		return false
	}
}

// Node returns a node by uid, nil when absent.
func (r *Registry) Node(uid uint64) *Node {
	return r.nodes[uid]
}

// Item returns an item by uid, nil when absent.
func (r *Registry) Item(uid uint64) *Item {
	if uid == 0 {
		return nil
	}

	return r.items[uid]
}

// Items returns the items of one kind in insertion order.
func (r *Registry) Items(kind Kind) []*Item {
	uids := r.byKind[kind]
	out := make([]*Item, 0, len(uids))
	for _, uid := range uids {
		out = append(out, r.items[uid])
	}

	return out
}

// Prefabs returns the prefab items in insertion order.
func (r *Registry) Prefabs() []*Item { return r.Items(KindPrefab) }

// Roads returns the road items in insertion order.
func (r *Registry) Roads() []*Item { return r.Items(KindRoad) }

// FerryPorts returns the ferry port items in insertion order.
func (r *Registry) FerryPorts() []*Item { return r.Items(KindFerryPort) }

// Nodes returns every node ordered by uid.
func (r *Registry) Nodes() []*Node {
	out := make([]*Node, 0, len(r.nodes))
	for _, n := range r.nodes {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UID < out[j].UID })

	return out
}

// NodeCount returns the number of nodes.
func (r *Registry) NodeCount() int { return len(r.nodes) }

// ItemCount returns the number of items.
func (r *Registry) ItemCount() int { return len(r.items) }

// Link resolves every node's raw forward/backward uids against the items.
// Unknown uids link to nothing. Linking always starts from the raw values,
// so running it again gives the same result.
func (r *Registry) Link() {
	for _, n := range r.nodes {
		n.Forward, n.Backward = 0, 0
		if _, ok := r.items[n.ForwardUID]; ok && n.ForwardUID != 0 {
			n.Forward = n.ForwardUID
		}
		if _, ok := r.items[n.BackwardUID]; ok && n.BackwardUID != 0 {
			n.Backward = n.BackwardUID
		}
	}

	r.linked = true
}

// Linked reports whether Link ran after the last registration.
func (r *Registry) Linked() bool {
	return r.linked
}

// Forward returns the linked forward item of a node.
func (r *Registry) Forward(n *Node) *Item {
	if n == nil {
		return nil
	}

	return r.Item(n.Forward)
}

// Backward returns the linked backward item of a node.
func (r *Registry) Backward(n *Node) *Item {
	if n == nil {
		return nil
	}

	return r.Item(n.Backward)
}

// RoadLook returns the look of a road item, nil when unknown.
func (r *Registry) RoadLook(it *Item) *roadlook.RoadLook {
	if !it.IsRoad() {
		return nil
	}

	return r.Defs.RoadLooks[it.Road.Look]
}

// RoadWidth returns the look width of a road, 1 when the look is unknown.
func (r *Registry) RoadWidth(it *Item) float64 {
	if look := r.RoadLook(it); look != nil {
		return look.Width()
	}

	return 1
}

// RoadLength returns the 2D distance between the road's end nodes.
func (r *Registry) RoadLength(it *Item) float64 {
	if !it.IsRoad() {
		return 0
	}

	s, e := r.Node(it.Road.StartNode), r.Node(it.Road.EndNode)
	if s == nil || e == nil {
		return 0
	}

	return math.Hypot(s.X-e.X, s.Z-e.Z)
}

// PrefabDef returns the definition of a prefab item, nil when unknown.
func (r *Registry) PrefabDef(it *Item) *prefab.Def {
	if !it.IsPrefab() {
		return nil
	}

	return r.Defs.Prefabs[it.Prefab.Def]
}

// Placement returns the world placement of a prefab item.
func (r *Registry) Placement(it *Item) (prefab.Placement, bool) {
	if !it.IsPrefab() || len(it.Prefab.Nodes) == 0 {
		return prefab.Placement{}, false
	}

	origin := r.Node(it.Prefab.Nodes[0])
	if origin == nil {
		return prefab.Placement{}, false
	}

	return prefab.Placement{
		X:        origin.X,
		Z:        origin.Z,
		Rotation: origin.Rotation,
		Origin:   it.Prefab.Origin,
	}, true
}

// NodeItemInPrefab returns the boundary node of a prefab item touching the
// target item, nil when none does.
func (r *Registry) NodeItemInPrefab(p *Item, target uint64) *Node {
	if !p.IsPrefab() {
		return nil
	}

	for _, uid := range p.Prefab.Nodes {
		n := r.Node(uid)
		if n == nil {
			continue
		}
		if n.Forward == target || n.Backward == target {
			return n
		}
	}

	return nil
}

// Hop is a boundary node shared with an adjoining prefab.
type Hop struct {
	Node   *Node
	Prefab *Item
}

// NeighbourPrefabs returns the prefabs directly touching a prefab item
// through its boundary nodes, forward side first.
func (r *Registry) NeighbourPrefabs(p *Item) []Hop {
	if !p.IsPrefab() {
		return nil
	}

	var out []Hop
	for _, uid := range p.Prefab.Nodes {
		n := r.Node(uid)
		if n == nil {
			continue
		}
		if f := r.Forward(n); f.IsPrefab() && f != p {
			out = append(out, Hop{Node: n, Prefab: f})
		}
		if b := r.Backward(n); b.IsPrefab() && b != p {
			out = append(out, Hop{Node: n, Prefab: b})
		}
	}

	return out
}

// ReindexNavigation rebuilds every prefab's navigation index.
func (r *Registry) ReindexNavigation() {
	for _, it := range r.Prefabs() {
		it.Prefab.Navigation.Reindex()
	}
}

// ResetNavigation drops every prefab's navigation edges.
func (r *Registry) ResetNavigation() {
	for _, it := range r.Prefabs() {
		it.Prefab.Navigation.Reset()
	}
}

// State is the serializable content of a registry.
type State struct {
	Nodes []*Node
	Items []*Item
}

// State returns nodes by uid and items in insertion order.
func (r *Registry) State() State {
	st := State{Nodes: r.Nodes()}
	for _, k := range []Kind{KindRoad, KindPrefab, KindFerryPort, KindCity, KindMapArea} {
		st.Items = append(st.Items, r.Items(k)...)
	}

	return st
}

// Restore rebuilds a linked registry from a state.
func Restore(tables *defs.Tables, st State) (*Registry, error) {
	r := NewRegistry(tables)
	for _, n := range st.Nodes {
		if err := r.AddNode(n); err != nil {
			return nil, err
		}
	}
	for _, it := range st.Items {
		if err := r.AddItem(it); err != nil {
			return nil, err
		}
	}

	r.Link()
	r.ReindexNavigation()

	return r, nil
}
