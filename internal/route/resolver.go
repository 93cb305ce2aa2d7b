package route

import (
	"github.com/zyedidia/generic/mapset"

	"github.com/woozymasta/scs-route-tool/internal/mapgraph"
	"github.com/woozymasta/scs-route-tool/internal/prefab"
)

// Selection is the internal route taken through one prefab.
type Selection struct {
	Prefab uint64 `json:"prefab"`
	Start  int    `json:"start_node"`
	End    int    `json:"end_node"`
	Curves []int  `json:"curves"`
}

// Resolution is a lane-continuous connection between two roads through
// one or more prefabs.
type Resolution struct {
	Length     float64     // internal length divided by the entry road width
	Selections []Selection // one per prefab crossed, in travel order
}

// LaneResolver decides whether traffic leaving road from can continue on
// road to through the prefabs between them.
type LaneResolver interface {
	Resolve(from, to *mapgraph.Item) (Resolution, bool)
}

// PrefabResolver resolves lane continuity with the precomputed internal
// routes of prefab definitions. It only reads the registry.
type PrefabResolver struct {
	reg *mapgraph.Registry
}

// NewPrefabResolver returns a resolver over a linked registry.
func NewPrefabResolver(reg *mapgraph.Registry) *PrefabResolver {
	return &PrefabResolver{reg: reg}
}

// Resolve searches depth first across adjoining prefabs from the prefab at
// either end of from until a prefab touching to is found, then checks every
// hop of each found prefab chain against the internal routes. The first
// chain whose hops all resolve wins.
func (r *PrefabResolver) Resolve(from, to *mapgraph.Item) (Resolution, bool) {
	if !from.IsRoad() || !to.IsRoad() {
		return Resolution{}, false
	}

	var stack [][]mapgraph.Hop
	for _, uid := range []uint64{from.Road.StartNode, from.Road.EndNode} {
		n := r.reg.Node(uid)
		if n == nil {
			continue
		}

		p := r.reg.Backward(n)
		if !p.IsPrefab() {
			p = r.reg.Forward(n)
		}
		if p.IsPrefab() {
			stack = append(stack, []mapgraph.Hop{{Node: n, Prefab: p}})
		}
	}

	visited := mapset.New[uint64]()
	var found [][]mapgraph.Hop

	for len(stack) > 0 {
		path := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		last := path[len(path)-1].Prefab
		if visited.Has(last.UID) {
			continue
		}
		visited.Put(last.UID)

		if exit := r.reg.NodeItemInPrefab(last, to.UID); exit != nil {
			found = append(found, append(path, mapgraph.Hop{Node: exit}))
			continue
		}

		for _, hop := range r.reg.NeighbourPrefabs(last) {
			next := make([]mapgraph.Hop, len(path), len(path)+1)
			copy(next, path)
			stack = append(stack, append(next, hop))
		}
	}

	width := r.reg.RoadWidth(from)
	for _, path := range found {
		res, ok := r.chain(path)
		if ok {
			res.Length /= width
			return res, true
		}
	}

	return Resolution{}, false
}

// chain resolves every hop of a prefab chain.
func (r *PrefabResolver) chain(path []mapgraph.Hop) (Resolution, bool) {
	var res Resolution
	for i := 0; i < len(path)-1; i++ {
		sel, length, ok := r.through(path[i].Prefab, path[i].Node, path[i+1].Node)
		if !ok {
			return Resolution{}, false
		}
		res.Length += length
		res.Selections = append(res.Selections, sel)
	}

	return res, true
}

// through looks up the internal route of p between the boundary nodes
// nearest to the entry and exit world nodes.
func (r *PrefabResolver) through(p *mapgraph.Item, in, out *mapgraph.Node) (Selection, float64, bool) {
	def := r.reg.PrefabDef(p)
	place, ok := r.reg.Placement(p)
	if def == nil || !ok {
		return Selection{}, 0, false
	}

	s := def.NearestNode(place, in.X, in.Z, prefab.ModeInput)
	e := def.NearestNode(place, out.X, out.Z, prefab.ModeOutput)
	if s < 0 || e < 0 {
		return Selection{}, 0, false
	}

	rt, ok := def.Route(s, e)
	if !ok {
		return Selection{}, 0, false
	}

	return Selection{Prefab: p.UID, Start: s, End: e, Curves: rt.Curves}, rt.Length, true
}
