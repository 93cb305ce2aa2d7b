package export

import (
	"fmt"

	"github.com/woozymasta/scs-route-tool/internal/mapgraph"
	"github.com/woozymasta/scs-route-tool/internal/token"
)

// Validate reports references of map items that the definition tables or
// the node set cannot answer. Unknown tokens are reported once with the
// number of items using them, in order of first use.
func Validate(reg *mapgraph.Registry) []error {
	var errs []error

	type unknown struct {
		what  string
		tok   token.Token
		count int
	}
	var order []*unknown
	seen := map[string]*unknown{}
	missing := func(what string, t token.Token) {
		key := what + "/" + fmt.Sprint(uint64(t))
		u, ok := seen[key]
		if !ok {
			u = &unknown{what: what, tok: t}
			seen[key] = u
			order = append(order, u)
		}
		u.count++
	}

	for _, it := range reg.Roads() {
		if reg.RoadLook(it) == nil {
			missing("road look", it.Road.Look)
		}
		for _, uid := range []uint64{it.Road.StartNode, it.Road.EndNode} {
			if reg.Node(uid) == nil {
				errs = append(errs, fmt.Errorf("road %#x: unknown node %#x", it.UID, uid))
			}
		}
	}

	for _, it := range reg.Prefabs() {
		def := reg.PrefabDef(it)
		if def == nil {
			missing("prefab", it.Prefab.Def)
		} else if len(def.Nodes) > 0 && (it.Prefab.Origin < 0 || it.Prefab.Origin >= len(def.Nodes)) {
			errs = append(errs, fmt.Errorf("prefab %#x: origin %d out of range for %q (%d nodes)",
				it.UID, it.Prefab.Origin, def.Token, len(def.Nodes)))
		}
		for _, uid := range it.Prefab.Nodes {
			if reg.Node(uid) == nil {
				errs = append(errs, fmt.Errorf("prefab %#x: unknown node %#x", it.UID, uid))
			}
		}
	}

	for _, it := range reg.Items(mapgraph.KindCity) {
		if _, ok := reg.Defs.Cities[it.City.City]; !ok {
			missing("city", it.City.City)
		}
	}

	for _, u := range order {
		errs = append(errs, fmt.Errorf("unknown %s %q (%d) used by %d items", u.what, u.tok, uint64(u.tok), u.count))
	}

	return errs
}
