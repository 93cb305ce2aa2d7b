// Package route answers shortest path queries over the macro navigation
// graph with a lane continuity check at every prefab crossed.
package route

import (
	"errors"
	"math"
	"time"

	"github.com/zyedidia/generic/mapset"
	"go.uber.org/zap"

	"github.com/woozymasta/scs-route-tool/internal/mapgraph"
)

// ErrNotRoutable is returned by lookups that cannot name a routing node.
var ErrNotRoutable = errors.New("no routable prefab")

// FerryLeg is one ferry crossing, as port item uids.
type FerryLeg struct {
	From uint64 `json:"from"`
	To   uint64 `json:"to"`
}

// Result is a computed route.
type Result struct {
	Start   uint64      `json:"start"`
	End     uint64      `json:"end"`
	Found   bool        `json:"found"`
	Weight  float64     `json:"weight"`
	Roads   []uint64    `json:"roads"`
	Ferries []FerryLeg  `json:"ferries,omitempty"`
	Prefabs []Selection `json:"prefabs,omitempty"`
}

// Finder runs path queries. Queries keep their state local, so one Finder
// may serve concurrent queries over a registry that is no longer mutated.
type Finder struct {
	reg      *mapgraph.Registry
	resolver LaneResolver
	log      *zap.Logger
}

// NewFinder returns a finder. A nil resolver uses the prefab internal routes.
func NewFinder(reg *mapgraph.Registry, resolver LaneResolver, log *zap.Logger) *Finder {
	if resolver == nil {
		resolver = NewPrefabResolver(reg)
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Finder{reg: reg, resolver: resolver, log: log}
}

// FindPath returns the cheapest route between two prefab items. Unknown
// or non-prefab endpoints and unreachable targets give a Result with
// Found=false.
func (f *Finder) FindPath(start, end uint64) Result {
	res := Result{Start: start, End: end}
	began := time.Now()

	prefabs := f.reg.Prefabs()
	index := make(map[uint64]int, len(prefabs))
	for i, p := range prefabs {
		index[p.UID] = i
	}

	s, okS := index[start]
	e, okE := index[end]
	if !okS || !okE {
		return res
	}

	dist := make([]float64, len(prefabs))
	prev := make([]int, len(prefabs))
	for i := range dist {
		dist[i] = math.MaxFloat64
		prev[i] = -1
	}
	dist[s] = 0

	settled := mapset.New[int]()
	for {
		u := -1
		best := math.MaxFloat64
		for i, d := range dist {
			if d < best && !settled.Has(i) {
				best = d
				u = i
			}
		}
		if u < 0 {
			break
		}

		settled.Put(u)
		if u == e {
			break
		}

		for _, edge := range prefabs[u].Prefab.Navigation.Edges {
			v, ok := index[edge.To]
			if !ok || settled.Has(v) {
				continue
			}

			w := dist[u] + edge.Weight
			if prev[u] >= 0 {
				extra, ok := f.gate(prefabs, prev, u, edge.Payload)
				if !ok {
					continue
				}
				w += extra
			}

			if w < dist[v] {
				dist[v] = w
				prev[v] = u
			}
		}
	}

	if dist[e] == math.MaxFloat64 {
		f.log.Debug("no route", zap.Uint64("start", start), zap.Uint64("end", end))
		return res
	}

	res.Found = true
	res.Weight = dist[e]
	f.reconstruct(&res, prefabs, prev, e)
	res.Prefabs = f.PrefabsAlong(res.Roads)

	f.log.Debug("route found",
		zap.Uint64("start", start),
		zap.Uint64("end", end),
		zap.Int("roads", len(res.Roads)),
		zap.Int("ferries", len(res.Ferries)),
		zap.Float64("weight", res.Weight),
		zap.Duration("took", time.Since(began)),
	)

	return res
}

// gate checks lane continuity at prefab u between the last road that
// reached u and the first road of the next edge. It returns the extra
// internal length, or false when no internal route connects them.
func (f *Finder) gate(prefabs []*mapgraph.Item, prev []int, u int, next []uint64) (float64, bool) {
	var in []uint64
	for p, m := prev[u], u; len(in) == 0 && p >= 0; m, p = p, prev[p] {
		edge, _ := prefabs[p].Prefab.Navigation.Get(prefabs[m].UID)
		in = edge.Payload
	}
	if len(in) == 0 || len(next) == 0 {
		return 0, true
	}

	from, to := f.reg.Item(in[len(in)-1]), f.reg.Item(next[0])
	if !from.IsRoad() || !to.IsRoad() {
		return 0, true
	}

	r, ok := f.resolver.Resolve(from, to)
	if !ok {
		return 0, false
	}

	return r.Length, true
}

// reconstruct walks predecessors back from e and fills roads and ferries
// in travel order.
func (f *Finder) reconstruct(res *Result, prefabs []*mapgraph.Item, prev []int, e int) {
	seen := make(map[uint64]bool)
	for cur := e; prev[cur] >= 0; cur = prev[cur] {
		edge, ok := prefabs[prev[cur]].Prefab.Navigation.Get(prefabs[cur].UID)
		if !ok || len(edge.Payload) == 0 {
			continue
		}

		if f.isFerryLeg(edge.Payload) {
			if !seen[edge.Payload[0]] {
				seen[edge.Payload[0]] = true
				res.Ferries = append(res.Ferries, FerryLeg{From: edge.Payload[0], To: edge.Payload[1]})
			}
			continue
		}

		for i := len(edge.Payload) - 1; i >= 0; i-- {
			res.Roads = append(res.Roads, edge.Payload[i])
		}
	}

	reverse(res.Roads)
	reverse(res.Ferries)
}

func (f *Finder) isFerryLeg(payload []uint64) bool {
	return len(payload) == 2 && f.reg.Item(payload[0]).IsFerryPort() && f.reg.Item(payload[1]).IsFerryPort()
}

// PrefabsAlong returns the internal route selections between consecutive
// roads of a route.
func (f *Finder) PrefabsAlong(roads []uint64) []Selection {
	var out []Selection
	for i := 0; i+1 < len(roads); i++ {
		r, ok := f.resolver.Resolve(f.reg.Item(roads[i]), f.reg.Item(roads[i+1]))
		if ok {
			out = append(out, r.Selections...)
		}
	}

	return out
}

func reverse[T any](s []T) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
