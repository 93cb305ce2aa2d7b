// Package navgraph builds the macro navigation graph: weighted edges
// between prefabs along road chains, direct prefab joints and ferry legs.
package navgraph

import (
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/woozymasta/scs-route-tool/internal/mapgraph"
	"github.com/woozymasta/scs-route-tool/internal/token"
)

// Stats counts the edges a build added.
type Stats struct {
	RoadEdges       int `json:"road_edges"`
	DirectEdges     int `json:"direct_edges"`
	FerryEdges      int `json:"ferry_edges"`
	UnanchoredPorts int `json:"unanchored_ports"`
}

// Builder fills prefab navigation maps of a linked registry.
type Builder struct {
	reg *mapgraph.Registry
	log *zap.Logger
}

// New returns a builder. A nil logger discards output.
func New(reg *mapgraph.Registry, log *zap.Logger) *Builder {
	if log == nil {
		log = zap.NewNop()
	}

	return &Builder{reg: reg, log: log}
}

// Build adds road, direct and ferry edges.
func (b *Builder) Build() Stats {
	start := time.Now()
	st := b.BuildRoads()
	b.SpliceFerries(&st)

	b.log.Info("built navigation graph",
		zap.Int("prefabs", len(b.reg.Prefabs())),
		zap.Int("road_edges", st.RoadEdges),
		zap.Int("direct_edges", st.DirectEdges),
		zap.Int("ferry_edges", st.FerryEdges),
		zap.Duration("took", time.Since(start)),
	)

	return st
}

// BuildRoads links the registry when needed, then walks from every
// boundary node of every visible prefab.
func (b *Builder) BuildRoads() Stats {
	if !b.reg.Linked() {
		b.reg.Link()
	}

	var st Stats
	for _, p := range b.reg.Prefabs() {
		if p.Hidden {
			continue
		}

		for _, uid := range p.Prefab.Nodes {
			n := b.reg.Node(uid)
			if n == nil {
				continue
			}
			b.fromNode(p, n, &st)
		}
	}

	return st
}

// fromNode adds the edges starting at one boundary node of prefab p.
func (b *Builder) fromNode(p *mapgraph.Item, n *mapgraph.Node, st *Stats) {
	fwd, back := b.reg.Forward(n), b.reg.Backward(n)

	road := back
	if fwd.IsRoad() {
		road = fwd
	}
	if !road.IsRoad() {
		if fwd == nil || back == nil || !fwd.IsPrefab() || !back.IsPrefab() {
			return
		}
		if fwd.Hidden || back.Hidden || fwd == back {
			return
		}
		if fwd.Prefab.Navigation.Add(back.UID, 0, nil) {
			st.DirectEdges++
		}
		if back.Prefab.Navigation.Add(fwd.UID, 0, nil) {
			st.DirectEdges++
		}
		return
	}

	direction := 0
	if road.Road.EndNode == n.UID {
		direction = 1
	}

	chain := b.walk(p, n, road)
	next := chain.end
	if next == nil || next.Hidden || !next.IsPrefab() || next == p || len(chain.roads) == 0 {
		return
	}

	bidirectional := true
	if look := b.reg.RoadLook(b.reg.Item(chain.roads[len(chain.roads)-1])); look != nil {
		bidirectional = look.IsBidirectional()
	}

	if bidirectional || direction == 0 {
		if p.Prefab.Navigation.Add(next.UID, chain.weight, chain.roads) {
			st.RoadEdges++
		}
	}
	if bidirectional || direction == 1 {
		if next.Prefab.Navigation.Add(p.UID, chain.weight, reversed(chain.roads)) {
			st.RoadEdges++
		}
	}
}

type chain struct {
	roads  []uint64
	weight float64
	end    *mapgraph.Item
}

// walk follows consecutive visible roads from node n and returns them with
// their width-normalized length and the item that ended the chain.
func (b *Builder) walk(p *mapgraph.Item, n *mapgraph.Node, road *mapgraph.Item) chain {
	var c chain
	prevNode := n
	prevItem := p.UID
	cur := road

	for cur.IsRoad() && !cur.Hidden {
		c.weight += b.reg.RoadLength(cur) / b.reg.RoadWidth(cur)
		c.roads = append(c.roads, cur.UID)

		far := cur.Road.StartNode
		if far == prevNode.UID {
			far = cur.Road.EndNode
		}
		next := b.reg.Node(far)
		if next == nil {
			return c
		}
		prevNode = next

		var item *mapgraph.Item
		if next.Backward == cur.UID || next.Backward == prevItem {
			item = b.reg.Forward(next)
		} else {
			item = b.reg.Backward(next)
		}
		if item == nil {
			return c
		}

		prevItem = item.UID
		cur = item
	}

	c.end = cur

	return c
}

// SpliceFerries anchors each ferry port on its nearest eligible prefab and
// links anchors of connected ports with ferry legs.
func (b *Builder) SpliceFerries(st *Stats) {
	ports := b.reg.FerryPorts()
	if len(ports) == 0 {
		return
	}

	byPort := make(map[token.Token]*mapgraph.Item, len(ports))
	anchors := make(map[token.Token]*mapgraph.Item, len(ports))
	for _, port := range ports {
		tok := port.Ferry.Port
		if _, ok := byPort[tok]; ok {
			continue
		}
		byPort[tok] = port
		anchors[tok] = b.nearestAnchor(port.X, port.Z)
	}

	for _, port := range ports {
		for _, c := range b.reg.Defs.Ferries {
			if c.StartPort != port.Ferry.Port {
				continue
			}

			sa, ea := anchors[c.StartPort], anchors[c.EndPort]
			sp, ep := byPort[c.StartPort], byPort[c.EndPort]
			if sa == nil || ea == nil || sp == nil || ep == nil {
				st.UnanchoredPorts++
				b.log.Debug("ferry connection without anchor",
					zap.Stringer("start", c.StartPort),
					zap.Stringer("end", c.EndPort),
				)
				continue
			}
			if sa == ea {
				continue
			}

			w := float64(c.Distance)
			if sa.Prefab.Navigation.Add(ea.UID, w, []uint64{sp.UID, ep.UID}) {
				st.FerryEdges++
			}
			if ea.Prefab.Navigation.Add(sa.UID, w, []uint64{ep.UID, sp.UID}) {
				st.FerryEdges++
			}
		}
	}
}

// nearestAnchor returns the closest visible prefab with more than one edge.
func (b *Builder) nearestAnchor(x, z float64) *mapgraph.Item {
	var best *mapgraph.Item
	min := math.MaxFloat64

	for _, p := range b.reg.Prefabs() {
		if p.Hidden || p.Prefab.Navigation.Len() <= 1 {
			continue
		}
		if d := math.Hypot(x-p.X, z-p.Z); d < min {
			min = d
			best = p
		}
	}

	return best
}

func reversed(in []uint64) []uint64 {
	out := make([]uint64, len(in))
	for i, v := range in {
		out[len(in)-1-i] = v
	}

	return out
}
