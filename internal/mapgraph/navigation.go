package mapgraph

// Edge is a macro-graph edge from a prefab to a neighbouring routing node.
type Edge struct {
	To      uint64   // neighbouring prefab uid
	Weight  float64  // width-normalized length, ferry distance, or 0
	Payload []uint64 // road item uids in travel order, two ferry port uids, or nil
}

// Navigation is the ordered edge list of a prefab. The first edge to a
// neighbour wins; later ones are ignored.
type Navigation struct {
	Edges []Edge
	index map[uint64]int
}

// Add appends an edge unless one to the same neighbour exists.
func (n *Navigation) Add(to uint64, weight float64, payload []uint64) bool {
	if _, ok := n.Get(to); ok {
		return false
	}
	if n.index == nil {
		n.index = make(map[uint64]int)
	}

	n.index[to] = len(n.Edges)
	n.Edges = append(n.Edges, Edge{To: to, Weight: weight, Payload: payload})

	return true
}

// Get returns the edge to a neighbour.
func (n *Navigation) Get(to uint64) (Edge, bool) {
	if n.index == nil {
		for _, e := range n.Edges {
			if e.To == to {
				return e, true
			}
		}
		return Edge{}, false
	}

	i, ok := n.index[to]
	if !ok {
		return Edge{}, false
	}

	return n.Edges[i], true
}

// Has reports whether an edge to the neighbour exists.
func (n *Navigation) Has(to uint64) bool {
	_, ok := n.Get(to)
	return ok
}

// Len returns the number of edges.
func (n *Navigation) Len() int {
	return len(n.Edges)
}

// Reindex rebuilds the neighbour index after the edges were decoded.
func (n *Navigation) Reindex() {
	n.index = make(map[uint64]int, len(n.Edges))
	for i, e := range n.Edges {
		if _, ok := n.index[e.To]; !ok {
			n.index[e.To] = i
		}
	}
}

// Reset drops every edge.
func (n *Navigation) Reset() {
	n.Edges = nil
	n.index = nil
}
