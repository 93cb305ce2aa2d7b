package prefab

import (
	"math"

	"github.com/dominikbraun/graph"
)

const (
	routeSource = -1
	routeSink   = -2

	// hopCost dominates curve lengths (in centimeters) so the fewest curves
	// win and length only breaks ties.
	hopCost = 1 << 24
)

// ComputeRoutes finds, for every ordered pair of distinct boundary nodes,
// the route with the fewest curves from an input curve of the entry node
// to an output curve of the exit node. Pairs with no route are absent.
func ComputeRoutes(nodes []Node, curves []Curve) map[RouteKey]Route {
	routes := make(map[RouteKey]Route)
	if len(curves) == 0 {
		return routes
	}

	for _, in := range nodes {
		if len(in.InputPoints) == 0 {
			continue
		}
		for _, out := range nodes {
			if in.ID == out.ID || len(out.OutputPoints) == 0 {
				continue
			}

			path, ok := curvePath(curves, in.InputPoints, out.OutputPoints)
			if !ok {
				continue
			}

			r := Route{Curves: path}
			for _, id := range path {
				r.Length += chordLength(curves[id])
			}
			routes[RouteKey{Start: in.ID, End: out.ID}] = r
		}
	}

	return routes
}

// curvePath runs a shortest path over the curve graph between a virtual
// source feeding the entry curves and a virtual sink fed by the exit curves.
func curvePath(curves []Curve, entry, exit []int) ([]int, bool) {
	g := graph.New(graph.IntHash, graph.Directed(), graph.Weighted())

	_ = g.AddVertex(routeSource)
	_ = g.AddVertex(routeSink)
	for _, c := range curves {
		_ = g.AddVertex(c.ID)
	}

	for _, c := range curves {
		for _, next := range c.NextLines {
			addEdge(g, c.ID, next, edgeWeight(curves[next]))
		}
	}
	for _, id := range entry {
		if id >= 0 && id < len(curves) {
			addEdge(g, routeSource, id, edgeWeight(curves[id]))
		}
	}
	for _, id := range exit {
		if id >= 0 && id < len(curves) {
			addEdge(g, id, routeSink, 0)
		}
	}

	path, err := graph.ShortestPath(g, routeSource, routeSink)
	if err != nil || len(path) < 3 {
		return nil, false
	}

	return path[1 : len(path)-1], true
}

// addEdge adds an edge; a repeated link keeps the first edge.
func addEdge(g graph.Graph[int, int], from, to, weight int) {
	_ = g.AddEdge(from, to, graph.EdgeWeight(weight))
}

// edgeWeight is the cost of entering a curve.
func edgeWeight(c Curve) int {
	return hopCost + int(math.Round(chordLength(c)*100))
}

// chordLength is the straight 3D distance between curve ends.
func chordLength(c Curve) float64 {
	dx := c.StartX - c.EndX
	dy := c.StartY - c.EndY
	dz := c.StartZ - c.EndZ

	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}
