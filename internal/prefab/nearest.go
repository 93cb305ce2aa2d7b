package prefab

import "math"

// NodeTolerance is the largest distance at which a world node still matches
// a prefab boundary node.
const NodeTolerance = 0.2

// Mode restricts which boundary nodes NearestNode considers.
type Mode int

const (
	ModeInput  Mode = iota // nodes with entry curves
	ModeOutput             // nodes with exit curves
	ModeAny                // every node
)

// Placement positions a prefab instance in world space through its first
// boundary node and the index of the prefab node it corresponds to.
type Placement struct {
	X        float64 // world position of the first boundary node
	Z        float64
	Rotation float64 // world rotation of the first boundary node
	Origin   int     // prefab node index placed at the first boundary node
}

// RotatePoint rotates (x, z) by angle around (ox, oz).
func RotatePoint(x, z, angle, ox, oz float64) (float64, float64) {
	s, c := math.Sincos(angle)
	dx, dz := x-ox, z-oz

	return dx*c - dz*s + ox, dx*s + dz*c + oz
}

// World returns the world position of a prefab-local point.
func (d *Def) World(p Placement, x, z float64) (float64, float64, bool) {
	if p.Origin < 0 || p.Origin >= len(d.Nodes) {
		return 0, 0, false
	}

	origin := d.Nodes[p.Origin]
	startX := p.X - origin.X
	startZ := p.Z - origin.Z
	rot := p.Rotation - math.Pi - math.Atan2(origin.RotZ, origin.RotX) + math.Pi/2
	wx, wz := RotatePoint(startX+x, startZ+z, rot, p.X, p.Z)

	return wx, wz, true
}

// NearestNode returns the id of the boundary node closest to the world
// point (x, z) within NodeTolerance, or -1 when none qualifies.
func (d *Def) NearestNode(p Placement, x, z float64, mode Mode) int {
	best := -1
	min := math.MaxFloat64

	for _, n := range d.Nodes {
		if mode == ModeInput && len(n.InputPoints) == 0 {
			continue
		}
		if mode == ModeOutput && len(n.OutputPoints) == 0 {
			continue
		}

		wx, wz, ok := d.World(p, n.X, n.Z)
		if !ok {
			return -1
		}

		dist := math.Hypot(x-wx, z-wz)
		if dist < min && dist < NodeTolerance {
			best = n.ID
			min = dist
		}
	}

	return best
}
