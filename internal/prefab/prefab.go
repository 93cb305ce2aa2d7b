// Package prefab decodes prefab descriptors (.ppd) and answers internal
// route queries between their boundary nodes.
package prefab

import (
	"errors"
	"fmt"

	"github.com/woozymasta/scs-route-tool/internal/token"
)

// MinVersion is the oldest descriptor version the decoder understands.
const MinVersion = 0x15

const (
	nodeBlockSize  = 0x68
	curveBlockSize = 0x84
	maxNodeLanes   = 8
	maxCurveLinks  = 4
)

var (
	// ErrVersion is returned for descriptors older than MinVersion.
	ErrVersion = errors.New("unsupported prefab descriptor version")
	// ErrTruncated is returned when a table points past the end of the data.
	ErrTruncated = errors.New("prefab descriptor truncated")
)

func truncatedAt(off, size int) error {
	return fmt.Errorf("%w: offset %#x, size %#x", ErrTruncated, off, size)
}

// Node is a boundary node of a prefab in prefab-local space.
type Node struct {
	ID           int     `json:"id"`
	X            float64 `json:"x"`
	Y            float64 `json:"y"`
	Z            float64 `json:"z"`
	RotX         float64 `json:"rot_x"`
	RotY         float64 `json:"rot_y"`
	RotZ         float64 `json:"rot_z"`
	LaneCount    int     `json:"lane_count"`
	InputPoints  []int   `json:"input_points,omitempty"`  // curves entering the prefab here
	OutputPoints []int   `json:"output_points,omitempty"` // curves leaving the prefab here
}

// Curve is one navigation curve inside a prefab.
type Curve struct {
	ID        int     `json:"id"`
	NodeID    int     `json:"node_id"`
	StartX    float64 `json:"start_x"`
	StartY    float64 `json:"start_y"`
	StartZ    float64 `json:"start_z"`
	EndX      float64 `json:"end_x"`
	EndY      float64 `json:"end_y"`
	EndZ      float64 `json:"end_z"`
	Length    float64 `json:"length"`
	NextLines []int   `json:"next_lines,omitempty"`
	PrevLines []int   `json:"prev_lines,omitempty"`
}

// RouteKey addresses an internal route by entry and exit node ids.
type RouteKey struct {
	Start int
	End   int
}

// String returns the key as "s/e".
func (k RouteKey) String() string {
	return fmt.Sprintf("%d/%d", k.Start, k.End)
}

// Route is a precomputed internal route: its curves in travel order and
// the sum of their chord lengths.
type Route struct {
	Curves []int   `json:"curves"`
	Length float64 `json:"length"`
}

// Descriptor is the decoded navigation part of a .ppd file.
type Descriptor struct {
	Version int
	Nodes   []Node
	Curves  []Curve
}

// Def is a prefab definition: identity from the definition files plus the
// geometry of its descriptor and the internal routes derived from it.
type Def struct {
	Token    token.Token
	Path     string
	Category string
	Version  int
	Nodes    []Node
	Curves   []Curve
	Routes   map[RouteKey]Route
}

// NewDef returns a definition without geometry.
func NewDef(t token.Token, path, category string) *Def {
	return &Def{Token: t, Path: path, Category: category, Routes: map[RouteKey]Route{}}
}

// SetDescriptor copies the descriptor geometry into the definition and
// recomputes its internal routes.
func (d *Def) SetDescriptor(desc *Descriptor) {
	d.Version = desc.Version
	d.Nodes = desc.Nodes
	d.Curves = desc.Curves
	d.Routes = ComputeRoutes(desc.Nodes, desc.Curves)
}

// ValidRoad reports whether the prefab has any navigation curve.
func (d *Def) ValidRoad() bool {
	return len(d.Curves) != 0
}

// Route returns the internal route between two boundary nodes.
func (d *Def) Route(start, end int) (Route, bool) {
	r, ok := d.Routes[RouteKey{Start: start, End: end}]
	return r, ok
}

// Decode parses the node and navigation curve tables of a descriptor.
func Decode(data []byte) (*Descriptor, error) {
	r := &reader{b: data}

	version := r.i32(0)
	if r.err != nil {
		return nil, r.err
	}
	if version < MinVersion {
		return nil, fmt.Errorf("%w: %#x, min %#x", ErrVersion, version, MinVersion)
	}

	off := 0x04
	nodeCount := r.i32(off)
	off += 0x04
	curveCount := r.i32(off)
	off += 0x0C // spawn point count
	off += 0x0C // map point count
	off += 0x04 // trigger point count
	if version > MinVersion {
		off += 0x04
	}
	off += 0x08
	nodeOffset := r.i32(off)
	off += 0x04
	curveOffset := r.i32(off)
	if r.err != nil {
		return nil, r.err
	}
	if nodeCount < 0 || curveCount < 0 {
		return nil, truncatedAt(0x04, len(data))
	}
	if !tableFits(nodeOffset, nodeCount, nodeBlockSize, len(data)) {
		return nil, truncatedAt(nodeOffset, len(data))
	}
	if !tableFits(curveOffset, curveCount, curveBlockSize, len(data)) {
		return nil, truncatedAt(curveOffset, len(data))
	}

	desc := &Descriptor{
		Version: version,
		Nodes:   make([]Node, 0, nodeCount),
		Curves:  make([]Curve, 0, curveCount),
	}

	for i := 0; i < nodeCount; i++ {
		base := nodeOffset + i*nodeBlockSize
		n := Node{
			ID:   i,
			X:    r.f32(base + 0x10),
			Y:    r.f32(base + 0x14),
			Z:    r.f32(base + 0x18),
			RotX: r.f32(base + 0x1C),
			RotY: r.f32(base + 0x20),
			RotZ: r.f32(base + 0x24),
		}
		for j := 0; j < maxNodeLanes; j++ {
			if in := r.i32(base + 0x28 + j*4); in != -1 {
				n.InputPoints = append(n.InputPoints, in)
			}
			if out := r.i32(base + 0x48 + j*4); out != -1 {
				n.OutputPoints = append(n.OutputPoints, out)
			}
		}
		n.LaneCount = len(n.InputPoints) + len(n.OutputPoints)
		desc.Nodes = append(desc.Nodes, n)
	}

	for i := 0; i < curveCount; i++ {
		base := curveOffset + i*curveBlockSize
		c := Curve{
			ID:     i,
			NodeID: r.i32(base + 0x0C),
			StartX: r.f32(base + 0x10),
			StartY: r.f32(base + 0x14),
			StartZ: r.f32(base + 0x18),
			EndX:   r.f32(base + 0x1C),
			EndY:   r.f32(base + 0x20),
			EndZ:   r.f32(base + 0x24),
			Length: r.f32(base + 0x44),
		}
		c.NextLines = readLinks(r, base+0x4C, r.i32(base+0x6C), curveCount)
		c.PrevLines = readLinks(r, base+0x5C, r.i32(base+0x70), curveCount)
		desc.Curves = append(desc.Curves, c)
	}

	if r.err != nil {
		return nil, r.err
	}

	return desc, nil
}

// tableFits reports whether count blocks of size starting at off lie
// within n bytes.
func tableFits(off, count, size, n int) bool {
	if count == 0 {
		return true
	}
	if off < 0 || off > n {
		return false
	}

	return count <= (n-off)/size
}

// readLinks reads up to maxCurveLinks curve ids, dropping ids outside the table.
func readLinks(r *reader, off, count, curveCount int) []int {
	if count > maxCurveLinks {
		count = maxCurveLinks
	}

	var out []int
	for j := 0; j < count; j++ {
		id := r.i32(off + j*4)
		if id >= 0 && id < curveCount {
			out = append(out, id)
		}
	}

	return out
}
