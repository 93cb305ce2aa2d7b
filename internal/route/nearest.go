package route

import (
	"fmt"
	"math"

	"github.com/woozymasta/scs-route-tool/internal/mapgraph"
)

// NearestPrefab returns the visible prefab with navigation edges closest
// to (x, z), within tolerance on both axes.
func NearestPrefab(reg *mapgraph.Registry, x, z, tolerance float64) (*mapgraph.Item, error) {
	var best *mapgraph.Item
	min := math.MaxFloat64

	for _, p := range reg.Prefabs() {
		if p.Hidden || p.Prefab.Navigation.Len() == 0 {
			continue
		}

		dx, dz := p.X-x, p.Z-z
		if math.Abs(dx) > tolerance || math.Abs(dz) > tolerance {
			continue
		}
		if d := math.Hypot(dx, dz); d < min {
			min = d
			best = p
		}
	}

	if best == nil {
		return nil, fmt.Errorf("%w near (%g, %g) within %g", ErrNotRoutable, x, z, tolerance)
	}

	return best, nil
}

// Prefab returns the prefab item with the uid, or ErrNotRoutable.
func Prefab(reg *mapgraph.Registry, uid uint64) (*mapgraph.Item, error) {
	it := reg.Item(uid)
	if !it.IsPrefab() {
		return nil, fmt.Errorf("%w: %#x is not a prefab item", ErrNotRoutable, uid)
	}

	return it, nil
}
