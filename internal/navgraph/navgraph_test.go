package navgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/woozymasta/scs-route-tool/internal/defs"
	"github.com/woozymasta/scs-route-tool/internal/mapgraph"
	"github.com/woozymasta/scs-route-tool/internal/roadlook"
	"github.com/woozymasta/scs-route-tool/internal/token"
)

var (
	twoWay = token.FromString("two")
	oneWay = token.FromString("one")
)

func lookTables() *defs.Tables {
	tables := defs.NewTables()

	two := roadlook.New(twoWay)
	two.AddLaneLeft("traffic_lane.road.local")
	two.AddLaneRight("traffic_lane.road.local")
	tables.RoadLooks[twoWay] = two

	one := roadlook.New(oneWay)
	one.AddLaneRight("traffic_lane.road.motorway")
	tables.RoadLooks[oneWay] = one

	return tables
}

// roadMap: A(100) =r1,r2= B(200) -r3 one way-> C(300) | D(400) | E(500, hidden).
func roadMap(t *testing.T) *mapgraph.Registry {
	t.Helper()

	r := mapgraph.NewRegistry(lookTables())
	for _, n := range []*mapgraph.Node{
		{UID: 1, X: 0, Z: 0, BackwardUID: 100, ForwardUID: 10},
		{UID: 2, X: 30, Z: 40, BackwardUID: 10, ForwardUID: 11},
		{UID: 3, X: 60, Z: 80, BackwardUID: 11, ForwardUID: 200},
		{UID: 4, X: 100, Z: 80, BackwardUID: 200, ForwardUID: 12},
		{UID: 5, X: 200, Z: 80, BackwardUID: 12, ForwardUID: 300},
		{UID: 6, X: 210, Z: 80, BackwardUID: 300, ForwardUID: 400},
		{UID: 7, X: 220, Z: 80, BackwardUID: 400, ForwardUID: 500},
	} {
		require.NoError(t, r.AddNode(n))
	}

	items := []*mapgraph.Item{
		mapgraph.NewRoad(10, 0, 0, false, mapgraph.Road{StartNode: 1, EndNode: 2, Look: twoWay}),
		mapgraph.NewRoad(11, 0, 0, false, mapgraph.Road{StartNode: 2, EndNode: 3, Look: twoWay}),
		mapgraph.NewRoad(12, 0, 0, false, mapgraph.Road{StartNode: 4, EndNode: 5, Look: oneWay}),
		mapgraph.NewPrefab(100, 0, 0, false, 0, []uint64{1}, 0),
		mapgraph.NewPrefab(200, 80, 80, false, 0, []uint64{3, 4}, 0),
		mapgraph.NewPrefab(300, 205, 80, false, 0, []uint64{5, 6}, 0),
		mapgraph.NewPrefab(400, 215, 80, false, 0, []uint64{6, 7}, 0),
		mapgraph.NewPrefab(500, 225, 80, true, 0, []uint64{7}, 0),
	}
	for _, it := range items {
		require.NoError(t, r.AddItem(it))
	}

	return r
}

func edge(t *testing.T, r *mapgraph.Registry, from, to uint64) mapgraph.Edge {
	t.Helper()

	e, ok := r.Item(from).Prefab.Navigation.Get(to)
	require.True(t, ok, "edge %d -> %d", from, to)

	return e
}

func TestBuildRoads(t *testing.T) {
	t.Parallel()

	r := roadMap(t)
	st := New(r, nil).Build()

	assert.Equal(t, 3, st.RoadEdges)
	assert.Equal(t, 2, st.DirectEdges)

	ab := edge(t, r, 100, 200)
	assert.InDelta(t, 100.0/9.0, ab.Weight, 1e-9)
	assert.Equal(t, []uint64{10, 11}, ab.Payload)

	ba := edge(t, r, 200, 100)
	assert.InDelta(t, ab.Weight, ba.Weight, 1e-12)
	assert.Equal(t, []uint64{11, 10}, ba.Payload)

	bc := edge(t, r, 200, 300)
	assert.InDelta(t, 100.0/4.5, bc.Weight, 1e-9)
	assert.Equal(t, []uint64{12}, bc.Payload)
	assert.False(t, r.Item(300).Prefab.Navigation.Has(200), "one-way road gives no reverse edge")

	cd := edge(t, r, 300, 400)
	assert.Zero(t, cd.Weight)
	assert.Nil(t, cd.Payload)
	assert.True(t, r.Item(400).Prefab.Navigation.Has(300))

	assert.False(t, r.Item(400).Prefab.Navigation.Has(500), "hidden prefabs get no edges")
	assert.Zero(t, r.Item(500).Prefab.Navigation.Len())
}

func TestBuildRoadsLinksRegistry(t *testing.T) {
	t.Parallel()

	r := roadMap(t)
	require.False(t, r.Linked())

	st := New(r, nil).BuildRoads()
	assert.True(t, r.Linked())
	assert.Equal(t, 3, st.RoadEdges)
	assert.Equal(t, []uint64{10, 11}, edge(t, r, 100, 200).Payload)
}

func TestBuildHiddenRoad(t *testing.T) {
	t.Parallel()

	r := roadMap(t)
	r.Item(11).Hidden = true
	st := New(r, nil).Build()

	assert.False(t, r.Item(100).Prefab.Navigation.Has(200))
	assert.False(t, r.Item(200).Prefab.Navigation.Has(100))
	assert.Equal(t, 1, st.RoadEdges)
}

func TestSpliceFerries(t *testing.T) {
	t.Parallel()

	a, b, c := token.FromString("port_a"), token.FromString("port_b"), token.FromString("port_c")
	tables := defs.NewTables()
	tables.Ferries = []*defs.FerryConnection{
		{StartPort: a, EndPort: b, Distance: 500},
		{StartPort: a, EndPort: c, Distance: 10},
	}

	r := mapgraph.NewRegistry(tables)
	x := mapgraph.NewPrefab(1, 0, 0, false, 0, nil, 0)
	y := mapgraph.NewPrefab(2, 1000, 0, false, 0, nil, 0)
	hidden := mapgraph.NewPrefab(3, 1, 1, true, 0, nil, 0)
	single := mapgraph.NewPrefab(4, 2, 2, false, 0, nil, 0)
	for _, p := range []*mapgraph.Item{x, y, hidden} {
		p.Prefab.Navigation.Add(90, 1, nil)
		p.Prefab.Navigation.Add(91, 1, nil)
	}
	single.Prefab.Navigation.Add(92, 1, nil)

	for _, it := range []*mapgraph.Item{
		x, y, hidden, single,
		mapgraph.NewFerryPort(10, 5, 5, a),
		mapgraph.NewFerryPort(11, 990, 0, b),
		mapgraph.NewFerryPort(12, 3, 3, a),
	} {
		require.NoError(t, r.AddItem(it))
	}
	r.Link()

	var st Stats
	New(r, nil).SpliceFerries(&st)

	assert.Equal(t, 2, st.FerryEdges)
	assert.Equal(t, 2, st.UnanchoredPorts, "a->c is skipped once per port item named a")

	xy := edge(t, r, 1, 2)
	assert.Equal(t, 500.0, xy.Weight)
	assert.Equal(t, []uint64{10, 11}, xy.Payload, "first port item wins")

	yx := edge(t, r, 2, 1)
	assert.Equal(t, []uint64{11, 10}, yx.Payload)

	assert.False(t, hidden.Prefab.Navigation.Has(2))
	assert.False(t, single.Prefab.Navigation.Has(2))
}

func TestFerryEdgesSymmetric(t *testing.T) {
	t.Parallel()

	a, b := token.FromString("port_a"), token.FromString("port_b")
	r := roadMap(t)
	r.Defs.Ferries = []*defs.FerryConnection{{StartPort: a, EndPort: b, Distance: 42}}

	// Prefab 200 is the only prefab with two edges after the road pass, so
	// both ports would anchor on it; add a second eligible prefab far away.
	far := mapgraph.NewPrefab(600, 5000, 5000, false, 0, nil, 0)
	far.Prefab.Navigation.Add(1, 1, nil)
	far.Prefab.Navigation.Add(2, 1, nil)
	require.NoError(t, r.AddItem(far))
	require.NoError(t, r.AddItem(mapgraph.NewFerryPort(20, 80, 80, a)))
	require.NoError(t, r.AddItem(mapgraph.NewFerryPort(21, 5000, 4990, b)))

	New(r, nil).Build()

	for _, p := range r.Prefabs() {
		for _, e := range p.Prefab.Navigation.Edges {
			if len(e.Payload) != 2 || !r.Item(e.Payload[0]).IsFerryPort() {
				continue
			}
			back := edge(t, r, e.To, p.UID)
			assert.Equal(t, e.Weight, back.Weight)
			assert.Equal(t, []uint64{e.Payload[1], e.Payload[0]}, back.Payload)
		}
	}

	assert.True(t, r.Item(200).Prefab.Navigation.Has(600))
}
