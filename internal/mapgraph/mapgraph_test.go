package mapgraph

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/woozymasta/scs-route-tool/internal/defs"
	"github.com/woozymasta/scs-route-tool/internal/token"
)

// smallMap is prefab 100 -- road 10 -- prefab 200, plus prefab 300 touching 200 directly.
func smallMap(t *testing.T) *Registry {
	t.Helper()

	r := NewRegistry(nil)
	for _, n := range []*Node{
		{UID: 1, X: 0, Z: 0, ForwardUID: 10, BackwardUID: 100},
		{UID: 2, X: 30, Z: 40, ForwardUID: 200, BackwardUID: 10},
		{UID: 3, X: 60, Z: 40, ForwardUID: 300, BackwardUID: 200},
		{UID: 4, X: 90, Z: 40, ForwardUID: 999, BackwardUID: 300},
	} {
		require.NoError(t, r.AddNode(n))
	}

	require.NoError(t, r.AddItem(NewRoad(10, 15, 20, false, Road{StartNode: 1, EndNode: 2})))
	require.NoError(t, r.AddItem(NewPrefab(100, 0, 0, false, 0, []uint64{1}, 0)))
	require.NoError(t, r.AddItem(NewPrefab(200, 45, 40, false, 0, []uint64{2, 3}, 0)))
	require.NoError(t, r.AddItem(NewPrefab(300, 75, 40, false, 0, []uint64{3, 4}, 0)))
	r.Link()

	return r
}

func TestRegistryAdd(t *testing.T) {
	t.Parallel()

	r := smallMap(t)

	err := r.AddItem(NewFerryPort(10, 0, 0, 1))
	assert.True(t, errors.Is(err, ErrDuplicateUID), "uids are shared across kinds")

	err = r.AddNode(&Node{UID: 1})
	assert.True(t, errors.Is(err, ErrDuplicateUID))

	err = r.AddItem(&Item{UID: 55, Kind: KindRoad})
	assert.True(t, errors.Is(err, ErrNoVariant))

	assert.Equal(t, 4, r.NodeCount())
	assert.Equal(t, 4, r.ItemCount())
	assert.Len(t, r.Prefabs(), 3)
	assert.Equal(t, uint64(100), r.Prefabs()[0].UID)
	assert.True(t, r.Linked(), "rejected items keep the registry linked")

	require.NoError(t, r.AddItem(NewFerryPort(50, 0, 0, 1)))
	assert.False(t, r.Linked(), "adding after Link clears the linked flag")
}

func TestLink(t *testing.T) {
	t.Parallel()

	r := smallMap(t)

	n4 := r.Node(4)
	assert.Equal(t, uint64(0), n4.Forward, "unknown uid links to nothing")
	assert.Equal(t, uint64(300), n4.Backward)
	assert.Nil(t, r.Forward(n4))

	before := *r.Node(2)
	r.Link()
	assert.Equal(t, before, *r.Node(2))
	assert.True(t, r.Linked())

	assert.True(t, r.Forward(r.Node(1)).IsRoad())
	assert.True(t, r.Backward(r.Node(1)).IsPrefab())
}

func TestRegistryHelpers(t *testing.T) {
	t.Parallel()

	r := smallMap(t)
	road := r.Item(10)

	assert.InDelta(t, 50, r.RoadLength(road), 1e-9)
	assert.Equal(t, 1.0, r.RoadWidth(road), "unknown look falls back to width 1")

	n := r.NodeItemInPrefab(r.Item(200), 10)
	require.NotNil(t, n)
	assert.Equal(t, uint64(2), n.UID)
	assert.Nil(t, r.NodeItemInPrefab(r.Item(300), 10))

	hops := r.NeighbourPrefabs(r.Item(200))
	require.Len(t, hops, 1)
	assert.Equal(t, uint64(300), hops[0].Prefab.UID)
	assert.Equal(t, uint64(3), hops[0].Node.UID)

	p, ok := r.Placement(r.Item(300))
	require.True(t, ok)
	assert.Equal(t, 60.0, p.X)
	_, ok = r.Placement(road)
	assert.False(t, ok)
}

func TestNodeRotation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		rx, rz float64
		want   float64
	}{
		{name: "east", rx: 1, rz: 0, want: 0},
		{name: "south", rx: 0, rz: 1, want: math.Pi},
		{name: "west", rx: -1, rz: 0, want: 0},
		{name: "north", rx: 0, rz: -1, want: math.Pi},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := NodeRotation(tt.rx, tt.rz); math.Abs(got-tt.want) > 1e-9 {
				t.Fatalf("got=%v want %v", got, tt.want)
			}
		})
	}
}

func TestNavigation(t *testing.T) {
	t.Parallel()

	var nav Navigation
	assert.True(t, nav.Add(2, 5, []uint64{10}))
	assert.False(t, nav.Add(2, 1, nil), "first edge to a neighbour wins")
	assert.True(t, nav.Add(3, 0, nil))

	e, ok := nav.Get(2)
	require.True(t, ok)
	assert.Equal(t, 5.0, e.Weight)
	assert.Equal(t, 2, nav.Len())

	decoded := Navigation{Edges: append([]Edge(nil), nav.Edges...)}
	assert.True(t, decoded.Has(3), "lookup works before reindexing")
	decoded.Reindex()
	assert.True(t, decoded.Has(3))
	assert.False(t, decoded.Has(4))

	decoded.Reset()
	assert.Equal(t, 0, decoded.Len())
}

func TestStateRestore(t *testing.T) {
	t.Parallel()

	r := smallMap(t)
	r.Item(100).Prefab.Navigation.Add(200, 2, []uint64{10})

	st := r.State()
	for _, it := range st.Items {
		if it.IsPrefab() {
			it.Prefab.Navigation = Navigation{Edges: it.Prefab.Navigation.Edges}
		}
	}

	back, err := Restore(defs.NewTables(), st)
	require.NoError(t, err)
	assert.True(t, back.Linked())
	assert.True(t, back.Item(100).Prefab.Navigation.Has(200))
	assert.Equal(t, r.Node(2).Forward, back.Node(2).Forward)
}

func writeDump(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
	}

	return dir
}

func TestLoadDump(t *testing.T) {
	t.Parallel()

	dir := writeDump(t, map[string]string{
		NodesFile: `[
			{"Uid": 18446744073709551600, "X": 1.5, "Z": -2, "Rotation": 0.5, "ForwardItemUid": 20, "BackwardItemUid": "0x1e"},
			{"Uid": 2, "X": 10, "Z": 0, "RX": 0, "RZ": 1, "ForwardItemUid": 0, "BackwardItemUid": 20},
			{"Uid": 2},
			{"X": 3}
		]`,
		RoadsFile: `[{"Uid": 20, "StartNodeUid": 18446744073709551600, "EndNodeUid": 2, "RoadLook": "look1", "Hidden": true}]`,
		PrefabsFile: `[{"Uid": 30, "X": 1, "Z": 2, "Nodes": [18446744073709551600], "Origin": 1, "Prefab": 12345}]`,
		FerryPortsFile: `[{"Uid": 40, "X": 5, "Z": 6, "FerryPortId": "port_a"}]`,
	})

	r := NewRegistry(nil)
	st, err := LoadDump(dir, r, nil)
	require.NoError(t, err)

	assert.Equal(t, DumpStats{Nodes: 2, Roads: 1, Prefabs: 1, FerryPorts: 1, Skipped: 2}, st)

	big := r.Node(18446744073709551600)
	require.NotNil(t, big)
	assert.Equal(t, uint64(30), big.BackwardUID)
	assert.InDelta(t, math.Pi, r.Node(2).Rotation, 1e-9)

	road := r.Item(20)
	require.True(t, road.IsRoad())
	assert.True(t, road.Hidden)
	assert.Equal(t, token.FromString("look1"), road.Road.Look)

	pf := r.Item(30)
	require.True(t, pf.IsPrefab())
	assert.Equal(t, token.Token(12345), pf.Prefab.Def)
	assert.Equal(t, []uint64{18446744073709551600}, pf.Prefab.Nodes)
	assert.Equal(t, 1, pf.Prefab.Origin)

	assert.Equal(t, token.FromString("port_a"), r.Item(40).Ferry.Port)
	assert.Len(t, DumpFiles(dir), 4)
}

func TestLoadDumpErrors(t *testing.T) {
	t.Parallel()

	missing := writeDump(t, map[string]string{NodesFile: `[]`, RoadsFile: `[]`})
	_, err := LoadDump(missing, NewRegistry(nil), nil)
	assert.True(t, errors.Is(err, os.ErrNotExist))

	broken := writeDump(t, map[string]string{NodesFile: `[{"Uid": 1`, RoadsFile: `[]`, PrefabsFile: `[]`})
	_, err = LoadDump(broken, NewRegistry(nil), nil)
	assert.True(t, errors.Is(err, ErrInvalidDump))

	object := writeDump(t, map[string]string{NodesFile: `{}`, RoadsFile: `[]`, PrefabsFile: `[]`})
	_, err = LoadDump(object, NewRegistry(nil), nil)
	assert.True(t, errors.Is(err, ErrInvalidDump))
}

func TestApplyFerryPortLocations(t *testing.T) {
	t.Parallel()

	tables := defs.NewTables()
	a, b, c := token.FromString("a"), token.FromString("b"), token.FromString("c")
	tables.Ferries = []*defs.FerryConnection{
		{StartPort: a, EndPort: b},
		{StartPort: a, EndPort: c},
	}

	r := NewRegistry(tables)
	require.NoError(t, r.AddItem(NewFerryPort(1, 10, 10, a)))
	require.NoError(t, r.AddItem(NewFerryPort(2, 20, 20, b)))

	assert.Equal(t, 1, r.ApplyFerryPortLocations(nil))
	require.Len(t, tables.Ferries, 1)
	assert.Equal(t, 20.0, tables.Ferries[0].EndX)
}
