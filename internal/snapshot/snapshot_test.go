package snapshot

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/woozymasta/scs-route-tool/internal/defs"
	"github.com/woozymasta/scs-route-tool/internal/mapgraph"
	"github.com/woozymasta/scs-route-tool/internal/navgraph"
	"github.com/woozymasta/scs-route-tool/internal/prefab"
	"github.com/woozymasta/scs-route-tool/internal/roadlook"
	"github.com/woozymasta/scs-route-tool/internal/route"
	"github.com/woozymasta/scs-route-tool/internal/token"
)

func built(t *testing.T) *mapgraph.Registry {
	t.Helper()

	look := token.FromString("look")
	cross := token.FromString("cross")

	tables := defs.NewTables()
	l := roadlook.New(look)
	l.AddLaneLeft("traffic_lane.road.local")
	l.AddLaneRight("traffic_lane.road.local")
	tables.RoadLooks[look] = l

	def := prefab.NewDef(cross, "prefab/cross.ppd", "cross")
	def.Nodes = []prefab.Node{{ID: 0, InputPoints: []int{0}}, {ID: 1, X: 10, OutputPoints: []int{0}}}
	def.Curves = []prefab.Curve{{ID: 0, EndX: 10, Length: 10}}
	def.Routes[prefab.RouteKey{Start: 0, End: 1}] = prefab.Route{Curves: []int{0}, Length: 10}
	tables.Prefabs[cross] = def
	tables.Ferries = []*defs.FerryConnection{{StartPort: 1, EndPort: 2, Price: 5, HasStart: true, HasEnd: true}}

	r := mapgraph.NewRegistry(tables)
	for _, n := range []*mapgraph.Node{
		{UID: 101, BackwardUID: 1, ForwardUID: 10},
		{UID: 102, X: 90, BackwardUID: 10, ForwardUID: 2, Rotation: 0.25},
	} {
		require.NoError(t, r.AddNode(n))
	}
	for _, it := range []*mapgraph.Item{
		mapgraph.NewRoad(10, 45, 0, false, mapgraph.Road{StartNode: 101, EndNode: 102, Look: look}),
		mapgraph.NewPrefab(1, 0, 0, false, cross, []uint64{101}, 0),
		mapgraph.NewPrefab(2, 90, 0, false, cross, []uint64{102}, 1),
		mapgraph.NewFerryPort(20, 3, 4, 1),
	} {
		require.NoError(t, r.AddItem(it))
	}
	navgraph.New(r, nil).Build()
	r.ReindexNavigation()

	return r
}

func TestWriteLoad(t *testing.T) {
	t.Parallel()

	r := built(t)
	path := filepath.Join(t.TempDir(), "cache", "graph.snap.zst")

	h, err := Write(path, "fp1", r)
	require.NoError(t, err)
	assert.Equal(t, Version, h.Version)
	assert.Equal(t, 2, h.Nodes)
	assert.Equal(t, 4, h.Items)

	got, err := ReadHeader(path)
	require.NoError(t, err)
	assert.Equal(t, h, got)

	restored, loaded, err := Load(path, "fp1")
	require.NoError(t, err)
	assert.Equal(t, h, loaded)
	assert.True(t, restored.Linked())
	assert.Equal(t, r.State(), restored.State())
	assert.Equal(t, r.Defs.Prefabs, restored.Defs.Prefabs)
	assert.Equal(t, r.Defs.RoadLooks, restored.Defs.RoadLooks)
	assert.Equal(t, r.Defs.Ferries, restored.Defs.Ferries)
	assert.NotNil(t, restored.Defs.Cities, "empty tables come back usable")

	want := route.NewFinder(r, nil, nil).FindPath(1, 2)
	require.True(t, want.Found)
	assert.Equal(t, want, route.NewFinder(restored, nil, nil).FindPath(1, 2))
}

func TestLoadStale(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "graph.snap.zst")
	_, err := Write(path, "fp1", built(t))
	require.NoError(t, err)

	_, _, err = Load(path, "fp2")
	assert.True(t, errors.Is(err, ErrStale))

	_, _, err = Load(filepath.Join(t.TempDir(), "missing.zst"), "fp1")
	assert.True(t, errors.Is(err, os.ErrNotExist))

	bad := filepath.Join(t.TempDir(), "bad.zst")
	require.NoError(t, os.WriteFile(bad, []byte("not zstd"), 0o600))
	_, _, err = Load(bad, "fp1")
	assert.Error(t, err)
}
