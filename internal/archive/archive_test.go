package archive

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMountPriority(t *testing.T) {
	t.Parallel()

	fs := New()
	fs.Mount(NewMem("base", map[string]string{
		"def/city.sii":         "base city",
		"def/country.sii":      "base country",
		"def/world/prefab.sii": "prefabs",
	}))
	fs.Mount(NewMem("mod", map[string]string{
		`DEF\City.sii`:      "mod city",
		"def/city.dlc_x.sii": "dlc city",
	}))

	data, err := fs.ReadFile("def/city.sii")
	require.NoError(t, err)
	assert.Equal(t, "mod city", string(data))

	name, ok := fs.SourceOf("/def/country.sii")
	assert.True(t, ok)
	assert.Equal(t, "base", name)

	assert.Equal(t, []string{"def/city.dlc_x.sii", "def/city.sii"}, fs.ListFiles("def", HasPrefix("city")))
	assert.Equal(t, []string{"def/world/prefab.sii"}, fs.ListFiles("def/world", HasExt(".sii", ".sui")))
	assert.True(t, fs.HasDir("def/world"))
	assert.False(t, fs.HasDir("def/ferry/connection"))
	assert.Equal(t, []string{"world"}, fs.Dirs("def"))
	assert.Equal(t, []string{"def"}, fs.Dirs(""))
	assert.Empty(t, fs.Dirs("def/world"))

	_, err = fs.ReadFile("def/missing.sii")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestClean(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		`\Def\World\Road.sii`: "def/world/road.sii",
		"/def//city.sii":      "def/city.sii",
		"def/./a/../b.sii":    "def/b.sii",
		"  ":                  "",
	}

	for in, want := range tests {
		assert.Equal(t, want, Clean(in), in)
	}
}

func TestDetect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		hdr  string
		kind Kind
	}{
		{name: "zip", hdr: "PK\x03\x04rest", kind: KindZip},
		{name: "hashfs", hdr: "SCS#rest", kind: KindHashFS},
		{name: "unknown", hdr: "XXXX", kind: KindUnknown},
		{name: "short", hdr: "PK", kind: KindUnknown},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			localPath := filepath.Join(t.TempDir(), "base.scs")
			if err := os.WriteFile(localPath, []byte(tt.hdr), 0o600); err != nil {
				t.Fatalf("write: %v", err)
			}

			kind, err := Detect(localPath)
			if err != nil {
				t.Fatalf("Detect error: %v", err)
			}
			if kind != tt.kind {
				t.Fatalf("kind=%q want %q", kind, tt.kind)
			}
		})
	}

	kind, err := Detect(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, KindDir, kind)
}

func TestOpenSources(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "def", "world"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "def", "world", "road_look.sii"), []byte("dir"), 0o600))

	zipPath := filepath.Join(t.TempDir(), "mod.scs")
	f, err := os.Create(zipPath)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	w, err := zw.Create("def/world/road_look.sii")
	require.NoError(t, err)
	_, err = w.Write([]byte("zip"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	fs := New()
	for _, p := range []string{dir, zipPath} {
		src, err := Open(p)
		require.NoError(t, err)
		fs.Mount(src)
	}

	data, err := fs.ReadFile("def/world/road_look.sii")
	require.NoError(t, err)
	assert.Equal(t, "zip", string(data))

	ds, ok := fs.Sources()[0].(*DirSource)
	require.True(t, ok)
	st, err := ds.Stat("def/world/road_look.sii")
	require.NoError(t, err)
	assert.Equal(t, int64(3), st.Size())
	_, err = ds.Stat("def/missing.sii")
	assert.True(t, errors.Is(err, ErrNotFound))

	hashPath := filepath.Join(t.TempDir(), "base.scs")
	require.NoError(t, os.WriteFile(hashPath, []byte("SCS#...."), 0o600))
	_, err = Open(hashPath)
	assert.True(t, errors.Is(err, ErrUnsupported))

	for _, src := range fs.Sources() {
		if c, ok := src.(*ZipSource); ok {
			assert.NoError(t, c.Close())
		}
	}
}
