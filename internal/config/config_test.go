package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, []string{"base.scs", "def.scs"}, cfg.Game.Archives)
	assert.Equal(t, "all", cfg.Export.Scope)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Empty(t, cfg.Cache.Database)
}

func TestLoadFormats(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
	}{
		{
			name: "route.yaml",
			content: `
game:
  root: /games/ets2
  archives: [base.scs, mods/promods.zip]
cache:
  database: cache/graph.db
route:
  tolerance: 12.5
logging:
  level: debug
`,
		},
		{
			name: "route.json",
			content: `{
  "game": {"root": "/games/ets2", "archives": ["base.scs", "mods/promods.zip"]},
  "cache": {"database": "cache/graph.db"},
  "route": {"tolerance": 12.5},
  "logging": {"level": "debug"}
}`,
		},
		{
			name: "route.toml",
			content: `
[game]
root = "/games/ets2"
archives = ["base.scs", "mods/promods.zip"]

[cache]
database = "cache/graph.db"

[route]
tolerance = 12.5

[logging]
level = "debug"
`,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(t.TempDir(), tt.name)
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o600))

			cfg, used, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, path, used)
			assert.Equal(t, "/games/ets2", cfg.Game.Root)
			assert.Equal(t, []string{"base.scs", "mods/promods.zip"}, cfg.Game.Archives)
			assert.Equal(t, "cache/graph.db", cfg.Cache.Database)
			assert.Equal(t, 12.5, cfg.Route.Tolerance)
			assert.Equal(t, "debug", cfg.Logging.Level)

			// untouched sections keep their defaults
			assert.Equal(t, "map", cfg.Map.DumpDir)
			assert.Equal(t, "cache/graph.snap.zst", cfg.Cache.Snapshot)
			assert.Equal(t, "all", cfg.Export.Scope)
		})
	}
}

func TestLoadErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	_, _, err := Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.ini")
	require.NoError(t, os.WriteFile(bad, []byte("[x]"), 0o600))
	_, _, err = Load(bad)
	assert.ErrorContains(t, err, "unknown config format")

	broken := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(broken, []byte("game: [unclosed"), 0o600))
	_, _, err = Load(broken)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"scope", func(c *Config) { c.Export.Scope = "roads" }},
		{"level", func(c *Config) { c.Logging.Level = "loud" }},
		{"tolerance", func(c *Config) { c.Route.Tolerance = 0 }},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatalf("Validate() expected error for bad %s", tt.name)
			}
		})
	}
}

func TestSaveTo(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", FileName)
	cfg := Default()
	cfg.Game.Root = "/games/ats"
	cfg.Route.Store = true
	require.NoError(t, cfg.SaveTo(path))

	back, _, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, back)

	_, err = cfg.Encode("xml")
	assert.Error(t, err)
}
