// Package config holds the tool settings: game data locations, caches,
// export and logging.
package config

import (
	"fmt"

	"github.com/woozymasta/scs-route-tool/internal/export"
	"github.com/woozymasta/scs-route-tool/internal/logger"
)

// Config holds all settings.
type Config struct {
	Game    GameConfig    `json:"game" toml:"game"`
	Map     MapConfig     `json:"map" toml:"map"`
	Cache   CacheConfig   `json:"cache" toml:"cache"`
	Route   RouteConfig   `json:"route" toml:"route"`
	Export  ExportConfig  `json:"export" toml:"export"`
	Logging LoggingConfig `json:"logging" toml:"logging"`
}

// GameConfig locates the game data.
type GameConfig struct {
	Root     string   `json:"root" toml:"root"`         // game install directory
	Archives []string `json:"archives" toml:"archives"` // archives or directories, base first, mods last
}

// MapConfig locates the map dump.
type MapConfig struct {
	DumpDir string `json:"dump_dir" toml:"dump_dir"`
}

// CacheConfig controls the snapshot and the sqlite store.
type CacheConfig struct {
	Snapshot string `json:"snapshot" toml:"snapshot"` // snapshot file, empty disables it
	Database string `json:"database" toml:"database"` // sqlite file, empty disables it
}

// RouteConfig holds route query settings.
type RouteConfig struct {
	Tolerance float64 `json:"tolerance" toml:"tolerance"` // nearest prefab search box for coordinates
	Store     bool    `json:"store" toml:"store"`         // save computed routes in the database
}

// ExportConfig controls JSON export.
type ExportConfig struct {
	Dir   string `json:"dir" toml:"dir"`
	Scope string `json:"scope" toml:"scope"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `json:"level" toml:"level"`
	File  string `json:"file" toml:"file"`
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Game: GameConfig{
			Archives: []string{"base.scs", "def.scs"},
		},
		Map: MapConfig{
			DumpDir: "map",
		},
		Cache: CacheConfig{
			Snapshot: "cache/graph.snap.zst",
			Database: "",
		},
		Route: RouteConfig{
			Tolerance: 50,
		},
		Export: ExportConfig{
			Dir:   "export",
			Scope: string(export.ScopeAll),
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate checks values that would only fail later in a command.
func (c *Config) Validate() error {
	if _, err := export.ParseScope(c.Export.Scope); err != nil {
		return fmt.Errorf("export.scope: %w", err)
	}
	if _, err := logger.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	if c.Route.Tolerance <= 0 {
		return fmt.Errorf("route.tolerance must be positive, got %g", c.Route.Tolerance)
	}

	return nil
}
