package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/invopop/yaml"
)

// FileName is the config file looked up when no path is given.
const FileName = "scs-route-tool.yaml"

// Load loads configuration with priority defaults < file. An empty path
// searches the standard locations; finding nothing keeps the defaults.
func Load(path string) (*Config, string, error) {
	cfg := Default()

	if path == "" {
		path = findConfigFile()
	}
	if path == "" {
		return cfg, "", nil
	}

	if err := loadFromFile(cfg, path); err != nil {
		return nil, path, fmt.Errorf("loading config from %s: %w", path, err)
	}

	return cfg, path, nil
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	candidates := []string{
		FileName,
		filepath.Join(ConfigDir(), FileName),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "scs-route-tool")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "scs-route-tool")
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "scs-route-tool")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "scs-route-tool")
	}
}

// loadFromFile merges a YAML, JSON or TOML file into cfg.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		_, err = toml.Decode(string(data), cfg)
	case ".yaml", ".yml", ".json", "":
		err = yaml.Unmarshal(data, cfg)
	default:
		return fmt.Errorf("unknown config format %q", filepath.Ext(path))
	}

	return err
}
