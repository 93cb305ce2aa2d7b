package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/invopop/yaml"
)

// Encode renders the config as yaml or json.
func (c *Config) Encode(format string) ([]byte, error) {
	switch format {
	case "yaml", "":
		return yaml.Marshal(c)
	case "json":
		return json.MarshalIndent(c, "", "  ")
	default:
		return nil, fmt.Errorf("unknown format: %s", format)
	}
}

// SaveTo writes the config as YAML to a specific path.
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	data, err := c.Encode("yaml")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o600)
}
