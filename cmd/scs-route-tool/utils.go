package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/invopop/yaml"
)

// encodeOutput encodes v as yaml or json.
func encodeOutput(v any, format string) ([]byte, error) {
	switch format {
	case "yaml", "":
		return yaml.Marshal(v)
	case "json":
		out, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(out, '\n'), nil
	default:
		return nil, fmt.Errorf("unknown format: %s", format)
	}
}

// writeOutput writes v to path, or to stdout when path is empty.
func writeOutput(v any, format, path string) error {
	out, err := encodeOutput(v, strings.ToLower(format))
	if err != nil {
		return err
	}

	if path == "" {
		_, err = os.Stdout.Write(out)
		return err
	}

	return os.WriteFile(path, out, 0o600)
}

// resolvePaths resolves the paths relative to the game root.
func resolvePaths(gameRoot string, paths []string) []string {
	var out []string
	root := cleanAbs(gameRoot)
	for _, p := range paths {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}

		if filepath.IsAbs(p) {
			out = append(out, cleanAbs(p))
			continue
		}

		if root != "" {
			out = append(out, cleanAbs(filepath.Join(root, p)))
			continue
		}

		out = append(out, cleanAbs(p))
	}

	return out
}

// cleanAbs cleans a path, keeping Windows drive roots intact.
func cleanAbs(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return ""
	}

	// "P:" -> "P:\\"
	if len(p) == 2 && p[1] == ':' &&
		((p[0] >= 'A' && p[0] <= 'Z') || (p[0] >= 'a' && p[0] <= 'z')) {
		return strings.ToUpper(p[:1]) + `:\`
	}

	// Keep "P:\\" and "P:/" as drive root
	if len(p) == 3 && p[1] == ':' && (p[2] == '\\' || p[2] == '/') {
		return strings.ToUpper(p[:1]) + `:\`
	}

	return filepath.Clean(p)
}

// parseUID reads a uid in decimal or 0x hex.
func parseUID(s string) (uint64, error) {
	uid, err := strconv.ParseUint(strings.TrimSpace(s), 0, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid uid %q: %w", s, err)
	}

	return uid, nil
}

// parseXZ reads an "x,z" coordinate pair.
func parseXZ(s string) (float64, float64, error) {
	xs, zs, ok := strings.Cut(s, ",")
	if !ok {
		return 0, 0, fmt.Errorf("invalid coordinates %q, want x,z", s)
	}

	x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid x in %q: %w", s, err)
	}
	z, err := strconv.ParseFloat(strings.TrimSpace(zs), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid z in %q: %w", s, err)
	}

	return x, z, nil
}
