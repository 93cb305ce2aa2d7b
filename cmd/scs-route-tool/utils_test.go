package main

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestParseUID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    uint64
		wantErr bool
	}{
		{in: "42", want: 42},
		{in: " 0x2a ", want: 42},
		{in: "18446744073709551615", want: 18446744073709551615},
		{in: "-1", wantErr: true},
		{in: "abc", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			got, err := parseUID(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("parseUID(%q) expected error", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseUID(%q) error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Fatalf("parseUID(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseXZ(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		x, z    float64
		wantErr bool
	}{
		{in: "1.5,-2", x: 1.5, z: -2},
		{in: " 10 , 20 ", x: 10, z: 20},
		{in: "10", wantErr: true},
		{in: "a,1", wantErr: true},
		{in: "1,b", wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			x, z, err := parseXZ(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("parseXZ(%q) expected error", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseXZ(%q) error: %v", tt.in, err)
			}
			if x != tt.x || z != tt.z {
				t.Fatalf("parseXZ(%q) = %v,%v want %v,%v", tt.in, x, z, tt.x, tt.z)
			}
		})
	}
}

func TestResolvePaths(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	abs := filepath.Join(root, "mods", "extra.scs")

	got := resolvePaths(root, []string{"base.scs", " ", abs, "def/../def.scs"})
	want := []string{
		filepath.Join(root, "base.scs"),
		abs,
		filepath.Join(root, "def.scs"),
	}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("resolvePaths = %v, want %v", got, want)
	}

	got = resolvePaths("", []string{"base.scs"})
	if len(got) != 1 || got[0] != "base.scs" {
		t.Fatalf("resolvePaths without root = %v", got)
	}
}

func TestEncodeOutput(t *testing.T) {
	t.Parallel()

	v := map[string]int{"nodes": 2}

	out, err := encodeOutput(v, "json")
	if err != nil {
		t.Fatalf("encodeOutput json error: %v", err)
	}
	if !strings.Contains(string(out), `"nodes": 2`) {
		t.Fatalf("encodeOutput json = %s", out)
	}

	out, err = encodeOutput(v, "yaml")
	if err != nil {
		t.Fatalf("encodeOutput yaml error: %v", err)
	}
	if strings.TrimSpace(string(out)) != "nodes: 2" {
		t.Fatalf("encodeOutput yaml = %s", out)
	}

	if _, err := encodeOutput(v, "xml"); err == nil {
		t.Fatal("encodeOutput xml expected error")
	}
}

func TestPositionalUIDs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		first, second string
		fromXZ        string
		from, to      string
	}{
		{name: "both uids", first: "1", second: "2", from: "1", to: "2"},
		{name: "from coordinates", first: "2", fromXZ: "10,20", to: "2"},
		{name: "from coordinates with both", first: "1", second: "2", fromXZ: "10,20", from: "1", to: "2"},
		{name: "to coordinates", first: "1", from: "1"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			from, to := positionalUIDs(tt.first, tt.second, tt.fromXZ)
			if from != tt.from || to != tt.to {
				t.Fatalf("positionalUIDs(%q, %q, %q) = %q, %q want %q, %q",
					tt.first, tt.second, tt.fromXZ, from, to, tt.from, tt.to)
			}
		})
	}
}
