// Package snapshot caches a built map graph on disk: a zstd stream holding
// one JSON header line followed by a gob body.
package snapshot

import (
	"bufio"
	"encoding/gob"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/zstd"

	"github.com/woozymasta/scs-route-tool/internal/defs"
	"github.com/woozymasta/scs-route-tool/internal/mapgraph"
)

// Version is the snapshot format version.
const Version = 1

// ErrStale is returned when a snapshot does not match the current inputs.
var ErrStale = errors.New("snapshot: stale")

// Header describes a snapshot without decoding its body.
type Header struct {
	Version     int       `json:"version"`
	Fingerprint string    `json:"fingerprint"`
	Nodes       int       `json:"nodes"`
	Items       int       `json:"items"`
	Created     time.Time `json:"created"`
}

// Snapshot is the full cached state.
type Snapshot struct {
	Header Header
	Tables *defs.Tables
	Graph  mapgraph.State
}

// Write stores the tables and graph of reg under the input fingerprint.
func Write(path, fingerprint string, reg *mapgraph.Registry) (Header, error) {
	snap := Snapshot{
		Header: Header{
			Version:     Version,
			Fingerprint: fingerprint,
			Nodes:       reg.NodeCount(),
			Items:       reg.ItemCount(),
			Created:     time.Now().UTC().Truncate(time.Second),
		},
		Tables: reg.Defs,
		Graph:  reg.State(),
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return Header{}, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return Header{}, err
	}
	defer f.Close()

	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return Header{}, err
	}

	bw := bufio.NewWriterSize(enc, 256*1024)
	if err := writeBody(bw, &snap); err != nil {
		_ = enc.Close()
		return Header{}, err
	}
	if err := bw.Flush(); err != nil {
		_ = enc.Close()
		return Header{}, err
	}
	if err := enc.Close(); err != nil {
		return Header{}, fmt.Errorf("zstd close: %w", err)
	}

	return snap.Header, f.Close()
}

func writeBody(bw *bufio.Writer, snap *Snapshot) error {
	hb, err := json.Marshal(snap.Header)
	if err != nil {
		return err
	}
	if _, err := bw.Write(hb); err != nil {
		return err
	}
	if err := bw.WriteByte('\n'); err != nil {
		return err
	}

	if err := gob.NewEncoder(bw).Encode(snap); err != nil {
		return fmt.Errorf("gob encode: %w", err)
	}

	return nil
}

// ReadHeader decodes only the header line.
func ReadHeader(path string) (Header, error) {
	var h Header
	err := read(path, func(br *bufio.Reader) error {
		line, err := br.ReadBytes('\n')
		if err != nil {
			return fmt.Errorf("read header: %w", err)
		}
		if err := json.Unmarshal(line, &h); err != nil {
			return fmt.Errorf("decode header: %w", err)
		}
		return nil
	})

	return h, err
}

// Read decodes a whole snapshot.
func Read(path string) (Snapshot, error) {
	var snap Snapshot
	err := read(path, func(br *bufio.Reader) error {
		if _, err := br.ReadBytes('\n'); err != nil {
			return fmt.Errorf("read header: %w", err)
		}
		if err := gob.NewDecoder(br).Decode(&snap); err != nil {
			return fmt.Errorf("gob decode: %w", err)
		}
		return nil
	})

	return snap, err
}

func read(path string, fn func(br *bufio.Reader) error) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return err
	}
	defer dec.Close()

	return fn(bufio.NewReaderSize(dec, 256*1024))
}

// Load restores a linked registry from a snapshot written under the same
// fingerprint. A version or fingerprint mismatch gives ErrStale.
func Load(path, fingerprint string) (*mapgraph.Registry, Header, error) {
	h, err := ReadHeader(path)
	if err != nil {
		return nil, h, err
	}
	if h.Version != Version {
		return nil, h, fmt.Errorf("%w: version %d, want %d", ErrStale, h.Version, Version)
	}
	if h.Fingerprint != fingerprint {
		return nil, h, fmt.Errorf("%w: fingerprint %s, want %s", ErrStale, h.Fingerprint, fingerprint)
	}

	snap, err := Read(path)
	if err != nil {
		return nil, h, err
	}
	snap.Tables = withMaps(snap.Tables)

	reg, err := mapgraph.Restore(snap.Tables, snap.Graph)
	if err != nil {
		return nil, h, fmt.Errorf("restore graph: %w", err)
	}

	return reg, snap.Header, nil
}

// withMaps replaces tables maps that gob left nil for empty input.
func withMaps(t *defs.Tables) *defs.Tables {
	out := defs.NewTables()
	if t == nil {
		return out
	}

	if t.Cities != nil {
		out.Cities = t.Cities
	}
	if t.Countries != nil {
		out.Countries = t.Countries
	}
	if t.Prefabs != nil {
		out.Prefabs = t.Prefabs
	}
	if t.RoadLooks != nil {
		out.RoadLooks = t.RoadLooks
	}
	out.Ferries = t.Ferries

	return out
}
