package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/woozymasta/scs-route-tool/internal/archive"
	"github.com/woozymasta/scs-route-tool/internal/config"
	"github.com/woozymasta/scs-route-tool/internal/defs"
	"github.com/woozymasta/scs-route-tool/internal/logger"
	"github.com/woozymasta/scs-route-tool/internal/mapgraph"
	"github.com/woozymasta/scs-route-tool/internal/navgraph"
	"github.com/woozymasta/scs-route-tool/internal/snapshot"
	"github.com/woozymasta/scs-route-tool/internal/token"
)

// mounted is the archive file system with the sources that need closing.
type mounted struct {
	fs      *archive.FS
	paths   []string
	closers []io.Closer
}

func (m *mounted) Close() {
	for _, c := range m.closers {
		_ = c.Close()
	}
}

// mountArchives opens the configured archives in priority order. Archives
// that cannot be mounted are logged and skipped.
func mountArchives(c *config.Config) (*mounted, error) {
	m := &mounted{fs: archive.New()}
	for _, p := range resolvePaths(c.Game.Root, c.Game.Archives) {
		src, err := archive.Open(p)
		if err != nil {
			logger.Warn("skipping archive", zap.String("path", p), zap.Error(err))
			continue
		}

		m.fs.Mount(src)
		m.paths = append(m.paths, p)
		if cl, ok := src.(io.Closer); ok {
			m.closers = append(m.closers, cl)
		}
		logger.Debug("mounted archive", zap.String("path", p), zap.Int("files", len(src.Files())))
	}

	if len(m.paths) == 0 {
		return nil, errors.New("no game archive could be mounted, check game.root and game.archives")
	}

	return m, nil
}

// fingerprint keys the inputs of a build. Archive files contribute their
// path, size and modification time; directory sources contribute the same
// for every file they serve. Map dump files contribute their content.
func fingerprint(m *mounted, dumpDir string) (string, error) {
	fp := token.NewFingerprint()
	for i, src := range m.fs.Sources() {
		dir, ok := src.(*archive.DirSource)
		if !ok {
			st, err := os.Stat(m.paths[i])
			if err != nil {
				return "", err
			}
			stamp(fp, m.paths[i], st)
			continue
		}

		fp.AddString(dir.Name())
		for _, name := range dir.Files() {
			st, err := dir.Stat(name)
			if err != nil {
				return "", err
			}
			stamp(fp, name, st)
		}
	}

	for _, p := range mapgraph.DumpFiles(dumpDir) {
		data, err := os.ReadFile(p)
		if err != nil {
			return "", err
		}
		fp.Add(p, data)
	}

	return fp.Sum(), nil
}

func stamp(fp *token.Fingerprint, name string, st os.FileInfo) {
	fp.AddString(name)
	fp.AddString(strconv.FormatInt(st.Size(), 10))
	fp.AddString(st.ModTime().UTC().Format(time.RFC3339Nano))
}

// buildStats summarizes a pipeline run.
type buildStats struct {
	Fingerprint string             `json:"fingerprint"`
	FromCache   bool               `json:"from_cache"`
	Defs        defs.Stats         `json:"definitions"`
	Dump        mapgraph.DumpStats `json:"dump"`
	Pruned      int                `json:"pruned_ferry_connections"`
	Navigation  navgraph.Stats     `json:"navigation"`
	Took        string             `json:"took"`
}

// loadGraph returns the built graph, from the snapshot when it matches the
// current inputs and rebuild is false, otherwise by running the pipeline
// and refreshing the snapshot.
func loadGraph(c *config.Config, rebuild bool) (*mapgraph.Registry, buildStats, error) {
	start := time.Now()

	m, err := mountArchives(c)
	if err != nil {
		return nil, buildStats{}, err
	}
	defer m.Close()

	dumpDir := cleanAbs(c.Map.DumpDir)
	fp, err := fingerprint(m, dumpDir)
	if err != nil {
		return nil, buildStats{}, fmt.Errorf("fingerprint inputs: %w", err)
	}
	st := buildStats{Fingerprint: fp}

	if c.Cache.Snapshot != "" && !rebuild {
		reg, h, err := snapshot.Load(c.Cache.Snapshot, fp)
		switch {
		case err == nil:
			logger.Info("loaded graph snapshot",
				zap.String("path", c.Cache.Snapshot),
				zap.Int("nodes", h.Nodes),
				zap.Int("items", h.Items),
			)
			st.FromCache = true
			st.Defs = reg.Defs.Stats()
			st.Took = time.Since(start).String()
			return reg, st, nil
		case errors.Is(err, snapshot.ErrStale), errors.Is(err, fs.ErrNotExist):
			logger.Info("rebuilding graph", zap.String("reason", err.Error()))
		default:
			logger.Warn("unreadable graph snapshot, rebuilding", zap.Error(err))
		}
	}

	tables := defs.NewLoader(m.fs, logger.Log).LoadAll()
	st.Defs = tables.Stats()

	reg := mapgraph.NewRegistry(tables)
	st.Dump, err = mapgraph.LoadDump(dumpDir, reg, logger.Log)
	if err != nil {
		return nil, st, err
	}

	reg.Link()
	st.Pruned = reg.ApplyFerryPortLocations(logger.Log)
	st.Navigation = navgraph.New(reg, logger.Log).Build()
	reg.ReindexNavigation()

	if c.Cache.Snapshot != "" {
		if _, err := snapshot.Write(c.Cache.Snapshot, fp, reg); err != nil {
			logger.Warn("could not write graph snapshot", zap.String("path", c.Cache.Snapshot), zap.Error(err))
		} else {
			logger.Info("wrote graph snapshot", zap.String("path", c.Cache.Snapshot))
		}
	}

	st.Took = time.Since(start).String()

	return reg, st, nil
}
