package main

import (
	"context"

	"go.uber.org/zap"

	"github.com/woozymasta/scs-route-tool/internal/export"
	"github.com/woozymasta/scs-route-tool/internal/logger"
	"github.com/woozymasta/scs-route-tool/internal/store"
)

type buildCmd struct {
	Format   string `short:"f" long:"format" choice:"yaml" choice:"json" default:"yaml" description:"Output format"`
	Rebuild  bool   `short:"r" long:"rebuild" description:"Ignore the snapshot and rebuild"`
	Database string `long:"db" description:"Also write the graph to this sqlite file (overrides cache.database)"`
}

type buildReport struct {
	buildStats
	Issues int               `json:"issues"`
	Store  *store.GraphStats `json:"store,omitempty"`
}

// Execute runs the pipeline, refreshes the caches and prints the statistics.
func (c *buildCmd) Execute(_ []string) error {
	reg, st, err := loadGraph(cfg, c.Rebuild)
	if err != nil {
		return err
	}

	report := buildReport{buildStats: st}
	for _, issue := range export.Validate(reg) {
		logger.Debug("graph issue", zap.Error(issue))
		report.Issues++
	}

	dbPath := cfg.Cache.Database
	if c.Database != "" {
		dbPath = c.Database
	}
	if dbPath != "" {
		db, err := store.Open(dbPath)
		if err != nil {
			return err
		}
		defer db.Close()

		gs, err := db.SaveGraph(context.Background(), reg)
		if err != nil {
			return err
		}
		logger.Info("stored navigation graph", zap.String("path", dbPath), zap.Int("nodes", gs.Nodes), zap.Int("edges", gs.Edges))
		report.Store = &gs
	}

	return writeOutput(report, c.Format, "")
}
