package main

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/woozymasta/scs-route-tool/internal/defs"
	"github.com/woozymasta/scs-route-tool/internal/export"
	"github.com/woozymasta/scs-route-tool/internal/logger"
)

type exportCmd struct {
	Dir     string `short:"o" long:"dir" description:"Output directory (overrides export.dir)"`
	Scope   string `long:"scope" choice:"all" choice:"graph" choice:"defs" description:"Export scope (overrides export.scope)"`
	Strict  bool   `long:"strict" description:"Fail when the graph has dangling references"`
	NoLocal bool   `long:"no-localization" description:"Skip localized city and country names"`
	Rebuild bool   `short:"r" long:"rebuild" description:"Ignore the snapshot and rebuild"`
}

// Execute writes the JSON export.
func (c *exportCmd) Execute(_ []string) error {
	dir := cfg.Export.Dir
	if c.Dir != "" {
		dir = c.Dir
	}
	scopeName := cfg.Export.Scope
	if c.Scope != "" {
		scopeName = c.Scope
	}
	scope, err := export.ParseScope(scopeName)
	if err != nil {
		return err
	}

	reg, _, err := loadGraph(cfg, c.Rebuild)
	if err != nil {
		return err
	}

	issues := export.Validate(reg)
	for _, issue := range issues {
		logger.Warn("graph issue", zap.Error(issue))
	}
	if c.Strict && len(issues) > 0 {
		return fmt.Errorf("%d graph issues, first: %w", len(issues), issues[0])
	}

	var loc export.Localizer
	if !c.NoLocal && scope.IncludesDefs() {
		m, err := mountArchives(cfg)
		if err != nil {
			return err
		}
		defer m.Close()
		loc = defs.NewLoader(m.fs, logger.Log).LoadLocalization()
	}

	files, err := export.New(reg, loc, logger.Log).Write(cleanAbs(dir), scope)
	if err != nil {
		return err
	}
	for _, f := range files {
		fmt.Println(f)
	}

	return nil
}
