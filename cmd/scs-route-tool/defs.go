package main

import (
	"github.com/woozymasta/scs-route-tool/internal/defs"
	"github.com/woozymasta/scs-route-tool/internal/logger"
)

type defsCmd struct {
	Format string `short:"f" long:"format" choice:"yaml" choice:"json" default:"yaml" description:"Output format"`
	Full   bool   `long:"full" description:"Print the whole tables instead of counts"`

	Args struct {
		Output string `positional-arg-name:"OUT" description:"Output file (default: stdout)"`
	} `positional-args:"true"`
}

// Execute loads the definition tables and prints them or their counts.
func (c *defsCmd) Execute(_ []string) error {
	m, err := mountArchives(cfg)
	if err != nil {
		return err
	}
	defer m.Close()

	loader := defs.NewLoader(m.fs, logger.Log)
	tables := loader.LoadAll()
	if !c.Full {
		return writeOutput(tables.Stats(), c.Format, c.Args.Output)
	}

	return writeOutput(tables, c.Format, c.Args.Output)
}
