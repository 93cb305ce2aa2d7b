// Command scs-route-tool extracts the road network of a truck simulator map
// and answers route queries over it.
package main

import (
	"os"

	"github.com/jessevdk/go-flags"

	"github.com/woozymasta/scs-route-tool/internal/config"
	"github.com/woozymasta/scs-route-tool/internal/logger"
	"github.com/woozymasta/scs-route-tool/internal/vars"
)

type globalOptions struct {
	Config   string `short:"c" long:"config" description:"Config file (yaml, json or toml)"`
	LogLevel string `long:"log-level" description:"Log level override (debug, info, warn, error)"`
	LogFile  string `long:"log-file" description:"Also write logs to this rotating file"`
}

type rootCmd struct {
	globalOptions

	Version versionCmd `command:"version" description:"Show version information"`
	Config  configCmd  `command:"config" description:"Print the effective config"`
	Defs    defsCmd    `command:"defs" description:"Load definitions from the game archives"`
	Build   buildCmd   `command:"build" description:"Build the navigation graph and cache it"`
	Route   routeCmd   `command:"route" description:"Find the shortest route between two prefabs"`
	Export  exportCmd  `command:"export" description:"Export the graph and definitions as JSON"`
}

var (
	root rootCmd
	cfg  *config.Config
)

func main() {
	parser := flags.NewParser(&root, flags.Default)
	parser.CommandHandler = func(cmd flags.Commander, args []string) error {
		if cmd == nil {
			return nil
		}
		if err := setup(); err != nil {
			return err
		}
		defer logger.Sync()

		return cmd.Execute(args)
	}

	if _, err := parser.Parse(); err != nil {
		if fe, ok := err.(*flags.Error); ok && fe.Type == flags.ErrHelp {
			return
		}
		os.Exit(1)
	}
}

// setup loads the config, applies the global overrides and starts logging.
func setup() error {
	c, path, err := config.Load(root.globalOptions.Config)
	if err != nil {
		return err
	}

	if root.LogLevel != "" {
		c.Logging.Level = root.LogLevel
	}
	if root.LogFile != "" {
		c.Logging.File = root.LogFile
	}
	if err := c.Validate(); err != nil {
		return err
	}

	if err := logger.Init(c.Logging.Level, c.Logging.File); err != nil {
		return err
	}
	if path != "" {
		logger.Sugar.Debugf("using config %s", path)
	}

	cfg = c

	return nil
}

type versionCmd struct{}

// Execute prints the version information.
func (c *versionCmd) Execute(_ []string) error {
	vars.Print()
	return nil
}
