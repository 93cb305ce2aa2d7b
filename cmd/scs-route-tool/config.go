package main

type configCmd struct {
	Format string `short:"f" long:"format" choice:"yaml" choice:"json" default:"yaml" description:"Output format"`
	Save   string `long:"save" value-name:"PATH" description:"Write the effective config to PATH as YAML"`
}

// Execute prints the effective config or saves it.
func (c *configCmd) Execute(_ []string) error {
	if c.Save != "" {
		return cfg.SaveTo(c.Save)
	}

	return writeOutput(cfg, c.Format, "")
}
