package main

import (
	"strings"
	"sync"

	"github.com/ZanzyTHEbar/tidyfs/tfs/config"
	"github.com/ZanzyTHEbar/tidyfs/tfs/filesystem"

	"github.com/spf13/cobra"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	fsOnce sync.Once
	fs     *filesystem.FileSystem
	fsErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

// ensureConfig loads the configuration once and installs process logging.
func (c *commandContext) ensureConfig(cmd *cobra.Command) (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, err := config.LoadConfig(path)
		if err != nil {
			c.configErr = err
			return
		}
		setupLogging(cfg.Logging, cmd.ErrOrStderr())
		c.config = cfg
	})
	return c.config, c.configErr
}

// fileSystem builds the renaming facade once. Catalog load failures surface
// here, before any file is touched.
func (c *commandContext) fileSystem(cmd *cobra.Command) (*filesystem.FileSystem, error) {
	cfg, err := c.ensureConfig(cmd)
	if err != nil {
		return nil, err
	}
	c.fsOnce.Do(func() {
		c.fs, c.fsErr = filesystem.New(newTerminal(cmd.ErrOrStderr()), cfg)
	})
	return c.fs, c.fsErr
}
