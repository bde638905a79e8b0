package main

import (
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"webtail/internal/config"
)

type commandContext struct {
	configFlag string
	lines      int
	logLevel   string
	logFormat  string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext() *commandContext {
	return &commandContext{}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, _, _, err := config.Load(strings.TrimSpace(c.configFlag))
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// resolve returns the loaded configuration with the positional source and any
// explicitly set flags applied, validated again after the overrides.
func (c *commandContext) resolve(cmd *cobra.Command, args []string) (*config.Config, error) {
	base, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	cfg := *base

	if len(args) > 0 {
		cfg.Source = strings.TrimSpace(args[0])
	}
	if flagChanged(cmd, "lines") {
		cfg.Tail.Lines = c.lines
	}
	if flagChanged(cmd, "log-level") {
		cfg.Logging.Level = strings.ToLower(strings.TrimSpace(c.logLevel))
	}
	if flagChanged(cmd, "log-format") {
		cfg.Logging.Format = strings.ToLower(strings.TrimSpace(c.logFormat))
	}

	if err := cfg.Validate(); err != nil {
		return nil, &usageError{err: err}
	}
	return &cfg, nil
}

// requireSource resolves the config and fails with a usage error when no
// source was given on the command line, in the file, or in WEBTAIL_SOURCE.
func (c *commandContext) requireSource(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg, err := c.resolve(cmd, args)
	if err != nil {
		return nil, err
	}
	if cfg.Source == "" {
		return nil, usageErrorf("a log source (file, directory, or glob pattern) is required")
	}
	return cfg, nil
}

func flagChanged(cmd *cobra.Command, name string) bool {
	flag := cmd.Flags().Lookup(name)
	return flag != nil && flag.Changed
}
