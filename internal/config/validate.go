package config

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/encoding/htmlindex"
)

// Validate ensures the configuration is usable. The port and source are
// checked separately by ValidateServe because only the server needs them.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateTail(); err != nil {
		return err
	}
	return c.validateLogging()
}

// ValidateServe checks the settings that are mandatory for serving.
func (c *Config) ValidateServe() error {
	if c.Server.Port == 0 {
		return errors.New("server.port is required (use --listener-port or set WEBTAIL_PORT)")
	}
	if strings.TrimSpace(c.Source) == "" {
		return errors.New("a log source (file, directory, or glob pattern) is required")
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.MaxConcurrent < 0 {
		return errors.New("server.max_concurrent must be zero (unlimited) or positive")
	}
	return nil
}

func (c *Config) validateTail() error {
	if c.Tail.Lines < 1 {
		return fmt.Errorf("tail.lines must be positive, got %d", c.Tail.Lines)
	}
	if c.Tail.BlockSize < 1 {
		return fmt.Errorf("tail.block_size must be positive, got %d", c.Tail.BlockSize)
	}
	if c.Tail.RefreshSeconds < 1 {
		return fmt.Errorf("tail.refresh_seconds must be positive, got %d", c.Tail.RefreshSeconds)
	}
	if _, err := htmlindex.Get(c.Tail.Charset); err != nil {
		return fmt.Errorf("tail.charset: unsupported value %q", c.Tail.Charset)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	return nil
}
