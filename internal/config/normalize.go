package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizeSource(); err != nil {
		return err
	}
	if err := c.normalizeServer(); err != nil {
		return err
	}
	c.normalizeTail()
	return c.normalizeLogging()
}

func (c *Config) normalizeSource() error {
	c.Source = strings.TrimSpace(c.Source)
	if c.Source == "" {
		if value, ok := os.LookupEnv("WEBTAIL_SOURCE"); ok {
			c.Source = strings.TrimSpace(value)
		}
	}
	return nil
}

func (c *Config) normalizeServer() error {
	c.Server.Bind = strings.TrimSpace(c.Server.Bind)
	if c.Server.Bind == "" {
		c.Server.Bind = defaultBind
	}
	if c.Server.Port == 0 {
		if value, ok := os.LookupEnv("WEBTAIL_PORT"); ok && strings.TrimSpace(value) != "" {
			port, err := strconv.Atoi(strings.TrimSpace(value))
			if err != nil {
				return fmt.Errorf("WEBTAIL_PORT: invalid port %q", value)
			}
			c.Server.Port = port
		}
	}
	if c.Server.ShutdownTimeout <= 0 {
		c.Server.ShutdownTimeout = defaultShutdownTimeout
	}
	var err error
	if c.Server.LockFile, err = expandPath(strings.TrimSpace(c.Server.LockFile)); err != nil {
		return fmt.Errorf("server.lock_file: %w", err)
	}
	return nil
}

func (c *Config) normalizeTail() {
	if c.Tail.BlockSize == 0 {
		c.Tail.BlockSize = defaultBlockSize
	}
	if c.Tail.RefreshSeconds == 0 {
		c.Tail.RefreshSeconds = defaultRefreshSeconds
	}
	c.Tail.Charset = strings.ToLower(strings.TrimSpace(c.Tail.Charset))
	if c.Tail.Charset == "" {
		c.Tail.Charset = defaultCharset
	}
}

func (c *Config) normalizeLogging() error {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	var err error
	if c.Logging.File, err = expandPath(strings.TrimSpace(c.Logging.File)); err != nil {
		return fmt.Errorf("logging.file: %w", err)
	}
	return nil
}
