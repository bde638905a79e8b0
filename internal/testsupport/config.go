package testsupport

import (
	"path/filepath"
	"testing"

	"webtail/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config whose source is a fresh temp directory. The
// server binds to loopback on an ephemeral port.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Source = filepath.Join(base, "logs")
	cfgVal.Server.Bind = "127.0.0.1"
	cfgVal.Server.Port = 0

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithSource overrides the source descriptor. Relative values are joined to
// the config's temp directory.
func WithSource(descriptor string) ConfigOption {
	return func(b *configBuilder) {
		if !filepath.IsAbs(descriptor) {
			descriptor = filepath.Join(b.baseDir, descriptor)
		}
		b.cfg.Source = descriptor
	}
}

// WithLines sets the number of lines shown.
func WithLines(lines int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Tail.Lines = lines
	}
}

// WithShowFilename toggles the filename echo on the page.
func WithShowFilename(show bool) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Tail.ShowFilename = show
	}
}

// WithMaxConcurrent limits in-flight page requests.
func WithMaxConcurrent(limit int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Server.MaxConcurrent = limit
	}
}

// BaseDir returns the temp directory that contains the default source.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Source)
}
