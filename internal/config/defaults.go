package config

const (
	defaultBind            = "0.0.0.0"
	defaultShutdownTimeout = 5
	defaultLines           = 10
	defaultBlockSize       = 512
	defaultRefreshSeconds  = 10
	defaultCharset         = "utf-8"
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
	defaultConfigPath      = "~/.config/webtail/config.toml"
	projectConfigName      = "webtail.toml"
)

// Default returns a Config populated with repository defaults. The port and
// source have no default and must be supplied.
func Default() Config {
	return Config{
		Server: Server{
			Bind:            defaultBind,
			ShutdownTimeout: defaultShutdownTimeout,
		},
		Tail: Tail{
			Lines:          defaultLines,
			BlockSize:      defaultBlockSize,
			RefreshSeconds: defaultRefreshSeconds,
			Charset:        defaultCharset,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
