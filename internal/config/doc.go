// Package config loads, normalizes, and validates webtail configuration.
//
// Values come from repository defaults, an optional TOML file, environment
// fallbacks (WEBTAIL_PORT, WEBTAIL_SOURCE) and finally command-line flags
// applied by the CLI. The resulting Config is treated as immutable once the
// server starts: handlers receive it by pointer but never write to it.
package config
