// Package main hosts the webtail CLI entrypoint and command graph.
//
// Invoked with a source and a listener port, webtail serves the last lines of
// the newest matching log file over HTTP. The subcommands reuse the same
// resolution and tail code paths for terminal use: printing a tail once,
// showing which file would be served, and running the startup checks.
//
// Keep this package lean: behavior belongs in the internal packages and is
// only surfaced here through flags and output formatting.
package main
