// Package logging assembles structured slog loggers and formatting helpers used
// across webtail.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes context helpers so request handlers can tag every
// line with the request ID. The package also provides a no-op logger for tests
// and wiring code that cannot fail.
package logging
