// Package api defines the tail snapshot service and the wire-format types the
// HTTP server and CLI share.
//
// # Key Types
//
// TailService: resolves the configured source and reads its last lines,
// producing a TailSnapshot. It holds only immutable settings, so one value is
// safely shared by every request goroutine.
//
// TailResponse: JSON representation of a snapshot for /api/tail.
//
// # Design Notes
//
// A source that matches nothing, or a file that disappears between resolution
// and open, is a normal "not found" snapshot rather than an error. Only I/O
// failures on a file that was opened are returned as errors.
//
// DTOs use camelCase JSON tags. Timestamps use RFC3339 with milliseconds.
package api
