// Package preflight provides readiness checks for the log source and the
// filesystem paths webtail writes to.
//
// These checks run in two contexts:
//   - The server runs RunAll once at startup and logs failures as warnings.
//     A source that does not resolve yet is not fatal, since the file may
//     appear later.
//   - The CLI "webtail check" command prints every result as a table.
package preflight
