// Package remote fetches tail snapshots from a running webtail server.
//
// It backs `webtail tail --remote`, letting an operator read the same lines a
// browser would see without access to the server's filesystem.
package remote
