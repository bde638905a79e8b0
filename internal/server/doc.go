// Package server exposes the tail of the configured log source over HTTP.
//
// Every GET path other than the API routes renders a small HTML page that
// refreshes itself through a cache-busting URL. Each request resolves the
// source again, so a rotated or newly created file is picked up without a
// restart. Nothing is cached between requests.
//
// Routes:
//
//	GET /healthz    liveness probe, always "ok"
//	GET /api/tail   JSON snapshot (api.TailResponse)
//	GET /*          auto-refreshing HTML page
//
// Read failures are logged and the page is still served with an empty tail.
// Panics inside a handler are recovered by the router so one bad request never
// stops the listener. When server.max_concurrent is set, page and API requests
// wait for a slot and receive 503 if the client gives up first.
package server
