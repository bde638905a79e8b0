package preflight

import (
	"path/filepath"

	"webtail/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config.
// Optional paths are only checked when configured.
func RunAll(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{CheckSource("Log source", cfg.Source)}

	if cfg.Server.LockFile != "" {
		results = append(results, CheckDirectoryAccess("Lock file directory", filepath.Dir(cfg.Server.LockFile)))
	}
	if cfg.Logging.File != "" {
		results = append(results, CheckDirectoryAccess("Log file directory", filepath.Dir(cfg.Logging.File)))
	}

	return results
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}
