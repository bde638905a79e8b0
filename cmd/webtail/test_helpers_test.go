package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type cliResult struct {
	stdout string
	stderr string
	code   int
}

// isolateCLI points HOME and the working directory at temp dirs and clears
// WEBTAIL_* so no ambient configuration leaks into a test.
func isolateCLI(t *testing.T) string {
	t.Helper()
	base := t.TempDir()
	home := filepath.Join(base, "home")
	if err := os.MkdirAll(home, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", home)
	t.Setenv("WEBTAIL_SOURCE", "")
	t.Setenv("WEBTAIL_PORT", "")
	t.Chdir(base)
	return base
}

func runCLI(t *testing.T, args ...string) cliResult {
	t.Helper()
	return runCLIContext(t, context.Background(), args...)
}

func runCLIContext(t *testing.T, ctx context.Context, args ...string) cliResult {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(ctx, args, &stdout, &stderr)
	return cliResult{stdout: stdout.String(), stderr: stderr.String(), code: code}
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func requireCode(t *testing.T, res cliResult, want int) {
	t.Helper()
	if res.code != want {
		t.Fatalf("expected exit %d, got %d\nstdout: %s\nstderr: %s", want, res.code, res.stdout, res.stderr)
	}
}
