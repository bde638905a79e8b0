package preflight

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"webtail/internal/config"
)

func TestCheckSource_Readable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.log")
	if err := os.WriteFile(path, []byte("x\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckSource("source", dir)
	if !result.Passed {
		t.Fatalf("expected pass, got: %s", result.Detail)
	}
	if !strings.Contains(result.Detail, path) {
		t.Fatalf("expected resolved path in detail, got %q", result.Detail)
	}
}

func TestCheckSource_NoMatch(t *testing.T) {
	result := CheckSource("source", filepath.Join(t.TempDir(), "*.log"))
	if result.Passed {
		t.Fatal("expected failure for unmatched glob")
	}
	if !strings.Contains(result.Detail, "no matching file") {
		t.Fatalf("unexpected detail: %q", result.Detail)
	}
}

func TestCheckSource_Empty(t *testing.T) {
	if result := CheckSource("source", " "); result.Passed {
		t.Fatal("expected failure for empty source")
	}
}

func TestCheckSource_Unreadable(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}
	path := filepath.Join(t.TempDir(), "secret.log")
	if err := os.WriteFile(path, []byte("x\n"), 0o000); err != nil {
		t.Fatal(err)
	}
	if result := CheckSource("source", path); result.Passed {
		t.Fatal("expected failure for unreadable file")
	}
}

func TestCheckDirectoryAccess_OK(t *testing.T) {
	result := CheckDirectoryAccess("test", t.TempDir())
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if !result.Passed {
		t.Fatalf("expected missing directory to pass, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if result := CheckDirectoryAccess("test", f); result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestRunAll(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Source = filepath.Join(dir, "*.log")
	cfg.Server.LockFile = filepath.Join(dir, "webtail.lock")
	cfg.Logging.File = filepath.Join(dir, "logs", "webtail.log")

	results := RunAll(&cfg)
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	failed := Failed(results)
	if len(failed) != 1 || failed[0].Name != "Log source" {
		t.Fatalf("expected only the source check to fail, got %+v", failed)
	}
	if RunAll(nil) != nil {
		t.Fatal("expected nil results for nil config")
	}
}
