package testsupport

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// WriteLog writes content to path, creating parent directories, and stamps
// the file with modTime so latest-file selection is deterministic. A zero
// modTime leaves the timestamp untouched.
func WriteLog(t testing.TB, path, content string, modTime time.Time) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	if modTime.IsZero() {
		return
	}
	if err := os.Chtimes(path, modTime, modTime); err != nil {
		t.Fatalf("chtimes %s: %v", path, err)
	}
}

// AppendLine appends line and a trailing newline to path.
func AppendLine(t testing.TB, path, line string) {
	t.Helper()

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()
	if _, err := f.WriteString(line + "\n"); err != nil {
		t.Fatalf("append %s: %v", path, err)
	}
}
