package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"webtail/internal/api"
	"webtail/internal/config"
	"webtail/internal/logging"
	"webtail/internal/testsupport"
)

var fixedNow = time.Date(2026, 3, 4, 5, 6, 7, 250_000_000, time.UTC)

func newTestServer(t *testing.T, cfg *config.Config) *Server {
	t.Helper()
	srv, err := New(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	srv.now = func() time.Time { return fixedNow }
	return srv
}

func get(t *testing.T, srv *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	return w
}

func TestPageShowsLastLines(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithLines(3))
	testsupport.WriteLog(t, filepath.Join(cfg.Source, "app.log"), "a\nb\nc\nd\ne\n", time.Time{})
	srv := newTestServer(t, cfg)

	w := get(t, srv, "/")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "c<br>d<br>e") {
		t.Fatalf("expected joined tail in body, got %q", body)
	}
	if strings.Contains(body, "b<br>") {
		t.Fatalf("expected only last 3 lines, got %q", body)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("unexpected content type %q", ct)
	}
}

func TestPageRefreshAndTimestamp(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	srv := newTestServer(t, cfg)

	body := get(t, srv, "/1234.5").Body.String()
	if !strings.Contains(body, `content="10;URL=/`+"1772600767.250000"+`"`) {
		t.Fatalf("expected cache-busting refresh, got %q", body)
	}
	if !strings.Contains(body, fixedNow.Format(timestampLayout)) {
		t.Fatalf("expected timestamp header, got %q", body)
	}
}

func TestPageFilenameEcho(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithShowFilename(true))
	path := filepath.Join(cfg.Source, "app.log")
	testsupport.WriteLog(t, path, "hello\n", time.Time{})
	srv := newTestServer(t, cfg)

	body := get(t, srv, "/").Body.String()
	if !strings.Contains(body, " - "+path+"</b>") {
		t.Fatalf("expected filename echo, got %q", body)
	}

	cfg.Tail.ShowFilename = false
	body = get(t, newTestServer(t, cfg), "/").Body.String()
	if strings.Contains(body, path) {
		t.Fatalf("did not expect filename when disabled, got %q", body)
	}
}

func TestPageNoFileRendersEmptyTail(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithShowFilename(true), testsupport.WithSource("missing/*.log"))
	srv := newTestServer(t, cfg)

	w := get(t, srv, "/")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := w.Body.String()
	if strings.Contains(body, " - ") {
		t.Fatalf("did not expect filename echo without a file, got %q", body)
	}
	if !strings.Contains(body, "</b><br>\n\n</body>") {
		t.Fatalf("expected empty tail, got %q", body)
	}
}

func TestPageReadErrorStillRenders(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithShowFilename(true))
	path := filepath.Join(cfg.Source, "app.log")
	testsupport.WriteLog(t, path, "secret\n", time.Time{})
	srv := newTestServer(t, cfg)
	errDisk := errors.New("disk read failed")
	srv.tails = api.NewTailService(cfg, api.WithReader(func(string, int, int) ([]string, error) {
		return nil, errDisk
	}))

	w := get(t, srv, "/")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := w.Body.String()
	if strings.Contains(body, "secret") {
		t.Fatalf("did not expect content from unreadable file, got %q", body)
	}
	if !strings.Contains(body, "</b><br>\n\n</body>") {
		t.Fatalf("expected empty tail, got %q", body)
	}

	w = get(t, srv, "/api/tail")
	var resp api.TailResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Found || resp.File != path || len(resp.Lines) != 0 || !strings.Contains(resp.Error, "disk read failed") {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestPageRereadsFileEachRequest(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithLines(2))
	path := filepath.Join(cfg.Source, "app.log")
	testsupport.WriteLog(t, path, "one\ntwo\n", time.Time{})
	srv := newTestServer(t, cfg)

	if body := get(t, srv, "/").Body.String(); !strings.Contains(body, "one<br>two") {
		t.Fatalf("unexpected first page: %q", body)
	}
	testsupport.AppendLine(t, path, "three")
	if body := get(t, srv, "/").Body.String(); !strings.Contains(body, "two<br>three") {
		t.Fatalf("expected appended line on next request, got %q", body)
	}
}

func TestPageEscapesHTML(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.WriteLog(t, filepath.Join(cfg.Source, "app.log"), "<script>alert(1)</script>\n", time.Time{})
	srv := newTestServer(t, cfg)

	body := get(t, srv, "/").Body.String()
	if strings.Contains(body, "<script>") {
		t.Fatalf("expected escaped markup, got %q", body)
	}
	if !strings.Contains(body, "&lt;script&gt;") {
		t.Fatalf("expected escaped script tag, got %q", body)
	}
}

func TestPageDecodesCharset(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Tail.Charset = "iso-8859-1"
	testsupport.WriteLog(t, filepath.Join(cfg.Source, "app.log"), "caf\xe9\n", time.Time{})
	srv := newTestServer(t, cfg)

	if body := get(t, srv, "/").Body.String(); !strings.Contains(body, "café") {
		t.Fatalf("expected decoded line, got %q", body)
	}
}

func TestAPITail(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithLines(2))
	base := time.Now().Add(-time.Hour)
	testsupport.WriteLog(t, filepath.Join(cfg.Source, "old.log"), "x\ny\nz\n", base)
	newPath := filepath.Join(cfg.Source, "new.log")
	testsupport.WriteLog(t, newPath, "1\n2\n3\n", base.Add(time.Minute))
	srv := newTestServer(t, cfg)

	w := get(t, srv, "/api/tail")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp api.TailResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Found || resp.File != newPath {
		t.Fatalf("unexpected file: %+v", resp)
	}
	if strings.Join(resp.Lines, ",") != "2,3" {
		t.Fatalf("unexpected lines: %#v", resp.Lines)
	}
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t, testsupport.NewConfig(t))
	w := get(t, srv, "/healthz")
	if w.Code != http.StatusOK || strings.TrimSpace(w.Body.String()) != "ok" {
		t.Fatalf("unexpected health response: %d %q", w.Code, w.Body.String())
	}
}

func TestRequestIDHeader(t *testing.T) {
	srv := newTestServer(t, testsupport.NewConfig(t))

	w := get(t, srv, "/healthz")
	if w.Header().Get(requestIDHeader) == "" {
		t.Fatal("expected generated request id")
	}

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(requestIDHeader, "0b5d8c3e-6f5f-4c3a-9a0e-6d3f0f5b2a11")
	w = httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	if got := w.Header().Get(requestIDHeader); got != "0b5d8c3e-6f5f-4c3a-9a0e-6d3f0f5b2a11" {
		t.Fatalf("expected incoming id to be reused, got %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(requestIDHeader, "not-a-uuid\nforged")
	w = httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	if got := w.Header().Get(requestIDHeader); strings.Contains(got, "forged") {
		t.Fatalf("expected malformed id to be replaced, got %q", got)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	srv := newTestServer(t, testsupport.NewConfig(t))
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", w.Code)
	}
}

func TestPanicIsRecovered(t *testing.T) {
	srv := newTestServer(t, testsupport.NewConfig(t))
	srv.router.Get("/boom", func(http.ResponseWriter, *http.Request) { panic("boom") })

	if w := get(t, srv, "/boom"); w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	if w := get(t, srv, "/healthz"); w.Code != http.StatusOK {
		t.Fatalf("expected server to keep serving, got %d", w.Code)
	}
}

func TestConcurrencyLimitRejectsWhenCancelled(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithMaxConcurrent(1))
	srv := newTestServer(t, cfg)
	if !srv.limit.TryAcquire(1) {
		t.Fatal("expected to take the only slot")
	}
	defer srv.limit.Release(1)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	req := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(ctx)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}

	// Health checks bypass the limit.
	if w := get(t, srv, "/healthz"); w.Code != http.StatusOK {
		t.Fatalf("expected healthz to bypass limit, got %d", w.Code)
	}
}

func TestConcurrentRequests(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithLines(5), testsupport.WithMaxConcurrent(2))
	path := filepath.Join(cfg.Source, "app.log")
	var sb strings.Builder
	for i := range 200 {
		sb.WriteString("line ")
		sb.WriteString(strings.Repeat("x", i%7))
		sb.WriteString("\n")
	}
	testsupport.WriteLog(t, path, sb.String(), time.Time{})
	srv := newTestServer(t, cfg)

	var wg sync.WaitGroup
	errs := make(chan string, 16)
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req := httptest.NewRequest(http.MethodGet, "/api/tail", nil)
			w := httptest.NewRecorder()
			srv.Handler().ServeHTTP(w, req)
			var resp api.TailResponse
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil || len(resp.Lines) != 5 {
				errs <- w.Body.String()
			}
		}()
	}
	wg.Wait()
	close(errs)
	for body := range errs {
		t.Fatalf("unexpected concurrent response: %q", body)
	}
}

func TestStartServesAndStops(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.WriteLog(t, filepath.Join(cfg.Source, "app.log"), "ready\n", time.Time{})
	srv := newTestServer(t, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := srv.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}

	resp, err := http.Get("http://" + srv.Addr() + "/")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if !strings.Contains(string(body), "ready") {
		t.Fatalf("unexpected body: %q", body)
	}

	cancel()
	done := make(chan error, 1)
	go func() { done <- srv.Wait() }()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Wait returned error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop after cancellation")
	}
}

func TestLockFilePreventsSecondInstance(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Server.LockFile = filepath.Join(testsupport.BaseDir(cfg), "run", "webtail.lock")

	first := newTestServer(t, cfg)
	if err := first.Start(context.Background()); err != nil {
		t.Fatalf("first Start: %v", err)
	}
	defer first.Stop()

	second := newTestServer(t, cfg)
	err := second.Start(context.Background())
	if err == nil {
		second.Stop()
		t.Fatal("expected second instance to fail")
	}
	if !strings.Contains(err.Error(), "another webtail instance") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNewRejectsUnknownCharset(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Tail.Charset = "klingon"
	if _, err := New(cfg, logging.NewNop()); err == nil {
		t.Fatal("expected error for unknown charset")
	}
}

func TestRefreshTarget(t *testing.T) {
	got := refreshTarget(7*time.Second, time.Unix(1700000000, 500_000_000))
	if got != "7;URL=/1700000000.500000" {
		t.Fatalf("unexpected refresh target %q", got)
	}
}
