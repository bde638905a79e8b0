package server

import (
	"context"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"time"

	"webtail/internal/api"
	"webtail/internal/logging"
)

// timestampLayout renders the page header, e.g. "Mon, 02 Jan 2006 15:04:05 MST".
const timestampLayout = "Mon, 02 Jan 2006 15:04:05 MST"

var pageTemplate = template.Must(template.New("page").Parse(`<html>
<head><meta http-equiv="refresh" content="{{.Refresh}}"><title>webtail</title></head>
<body>
<b>{{.Timestamp}}{{if .File}} - {{.File}}{{end}}</b><br>
{{range $i, $line := .Lines}}{{if $i}}<br>{{end}}{{$line}}{{end}}
</body></html>
`))

type pageView struct {
	Refresh   string
	Timestamp string
	File      string
	Lines     []string
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	snap, _ := s.snapshot(r)

	now := s.now()
	view := pageView{
		Refresh:   refreshTarget(s.cfg.RefreshInterval(), now),
		Timestamp: now.Format(timestampLayout),
		Lines:     snap.Lines,
	}
	if s.cfg.Tail.ShowFilename && snap.Found {
		view.File = snap.File
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := pageTemplate.Execute(w, view); err != nil {
		logging.WithContext(r.Context(), s.log()).Error("render page failed", logging.Error(err))
	}
}

func (s *Server) handleAPITail(w http.ResponseWriter, r *http.Request) {
	snap, err := s.snapshot(r)
	s.writeJSON(w, http.StatusOK, api.FromSnapshot(snap, err))
}

// snapshot reads the current tail, decodes it for display and logs failures.
// The returned snapshot is always usable; err is informational.
func (s *Server) snapshot(r *http.Request) (api.TailSnapshot, error) {
	start := time.Now()
	logger := logging.WithContext(r.Context(), s.log())

	snap, err := s.tails.Snapshot(r.Context())
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			logger.Debug("request cancelled before read", logging.Error(err))
			return snap, err
		}
		logging.WarnWithContext(logger, "tail read failed", "tail_read_failed",
			logging.String(logging.FieldSource, snap.Source),
			logging.String(logging.FieldFile, snap.File),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check that the file is readable by the webtail user"),
		)
		return snap, err
	}

	snap.Lines = s.decodeLines(snap.Lines)
	logger.Debug("tail read",
		logging.String(logging.FieldFile, snap.File),
		logging.Bool("found", snap.Found),
		logging.Int("lines", len(snap.Lines)),
		logging.Duration("duration", time.Since(start)),
	)
	return snap, nil
}

// decodeLines converts raw file bytes to UTF-8 using the configured charset.
// Bytes that do not decode are replaced rather than failing the request.
func (s *Server) decodeLines(lines []string) []string {
	if len(lines) == 0 {
		return lines
	}
	decoder := s.charset.NewDecoder()
	out := make([]string, len(lines))
	for i, line := range lines {
		decoded, err := decoder.String(line)
		if err != nil {
			decoded = strings.ToValidUTF8(line, "\uFFFD")
		}
		out[i] = decoded
	}
	return out
}

// refreshTarget builds the meta refresh value. The URL embeds the current
// time so browsers and proxies never serve a cached copy.
func refreshTarget(interval time.Duration, now time.Time) string {
	stamp := strconv.FormatFloat(float64(now.UnixNano())/1e9, 'f', 6, 64)
	return strconv.Itoa(int(interval/time.Second)) + ";URL=/" + stamp
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log().Error("failed to encode response", logging.Error(err))
	}
}
