package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"webtail/internal/logging"
)

const requestIDHeader = "X-Request-Id"

// requestID tags each request with a UUID, reusing a well-formed incoming
// header so upstream proxies can correlate.
func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(requestIDHeader))
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(logging.WithRequestID(r.Context(), id)))
	})
}

func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		logging.WithContext(r.Context(), s.log()).Debug("request served",
			logging.String("method", r.Method),
			logging.String("path", r.URL.Path),
			logging.Int("status", ww.Status()),
			logging.Int("bytes", ww.BytesWritten()),
			logging.Duration("duration", time.Since(start)),
		)
	})
}

// limitConcurrency bounds in-flight requests when server.max_concurrent is
// set. A request whose context ends while waiting gets 503.
func (s *Server) limitConcurrency(next http.Handler) http.Handler {
	if s.limit == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := s.limit.Acquire(r.Context(), 1); err != nil {
			logging.WithContext(r.Context(), s.log()).Debug("request dropped waiting for slot", logging.Error(err))
			http.Error(w, "server busy", http.StatusServiceUnavailable)
			return
		}
		defer s.limit.Release(1)
		next.ServeHTTP(w, r)
	})
}
