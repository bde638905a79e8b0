package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gofrs/flock"
	"golang.org/x/sync/semaphore"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"

	"webtail/internal/api"
	"webtail/internal/config"
	"webtail/internal/logging"
)

// Server serves the tail page for one configured source.
type Server struct {
	cfg     *config.Config
	logger  *slog.Logger
	tails   *api.TailService
	charset encoding.Encoding
	limit   *semaphore.Weighted
	lock    *flock.Flock
	now     func() time.Time

	router   chi.Router
	server   *http.Server
	listener net.Listener

	done     chan struct{}
	serveErr error
	stopOnce sync.Once
}

// New builds a server from a validated configuration.
func New(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("server requires a config")
	}
	charset, err := htmlindex.Get(cfg.Tail.Charset)
	if err != nil {
		return nil, fmt.Errorf("tail.charset %q: %w", cfg.Tail.Charset, err)
	}

	s := &Server{
		cfg:     cfg,
		logger:  logging.NewComponentLogger(logger, "server"),
		tails:   api.NewTailService(cfg),
		charset: charset,
		now:     time.Now,
		done:    make(chan struct{}),
	}
	if cfg.Server.MaxConcurrent > 0 {
		s.limit = semaphore.NewWeighted(int64(cfg.Server.MaxConcurrent))
	}
	if cfg.Server.LockFile != "" {
		s.lock = flock.New(cfg.Server.LockFile)
	}

	s.router = s.routes()
	s.server = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(s.requestID)
	r.Use(s.accessLog)
	r.Use(middleware.Recoverer)
	r.Use(middleware.GetHead)

	r.Get("/healthz", s.handleHealth)
	r.Group(func(r chi.Router) {
		r.Use(s.limitConcurrency)
		r.Get("/api/tail", s.handleAPITail)
		r.Get("/*", s.handlePage)
	})
	return r
}

// Handler returns the routed handler without starting a listener.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start acquires the instance lock, binds the listener and serves in the
// background. The server shuts down gracefully when ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	if err := s.acquireLock(); err != nil {
		return err
	}

	listener, err := net.Listen("tcp", s.cfg.ListenAddress())
	if err != nil {
		s.releaseLock()
		return fmt.Errorf("listen on %s: %w", s.cfg.ListenAddress(), err)
	}
	s.listener = listener

	go func() {
		defer close(s.done)
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log().Error("http server error", logging.Error(err))
			s.serveErr = fmt.Errorf("serve: %w", err)
		}
	}()

	go func() {
		select {
		case <-ctx.Done():
			s.Stop()
		case <-s.done:
		}
	}()

	s.log().Info("webtail listening",
		logging.String("address", listener.Addr().String()),
		logging.String(logging.FieldSource, s.cfg.Source),
		logging.Int("lines", s.cfg.Tail.Lines),
	)
	return nil
}

// Addr returns the bound listener address, or "" before Start.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Wait blocks until the listener stops and returns the serve error, if any.
func (s *Server) Wait() error {
	<-s.done
	return s.serveErr
}

// Stop shuts the server down, giving in-flight requests up to
// server.shutdown_timeout to finish, then releases the instance lock.
func (s *Server) Stop() {
	s.stopOnce.Do(func() {
		timeout := s.cfg.ShutdownTimeout()
		if timeout <= 0 {
			timeout = 5 * time.Second
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := s.server.Shutdown(shutdownCtx); err != nil {
			s.log().Warn("graceful shutdown incomplete", logging.Error(err))
			_ = s.server.Close()
		}
		if s.listener != nil {
			_ = s.listener.Close()
		}
		s.releaseLock()
		s.log().Info("webtail stopped")
	})
}

func (s *Server) acquireLock() error {
	if s.lock == nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(s.lock.Path()), 0o755); err != nil {
		return fmt.Errorf("create lock directory: %w", err)
	}
	ok, err := s.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return fmt.Errorf("another webtail instance holds %s", s.lock.Path())
	}
	return nil
}

func (s *Server) releaseLock() {
	if s.lock == nil {
		return
	}
	if err := s.lock.Unlock(); err != nil {
		s.log().Warn("release lock failed", logging.String("path", s.lock.Path()), logging.Error(err))
	}
}

func (s *Server) log() *slog.Logger {
	if s.logger != nil {
		return s.logger
	}
	return logging.NewNop()
}
