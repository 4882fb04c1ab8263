// Package server serves the country lookup widget to browsers. Each browser
// gets its own search controller, keyed by a session cookie.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/yildizm/countrylookup/internal/countries"
	"github.com/yildizm/countrylookup/internal/logger"
	"github.com/yildizm/countrylookup/internal/search"
	"github.com/yildizm/countrylookup/internal/view"
)

const shutdownTimeout = 5 * time.Second

// Options configures the widget server
type Options struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	MaxSessions  int
	Debounce     time.Duration
	Search       search.Options
	Logger       *logger.Logger
}

// Server is the HTTP front end of the widget
type Server struct {
	opts     Options
	log      *logger.Logger
	html     *view.HTML
	metrics  *Metrics
	sessions *sessionStore
	router   http.Handler

	mu     sync.RWMutex
	lookup countries.Lookuper
	search search.Options
}

// New creates a server backed by lookup
func New(lookup countries.Lookuper, opts Options) (*Server, error) {
	if lookup == nil {
		return nil, fmt.Errorf("lookup backend is required")
	}
	if opts.MaxSessions <= 0 {
		opts.MaxSessions = 1024
	}
	log := opts.Logger
	if log == nil {
		log = logger.Discard()
	}

	html, err := view.NewHTML()
	if err != nil {
		return nil, err
	}

	s := &Server{
		opts:   opts,
		log:    log.WithComponent("server"),
		html:   html,
		lookup: lookup,
		search: opts.Search,
	}

	s.sessions, err = newSessionStore(opts.MaxSessions, s.newController)
	if err != nil {
		return nil, err
	}
	s.metrics = NewMetrics(s.sessions.len)
	s.router = s.buildRouter()

	return s, nil
}

func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(s.log))

	// Widget
	r.Get("/", s.pageHandler)
	r.Get("/api/search", s.searchHandler)
	r.Post("/api/select", s.selectHandler)
	r.Post("/api/escape", s.escapeHandler)

	// Health/metrics
	r.Get("/healthz", healthzHandler)
	r.Handle("/metrics", promhttp.HandlerFor(s.metrics.Registry(), promhttp.HandlerOpts{}))

	return r
}

// Handler returns the server's HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Metrics returns the server's collectors
func (s *Server) Metrics() *Metrics {
	return s.metrics
}

func (s *Server) newController() *search.Controller {
	s.mu.RLock()
	defer s.mu.RUnlock()

	opts := s.search
	opts.Logger = s.log.WithComponent("search")
	return search.New(s.lookup, opts)
}

// Reload swaps the lookup backend for every session and sets the search
// options used by sessions created from now on.
func (s *Server) Reload(lookup countries.Lookuper, opts search.Options) {
	s.mu.Lock()
	s.lookup = lookup
	s.search = opts
	s.mu.Unlock()

	s.sessions.each(func(sess *session) {
		sess.mu.Lock()
		sess.ctrl.SetLookuper(lookup)
		sess.mu.Unlock()
	})
	s.log.InfoWithFields("configuration reloaded", []logger.Field{
		logger.F("max_matches", opts.MaxMatches),
		logger.F("drop_stale", opts.DropStale),
	})
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.opts.Addr,
		Handler:      s.router,
		ReadTimeout:  s.opts.ReadTimeout,
		WriteTimeout: s.opts.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening on %s", s.opts.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}
