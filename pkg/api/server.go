package api

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/getmockd/seedapi/pkg/httputil"
	"github.com/getmockd/seedapi/pkg/logging"
	"github.com/getmockd/seedapi/pkg/stateful"
)

// Server exposes a Store over HTTP.
type Server struct {
	store        *stateful.Store
	log          *slog.Logger
	metrics      *stateful.MetricsObserver
	cors         CORSConfig
	maxBodyBytes int64

	handler    http.Handler
	httpServer *http.Server
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger used for request logs and handler errors.
func WithLogger(log *slog.Logger) Option {
	return func(s *Server) {
		if log != nil {
			s.log = log
		}
	}
}

// WithMetrics enables GET /api/_stats backed by m. m should also be
// registered as an observer on the store.
func WithMetrics(m *stateful.MetricsObserver) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// WithCORS replaces the default allow-all CORS configuration.
func WithCORS(cfg CORSConfig) Option {
	return func(s *Server) {
		s.cors = cfg
	}
}

// WithMaxBodyBytes sets the request body limit.
func WithMaxBodyBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxBodyBytes = n
		}
	}
}

// NewServer builds the handler tree for store. Every collection known to the
// store gets the same endpoint set under /api/<name>.
func NewServer(store *stateful.Store, opts ...Option) *Server {
	s := &Server{
		store:        store,
		log:          logging.Nop(),
		cors:         DefaultCORSConfig(),
		maxBodyBytes: DefaultMaxBodyBytes,
	}
	for _, opt := range opts {
		opt(s)
	}

	mux := http.NewServeMux()
	s.registerRoutes(mux)
	s.handler = NewLoggingMiddleware(NewCORSMiddleware(mux, s.cors), s.log)
	return s
}

// Handler returns the root handler, middleware included.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully within shutdownTimeout.
func (s *Server) ListenAndServe(ctx context.Context, addr string, readTimeout, writeTimeout, shutdownTimeout time.Duration) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln, readTimeout, writeTimeout, shutdownTimeout)
}

// Serve is ListenAndServe on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener, readTimeout, writeTimeout, shutdownTimeout time.Duration) error {
	s.httpServer = &http.Server{
		Handler:           s.handler,
		ReadTimeout:       readTimeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      writeTimeout,
		ErrorLog:          slog.NewLogLogger(s.log.Handler(), slog.LevelError),
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", ln.Addr().String())
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

func (s *Server) registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /api/_reset", s.handleReset)
	mux.HandleFunc("GET /api/_state", s.handleState)
	if s.metrics != nil {
		mux.HandleFunc("GET /api/_stats", s.handleStats)
	}

	for _, name := range s.store.Names() {
		s.mountCollection(mux, name)
	}

	mux.HandleFunc("/", s.handleNotFound)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteOK(w, map[string]string{"status": "ok"})
}

// handleReset reloads every collection from the seed source.
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Reset(r.Context()); err != nil {
		s.log.Error("reset failed", "error", err, "requestId", RequestID(r.Context()))
		httputil.WriteInternalError(w, err.Error())
		return
	}
	s.log.Info("store reset", "items", s.store.Overview().Items)
	httputil.WriteOK(w, map[string]bool{"ok": true})
}

func (s *Server) handleState(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteOK(w, s.store.Overview())
}

func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	snap := s.metrics.Snapshot()
	httputil.WriteOK(w, map[string]any{
		"operations":   snap,
		"total":        snap.TotalOperations(),
		"totalLatency": snap.TotalLatency.String(),
	})
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	httputil.WriteNotFound(w, "cannot "+r.Method+" "+r.URL.Path)
}
