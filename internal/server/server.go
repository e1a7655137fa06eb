// Package server exposes the transcript store, annotations, and search over
// a JSON HTTP API and serves the front-end bundle.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/pbrown/claude-viewer/internal/annotations"
	"github.com/pbrown/claude-viewer/internal/debuglog"
	"github.com/pbrown/claude-viewer/internal/search"
	"github.com/pbrown/claude-viewer/internal/transcript"
)

// ShutdownTimeout bounds how long in-flight requests may run after the
// serve context is cancelled.
const ShutdownTimeout = 5 * time.Second

// Deps are the components a Server dispatches to.
type Deps struct {
	Transcripts *transcript.Store
	Names       *annotations.Names
	Archive     *annotations.Archive
	Search      *search.Engine
	Logger      *debuglog.Logger
	StaticDir   string // empty disables the bundle
}

// Server is the stateless request layer. All state lives on disk.
type Server struct {
	transcripts *transcript.Store
	names       *annotations.Names
	archive     *annotations.Archive
	search      *search.Engine
	logger      *debuglog.Logger
	staticDir   string
}

// New creates a Server.
func New(d Deps) *Server {
	engine := d.Search
	if engine == nil {
		engine = search.NewEngine(d.Transcripts, d.Logger)
	}

	return &Server{
		transcripts: d.Transcripts,
		names:       d.Names,
		archive:     d.Archive,
		search:      engine,
		logger:      d.Logger,
		staticDir:   d.StaticDir,
	}
}

// Handler returns the full handler chain: request id, logging, CORS, routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/sessions", s.handleListSessions)
	mux.HandleFunc("GET /api/sessions/{id}", s.handleGetSession)
	mux.HandleFunc("GET /api/session-names", s.handleGetNames)
	mux.HandleFunc("POST /api/session-names/{id}", s.handleSetName)
	mux.HandleFunc("GET /api/archived", s.handleGetArchived)
	mux.HandleFunc("POST /api/archived/{id}", s.handleSetArchived)
	mux.HandleFunc("GET /api/search", s.handleSearch)
	mux.Handle("/api/", http.HandlerFunc(handleAPINotFound))
	mux.Handle("/", s.staticHandler())

	return withRequestID(s.withLogging(withCORS(mux)))
}

// Serve answers requests on ln until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	}
}

// ListenAndServe listens on addr and calls Serve.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}
