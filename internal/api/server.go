// Package api serves rigport over HTTP.
//
// Endpoints:
//
//	GET  /healthz      liveness and build information
//	POST /v1/inspect   classify a payload without loading anything
//	POST /v1/jobs      run a payload against the server's assets folder
//
// Jobs run on a fresh sandbox host per request, so concurrent requests
// never share scene state. They do share the runner's artifact cache.
package api

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/rigport/rigport/pkg/buildinfo"
	"github.com/rigport/rigport/pkg/pipeline"
)

const (
	// MaxPayloadBytes bounds request bodies.
	MaxPayloadBytes = 16 << 20

	shutdownTimeout = 10 * time.Second
)

// Config configures a Server.
type Config struct {
	// Assets is the folder meshes and textures are resolved under.
	Assets string

	// Defaults are applied to every job before request parameters.
	Defaults pipeline.Options
}

// Server is the HTTP API.
type Server struct {
	runner *pipeline.Runner
	cfg    Config
	logger *log.Logger
	router chi.Router
}

// New creates a server that executes jobs with runner.
func New(runner *pipeline.Runner, cfg Config, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{runner: runner, cfg: cfg, logger: logger}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.observe)
	r.Use(middleware.Recoverer)
	r.Use(serverHeader)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Use(middleware.AllowContentType("application/json"))
		r.Post("/inspect", s.handleInspect)
		r.Post("/jobs", s.handleJob)
	})
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr, "assets", s.cfg.Assets)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func serverHeader(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Server", buildinfo.ServerHeader())
		next.ServeHTTP(w, r)
	})
}
