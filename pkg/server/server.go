package server

import (
	"context"
	stderrors "errors"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/carousel/pkg/config"
	"github.com/matzehuels/carousel/pkg/pipeline"
	"github.com/matzehuels/carousel/pkg/preset"
)

// Server serves the carousel HTTP API.
type Server struct {
	runner *pipeline.Runner
	store  preset.Store
	cfg    config.ServerConfig
	logger *log.Logger
	router chi.Router
}

// New creates a server. A nil store disables the preset routes (they answer
// UNSUPPORTED).
func New(runner *pipeline.Runner, store preset.Store, cfg config.ServerConfig, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = config.Default().Server.MaxBodyBytes
	}
	s := &Server{
		runner: runner,
		store:  store,
		cfg:    cfg,
		logger: logger,
	}
	s.router = s.routes()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.CleanPath)

	r.Get("/healthz", s.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Use(middleware.AllowContentType("application/json"))
		r.Post("/keylines", s.handleKeylines)
		r.Post("/place", s.handlePlace)

		r.Route("/presets", func(r chi.Router) {
			r.Get("/", s.handleListPresets)
			r.Route("/{name}", func(r chi.Router) {
				r.Put("/", s.handlePutPreset)
				r.Get("/", s.handleGetPreset)
				r.Delete("/", s.handleDeletePreset)
				r.Get("/layout", s.handlePresetLayout)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, notFoundRoute(r))
	})
	r.MethodNotAllowed(writeMethodNotAllowed)
	return r
}

// ListenAndServe serves on cfg.Addr until ctx is cancelled, then shuts down
// gracefully within cfg.ShutdownTimeout.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is ListenAndServe on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      s.router,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", ln.Addr().String())
		errc <- srv.Serve(ln)
	}()

	select {
	case err := <-errc:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	s.logger.Info("shutting down", "timeout", timeout)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
