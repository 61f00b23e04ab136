// Package server exposes the tech-pack upload API over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"fjacquet/techpack-csv/internal/logging"
	"fjacquet/techpack-csv/internal/models"
	"fjacquet/techpack-csv/internal/repository"
	"fjacquet/techpack-csv/internal/techpack"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const (
	// DefaultMaxUploadMB bounds the request body of an upload.
	DefaultMaxUploadMB = 10
	// DefaultListLimit is used when GET /api/tech-packs has no limit.
	DefaultListLimit = 50

	shutdownTimeout = 10 * time.Second
)

// Processor builds a record from an uploaded PDF.
type Processor interface {
	ProcessFile(ctx context.Context, path, filename string, md models.Metadata) (techpack.Result, error)
}

// Options configures a Server.
type Options struct {
	MaxUploadMB int
}

// Server serves the upload API. Handlers are safe for concurrent use.
type Server struct {
	processor Processor
	repo      repository.Repository
	logger    logging.Logger
	maxUpload int64
	router    chi.Router
}

// New creates a Server and registers its routes.
func New(processor Processor, repo repository.Repository, opts Options, logger logging.Logger) *Server {
	if logger == nil {
		logger = logging.GetLogger()
	}
	if opts.MaxUploadMB <= 0 {
		opts.MaxUploadMB = DefaultMaxUploadMB
	}
	s := &Server{
		processor: processor,
		repo:      repo,
		logger:    logger,
		maxUpload: int64(opts.MaxUploadMB) << 20,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api/tech-packs", func(r chi.Router) {
		r.Post("/", s.handleCreate)
		r.Get("/", s.handleList)
		r.Get("/{id}", s.handleGet)
		r.Patch("/{id}/status", s.handleUpdateStatus)
	})
	s.router = r
	return s
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting tech pack API", logging.Field{Key: "addr", Value: addr})
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("Stopping tech pack API")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}
	return nil
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.logger.Debug("HTTP request",
			logging.Field{Key: "method", Value: r.Method},
			logging.Field{Key: "path", Value: r.URL.Path},
			logging.Field{Key: logging.FieldStatus, Value: ww.Status()},
			logging.Field{Key: logging.FieldRemoteAddr, Value: r.RemoteAddr},
			logging.Field{Key: "request_id", Value: middleware.GetReqID(r.Context())},
			logging.Field{Key: logging.FieldDuration, Value: time.Since(start).Milliseconds()})
	})
}
