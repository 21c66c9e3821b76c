// Package server exposes document storage, export and sharing over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/tsawler/menudoc"
	"github.com/tsawler/menudoc/layout"
	"github.com/tsawler/menudoc/store"
)

// maxBodyBytes bounds document uploads
const maxBodyBytes = 4 << 20

// Pinger is a dependency checked by the health endpoint
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the server's collaborators
type Deps struct {
	Store    store.Store
	Exporter *menudoc.Exporter
	Geometry layout.Geometry // base geometry for export query overrides
	BaseURL  string          // public base of share links
	Logger   *zap.Logger
	Checks   map[string]Pinger
}

// Server holds the HTTP handlers
type Server struct {
	store    store.Store
	exporter *menudoc.Exporter
	geometry layout.Geometry
	baseURL  string
	log      *zap.Logger
	checks   map[string]Pinger
}

func New(d Deps) *Server {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.Exporter == nil {
		d.Exporter = menudoc.New(d.Store)
	}
	if d.Geometry == (layout.Geometry{}) {
		d.Geometry = layout.DefaultGeometry()
	}
	return &Server{
		store:    d.Store,
		exporter: d.Exporter,
		geometry: d.Geometry,
		baseURL:  d.BaseURL,
		log:      d.Logger,
		checks:   d.Checks,
	}
}

// Handler returns the routed handler with middleware applied
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(logging(s.log))
	r.Use(recoverer(s.log))

	r.Get("/healthz", s.health)

	r.Route("/api/v1/documents", func(r chi.Router) {
		r.Get("/", s.listDocuments)
		r.With(limitBody(maxBodyBytes)).Post("/", s.createDocument)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.getDocument)
			r.With(limitBody(maxBodyBytes)).Put("/", s.putDocument)
			r.Delete("/", s.deleteDocument)
			r.Get("/export", s.exportDocument)
			r.Get("/share", s.shareDocument)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusNotFound, "not_found", "no such route", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed", nil)
	})
	return r
}

// HTTPServer wraps the handler in an http.Server
func (s *Server) HTTPServer(addr string, readTimeout, writeTimeout time.Duration) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully
func Run(ctx context.Context, srv *http.Server, log *zap.Logger) error {
	errc := make(chan error, 1)
	go func() {
		log.Info("http server started", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info("http server stopped")
	return nil
}
