package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Gravesjacob778/visualflow-assets/pkg/domain/interfaces"
	"github.com/Gravesjacob778/visualflow-assets/pkg/utils/metrics"
)

// config holds internal HTTP server configuration
type config struct {
	addr          string
	maxUploadSize int64
}

// Option is a functional option for Server configuration
type Option func(*config)

// WithAddr sets the server address
func WithAddr(addr string) Option {
	return func(c *config) {
		c.addr = addr
	}
}

// WithMaxUploadSize caps the request body size of the upload endpoint.
func WithMaxUploadSize(n int64) Option {
	return func(c *config) {
		c.maxUploadSize = n
	}
}

// Server represents the HTTP server
type Server struct {
	*http.Server
}

// NewServer creates a new HTTP server
func NewServer(
	ctx context.Context,
	archiveUC interfaces.ArchiveUseCase,
	opts ...Option,
) (*Server, error) {
	cfg := &config{
		addr:          "localhost:8080",
		maxUploadSize: 50 << 20,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	router := chi.NewRouter()

	// Global middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(LoggingMiddleware(ctx))
	router.Use(middleware.Recoverer)

	router.Get("/health", handleHealth)
	router.Handle("/metrics", metrics.Handler())

	handler := NewArchiveHandler(archiveUC, cfg.maxUploadSize)
	router.Route("/api/v1/archives", func(r chi.Router) {
		r.Post("/", handler.Upload)
		r.Get("/", handler.List)
		r.Get("/{archiveID}", handler.Get)
		r.Delete("/{archiveID}", handler.Delete)
		r.Get("/{archiveID}/manifest", handler.Manifest)
		r.Get("/{archiveID}/content/*", handler.Member)
	})

	server := &Server{
		Server: &http.Server{
			Addr:              cfg.addr,
			Handler:           router,
			ReadHeaderTimeout: 15 * time.Second,
		},
	}

	return server, nil
}
