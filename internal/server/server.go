// Package server exposes the HTTP surface: liveness, readiness, build
// version, Prometheus metrics and, when an API key is configured, the player
// API.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/osse101/brandish-progression/internal/handler"
	"github.com/osse101/brandish-progression/internal/metrics"
	"github.com/osse101/brandish-progression/internal/progression"
)

// Options configures the router
type Options struct {
	Version string
	// Readiness names the dependencies /readyz pings
	Readiness map[string]handler.Pinger

	// APIKey guards /api/v1. The player API is only mounted when both
	// APIKey and Engine are set.
	APIKey         string
	TrustedProxies []string
	Engine         progression.Engine
	// Catalog is invalidated by the admin endpoint. May be nil.
	Catalog  handler.CacheInvalidator
	Detector *SuspiciousActivityDetector
}

type Server struct {
	httpServer *http.Server
}

func NewServer(port int, opts Options) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           NewRouter(opts),
			ReadHeaderTimeout: ReadHeaderTimeout,
			ReadTimeout:       ReadTimeout,
			WriteTimeout:      WriteTimeout,
			IdleTimeout:       IdleTimeout,
		},
	}
}

// NewRouter returns the chi router NewServer serves
func NewRouter(opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(SecurityHeadersMiddleware())
	r.Use(metrics.Middleware)
	r.Use(loggingMiddleware)

	r.Get("/healthz", handler.HandleHealthz())
	r.Get("/readyz", handler.HandleReadyz(opts.Readiness))
	r.Get("/version", handler.HandleVersion(opts.Version))
	r.Handle("/metrics", promhttp.Handler())

	if opts.APIKey == "" || opts.Engine == nil {
		slog.Default().Warn(LogMsgPlayerAPIOff)
		return r
	}

	detector := opts.Detector
	if detector == nil {
		detector = NewSuspiciousActivityDetector(DefaultDetectorLimits, nil)
	}
	players := handler.NewPlayerHandlers(opts.Engine)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(RateLimitMiddleware(opts.TrustedProxies, detector))
		r.Use(AuthMiddleware(opts.APIKey, opts.TrustedProxies, detector))
		r.Use(RequestSizeLimitMiddleware(MaxRequestBodyBytes))

		r.Route("/players/{playerID}", players.RegisterRoutes)
		if opts.Catalog != nil {
			r.Post("/admin/catalog/invalidate", handler.HandleInvalidateCatalog(opts.Catalog))
		}
	})
	slog.Default().Info(LogMsgPlayerAPIMounted)

	return r
}

// Addr is the listen address
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Start blocks serving until Stop is called. A graceful stop is not an error.
func (s *Server) Start() error {
	slog.Default().Info(LogMsgServerStarting, "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop stops the server gracefully
func (s *Server) Stop(ctx context.Context) error {
	slog.Default().Info(LogMsgServerStopping, "addr", s.httpServer.Addr)
	return s.httpServer.Shutdown(ctx)
}
