// Package api serves the element key codec and the element catalog over
// HTTP.
//
// All routes under /api/v1 require an X-API-Key header. Prometheus metrics
// are served unauthenticated at /metrics.
package api

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ssargent/twinkeys/pkg/logging"
)

const (
	statsRefreshInterval = 30 * time.Second
	shutdownTimeout      = 10 * time.Second
)

// Server holds the API server state
type Server struct {
	store   ElementStore
	config  ServerConfig
	metrics *Metrics
	logger  *logging.Logger
}

// NewServer creates a new API server
func NewServer(store ElementStore, config ServerConfig, metrics *Metrics, logger *logging.Logger) *Server {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Server{
		store:   store,
		config:  config,
		metrics: metrics,
		logger:  logger.With("component", "api"),
	}
}

// Routes builds the HTTP handler with all routes configured
func (s *Server) Routes() http.Handler {
	m := s.metrics
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RequestLogger(&slogFormatter{logger: s.logger}))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Prometheus metrics endpoint (unprotected for scraping)
	r.Handle("/metrics", promhttp.HandlerFor(m.Registry(), promhttp.HandlerOpts{}))

	// Swagger documentation (unprotected)
	r.Get("/swagger/*", s.handleSwagger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(m.InstrumentAuthMiddleware(apiKeyMiddleware(s.config.APIKey)))

		r.Get("/health", m.InstrumentHandler("GET", "/api/v1/health", s.handleHealth))
		r.Get("/stats", m.InstrumentHandler("GET", "/api/v1/stats", s.handleStats))

		// Key codec
		r.Post("/keys/full", m.InstrumentHandler("POST", "/api/v1/keys/full", s.handleToFullKey))
		r.Post("/keys/short", m.InstrumentHandler("POST", "/api/v1/keys/short", s.handleToShortKey))
		r.Post("/keys/guid", m.InstrumentHandler("POST", "/api/v1/keys/guid", s.handleToGUID))
		r.Post("/keys/sysid", m.InstrumentHandler("POST", "/api/v1/keys/sysid", s.handleToSystemID))
		r.Post("/keys/xref", m.InstrumentHandler("POST", "/api/v1/keys/xref", s.handleToXrefKey))
		r.Post("/keys/xref/decode", m.InstrumentHandler("POST", "/api/v1/keys/xref/decode", s.handleDecodeXrefKey))
		r.Post("/keys/array/decode", m.InstrumentHandler("POST", "/api/v1/keys/array/decode", s.handleDecodeShortKeyArray))
		r.Post("/keys/xref-array/decode", m.InstrumentHandler("POST", "/api/v1/keys/xref-array/decode", s.handleDecodeXrefKeyArray))

		// Element catalog
		r.Get("/elements/{model}", m.InstrumentHandler("GET", "/api/v1/elements/{model}", s.handleListElements))
		r.Put("/elements/{model}/{key}", m.InstrumentHandler("PUT", "/api/v1/elements/{model}/{key}", s.handlePutElement))
		r.Get("/elements/{model}/{key}", m.InstrumentHandler("GET", "/api/v1/elements/{model}/{key}", s.handleGetElement))
		r.Delete("/elements/{model}/{key}", m.InstrumentHandler("DELETE", "/api/v1/elements/{model}/{key}", s.handleDeleteElement))

		r.Get("/levels/{model}", m.InstrumentHandler("GET", "/api/v1/levels/{model}", s.handleListLevels))
		r.Get("/rooms/{model}", m.InstrumentHandler("GET", "/api/v1/rooms/{model}", s.handleListRooms))

		// Facility structure
		r.Post("/structure", m.InstrumentHandler("POST", "/api/v1/structure", s.handleBuildStructure))
		r.Post("/streams/hosts", m.InstrumentHandler("POST", "/api/v1/streams/hosts", s.handleStreamHosts))
		r.Get("/snapshots", m.InstrumentHandler("GET", "/api/v1/snapshots", s.handleListSnapshots))
		r.Get("/snapshots/{id}", m.InstrumentHandler("GET", "/api/v1/snapshots/{id}", s.handleGetSnapshot))
	})

	return r
}

// StartServer serves the API until ctx is done, then shuts down gracefully
func StartServer(ctx context.Context, store ElementStore, config ServerConfig, logger *logging.Logger) error {
	server := NewServer(store, config, NewMetrics(), logger)

	addr := net.JoinHostPort(config.Bind, strconv.Itoa(config.Port))
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           server.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go server.startMetricsUpdater(ctx)

	errCh := make(chan error, 1)
	go func() {
		server.logger.Info("starting twinkey API server", "addr", addr)
		server.logger.Info("metrics available", "url", fmt.Sprintf("http://%s/metrics", addr))
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrap(err, "serve")
	case <-ctx.Done():
	}

	server.logger.Info("shutting down API server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "shutdown")
	}
	return nil
}

func (s *Server) startMetricsUpdater(ctx context.Context) {
	s.refreshCatalogStats()

	ticker := time.NewTicker(statsRefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.refreshCatalogStats()
		}
	}
}

func (s *Server) refreshCatalogStats() {
	stats, err := s.store.Stats()
	if err != nil {
		s.logger.Warn("catalog stats failed", "error", err)
		return
	}
	s.metrics.UpdateCatalogStats(stats.Models, stats.Elements, stats.Snapshots)
}
