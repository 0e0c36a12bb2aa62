// Package http serves the dashboard page, its JSON API and map images, next
// to the health, readiness and metrics endpoints.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/plastic-waste-dashboard/internal/domain"
	"github.com/couchcryptid/plastic-waste-dashboard/internal/geomap"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Dashboard is the application surface the handlers drive.
type Dashboard interface {
	sharedobs.ReadinessChecker
	Records(ctx context.Context) ([]domain.WasteRecord, error)
	Heatmap(ctx context.Context, metric domain.Metric) (geomap.RenderedMap, error)
	Render(records []domain.WasteRecord, metric domain.Metric) (geomap.RenderedMap, error)
	RequestReport(ctx context.Context, email string) (domain.ReportRequest, error)
}

// Server exposes the dashboard and its operational endpoints.
type Server struct {
	httpServer *http.Server
	dashboard  Dashboard
	logger     *slog.Logger
}

// NewServer creates an HTTP server with the page, API, image, /healthz,
// /readyz and /metrics routes.
func NewServer(addr string, dashboard Dashboard, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       10 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		dashboard: dashboard,
		logger:    logger,
	}

	mux.HandleFunc("GET /{$}", s.handlePage)
	mux.HandleFunc("POST /report", s.handleReportForm)
	mux.HandleFunc("GET /maps/{file}", s.handleMapImage)

	mux.HandleFunc("GET /api/records", s.handleAPIRecords)
	mux.HandleFunc("GET /api/maps/{metric}", s.handleAPIMap)
	mux.HandleFunc("POST /api/report", s.handleAPIReport)

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(dashboard))
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}
