// Package dashboard composes the dataset loader, the heatmap renderer and the
// report notifier behind the operations the web surface exposes.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/couchcryptid/plastic-waste-dashboard/internal/domain"
	"github.com/couchcryptid/plastic-waste-dashboard/internal/geomap"
	"github.com/couchcryptid/plastic-waste-dashboard/internal/observability"
	"github.com/jonboulle/clockwork"
)

// DatasetLoader returns the records stored at path.
type DatasetLoader interface {
	Load(ctx context.Context, path string) ([]domain.WasteRecord, error)
}

// Options carries the non-collaborator settings of a Service.
type Options struct {
	DatasetPath   string
	NotifyBackend string          // metrics label for report dispatches
	Clock         clockwork.Clock // defaults to the real clock
}

// Service serves dataset views, heatmaps and report requests.
type Service struct {
	loader   DatasetLoader
	topology []domain.GeoFeature
	notifier domain.Notifier
	path     string
	backend  string
	clock    clockwork.Clock
	logger   *slog.Logger
	metrics  *observability.Metrics
	ready    atomic.Bool
}

// New creates a Service over an already fetched topology.
func New(loader DatasetLoader, topology []domain.GeoFeature, notifier domain.Notifier, opts Options, logger *slog.Logger, metrics *observability.Metrics) *Service {
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	metrics.TopologyFeatures.Set(float64(len(topology)))
	return &Service{
		loader:   loader,
		topology: topology,
		notifier: notifier,
		path:     opts.DatasetPath,
		backend:  opts.NotifyBackend,
		clock:    opts.Clock,
		logger:   logger,
		metrics:  metrics,
	}
}

// CheckReadiness returns nil once the dataset has been loaded successfully
// at least once.
func (s *Service) CheckReadiness(_ context.Context) error {
	if !s.ready.Load() {
		return errors.New("dataset has not been loaded yet")
	}
	return nil
}

// Warm loads the dataset once so readiness reflects the store's health
// before the first page view.
func (s *Service) Warm(ctx context.Context) error {
	_, err := s.Records(ctx)
	return err
}

// Records returns the current dataset. The slice is shared with the cache
// and must not be modified.
func (s *Service) Records(ctx context.Context) ([]domain.WasteRecord, error) {
	records, err := s.loader.Load(ctx, s.path)
	if err != nil {
		return nil, err
	}
	s.ready.Store(true)
	return records, nil
}

// Heatmap loads the dataset and renders metric. The metric is validated
// before the dataset is touched.
func (s *Service) Heatmap(ctx context.Context, metric domain.Metric) (geomap.RenderedMap, error) {
	if err := metric.Validate(); err != nil {
		return geomap.RenderedMap{}, err
	}
	records, err := s.Records(ctx)
	if err != nil {
		return geomap.RenderedMap{}, err
	}
	return s.Render(records, metric)
}

// Render draws metric from records that were already loaded, letting one
// request render several heatmaps from a single load.
func (s *Service) Render(records []domain.WasteRecord, metric domain.Metric) (geomap.RenderedMap, error) {
	start := s.clock.Now()
	m, err := geomap.Render(records, s.topology, metric)
	if err != nil {
		return geomap.RenderedMap{}, err
	}
	s.metrics.RenderDuration.WithLabelValues(string(metric)).Observe(s.clock.Since(start).Seconds())

	unmatched := m.Unmatched()
	s.metrics.UnmatchedRegions.WithLabelValues(string(metric)).Set(float64(unmatched))
	s.logger.Debug("heatmap rendered",
		"metric", metric,
		"regions", len(m.Regions),
		"unmatched", unmatched,
	)
	return m, nil
}

// RequestReport dispatches one report request for email. The address is
// forwarded as entered. Failures are logged and counted and returned to the
// caller, who decides how to surface them; they never affect other views.
func (s *Service) RequestReport(ctx context.Context, email string) (domain.ReportRequest, error) {
	req := domain.NewReportRequest(email, s.clock.Now())

	if err := s.notifier.RequestReport(ctx, req); err != nil {
		s.metrics.ReportDispatches.WithLabelValues(s.backend, "error").Inc()
		s.logger.Error("report dispatch failed",
			"request_id", req.ID,
			"backend", s.backend,
			"error", err,
		)
		if !errors.Is(err, domain.ErrDispatchFailure) {
			err = fmt.Errorf("%w: %w", domain.ErrDispatchFailure, err)
		}
		return req, err
	}

	s.metrics.ReportDispatches.WithLabelValues(s.backend, "success").Inc()
	s.logger.Info("report requested", "request_id", req.ID, "backend", s.backend)
	return req, nil
}
