package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "plastic_dashboard"

// Metrics holds the Prometheus counters, histograms, and gauges for the dashboard.
type Metrics struct {
	// Dataset loader metrics.
	DatasetLoads         *prometheus.CounterVec // labels: outcome={success,source_unavailable,parse_error}
	DatasetCache         *prometheus.CounterVec // labels: result={hit,miss}
	DatasetFetchDuration prometheus.Histogram
	DatasetRecords       prometheus.Gauge

	// Renderer metrics.
	RenderDuration   *prometheus.HistogramVec // labels: metric
	UnmatchedRegions *prometheus.GaugeVec     // labels: metric
	TopologyFeatures prometheus.Gauge

	// Report dispatch metrics.
	ReportDispatches *prometheus.CounterVec // labels: backend, outcome={success,error}
}

// NewMetrics creates and registers all dashboard metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.DatasetLoads,
		m.DatasetCache,
		m.DatasetFetchDuration,
		m.DatasetRecords,
		m.RenderDuration,
		m.UnmatchedRegions,
		m.TopologyFeatures,
		m.ReportDispatches,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		DatasetLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dataset_loads_total",
			Help:      "Dataset fetch-and-parse attempts by outcome.",
		}, []string{"outcome"}),
		DatasetCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dataset_cache_total",
			Help:      "Dataset cache lookups by result.",
		}, []string{"result"}),
		DatasetFetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "dataset_fetch_duration_seconds",
			Help:      "Object store read duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		DatasetRecords: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dataset_records",
			Help:      "Number of records in the most recently loaded dataset.",
		}),
		RenderDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "render_duration_seconds",
			Help:      "Heatmap join-and-project duration in seconds.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
		}, []string{"metric"}),
		UnmatchedRegions: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "unmatched_regions",
			Help:      "Regions drawn without data in the last render of each metric.",
		}, []string{"metric"}),
		TopologyFeatures: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "topology_features",
			Help:      "Number of features in the loaded world topology.",
		}),
		ReportDispatches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "report_dispatches_total",
			Help:      "Report notification dispatches by backend and outcome.",
		}, []string{"backend", "outcome"}),
	}
}
