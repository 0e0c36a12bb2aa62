package observability

import (
	"context"
	"log/slog"
	"testing"

	"github.com/couchcryptid/plastic-waste-dashboard/internal/config"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNewLogger_Level(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	logger := NewLogger(&config.Config{LogLevel: "warn", LogFormat: "text"})
	assert.False(t, logger.Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, logger.Enabled(context.Background(), slog.LevelWarn))

	logger = NewLogger(&config.Config{LogLevel: "debug", LogFormat: "json"})
	assert.True(t, logger.Enabled(context.Background(), slog.LevelDebug))
}

func TestNewMetricsForTesting_Independent(t *testing.T) {
	a := NewMetricsForTesting()
	b := NewMetricsForTesting()

	a.DatasetLoads.WithLabelValues("success").Inc()
	a.ReportDispatches.WithLabelValues("lambda", "error").Inc()

	assert.Equal(t, 1.0, testutil.ToFloat64(a.DatasetLoads.WithLabelValues("success")))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.DatasetLoads.WithLabelValues("success")))
	assert.Equal(t, 1, testutil.CollectAndCount(a.ReportDispatches))
}
