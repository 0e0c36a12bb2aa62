package dataset

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/couchcryptid/plastic-waste-dashboard/internal/domain"
	"github.com/couchcryptid/plastic-waste-dashboard/internal/observability"
	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/singleflight"
)

// DefaultTTL is how long a parsed dataset stays cached after a successful load.
const DefaultTTL = 600 * time.Second

// fetchTimeout bounds one shared store read and parse.
const fetchTimeout = 30 * time.Second

// ObjectStore opens objects addressed as "<bucket>/<key>".
type ObjectStore interface {
	// Open returns the object body. A missing object or unreachable store
	// should be reported as domain.ErrSourceUnavailable.
	Open(ctx context.Context, path string) (io.ReadCloser, error)
}

// Loader fetches, parses and caches datasets.
type Loader struct {
	store   ObjectStore
	cache   Cache
	clock   clockwork.Clock
	ttl     time.Duration
	group   singleflight.Group
	logger  *slog.Logger
	metrics *observability.Metrics
}

// Option customizes a Loader.
type Option func(*Loader)

// WithClock sets the time source used to stamp cache expiry.
func WithClock(c clockwork.Clock) Option {
	return func(l *Loader) { l.clock = c }
}

// WithCache replaces the default in-memory TTL cache.
func WithCache(c Cache) Option {
	return func(l *Loader) { l.cache = c }
}

// NewLoader creates a Loader reading from store. A non-positive ttl falls
// back to DefaultTTL.
func NewLoader(store ObjectStore, ttl time.Duration, logger *slog.Logger, metrics *observability.Metrics, opts ...Option) *Loader {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	l := &Loader{
		store:   store,
		ttl:     ttl,
		clock:   clockwork.NewRealClock(),
		logger:  logger,
		metrics: metrics,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.cache == nil {
		l.cache = NewTTLCache(l.clock)
	}
	return l
}

// Load returns the records stored at path. Within the cache window the same
// slice is returned without touching the store; callers must not modify it.
func (l *Loader) Load(ctx context.Context, path string) ([]domain.WasteRecord, error) {
	if e, ok := l.cache.Get(path); ok {
		l.metrics.DatasetCache.WithLabelValues("hit").Inc()
		return e.Records, nil
	}
	l.metrics.DatasetCache.WithLabelValues("miss").Inc()

	// The flight is shared, so it must not inherit one caller's cancellation.
	// Each caller still stops waiting when its own context ends.
	ch := l.group.DoChan(path, func() (any, error) {
		flightCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), fetchTimeout)
		defer cancel()
		// A flight that finished just before this one may have filled the cache.
		if e, ok := l.cache.Get(path); ok {
			return e.Records, nil
		}
		records, err := l.fetch(flightCtx, path)
		if err != nil {
			return nil, err
		}
		l.cache.Put(path, records, l.clock.Now().Add(l.ttl))
		return records, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			l.logger.Debug("dataset load shared with concurrent caller", "path", path)
		}
		return res.Val.([]domain.WasteRecord), nil
	case <-ctx.Done():
		return nil, fmt.Errorf("load %s: %w", path, ctx.Err())
	}
}

func (l *Loader) fetch(ctx context.Context, path string) ([]domain.WasteRecord, error) {
	start := l.clock.Now()

	body, err := l.read(ctx, path)
	l.metrics.DatasetFetchDuration.Observe(l.clock.Since(start).Seconds())
	if err != nil {
		l.metrics.DatasetLoads.WithLabelValues("source_unavailable").Inc()
		l.logger.Error("dataset fetch failed", "path", path, "error", err)
		return nil, err
	}

	records, err := Parse(bytes.NewReader(body))
	if err != nil {
		l.metrics.DatasetLoads.WithLabelValues("parse_error").Inc()
		l.logger.Error("dataset parse failed", "path", path, "error", err)
		return nil, err
	}

	l.metrics.DatasetLoads.WithLabelValues("success").Inc()
	l.metrics.DatasetRecords.Set(float64(len(records)))
	l.logger.Info("dataset loaded", "path", path, "records", len(records), "bytes", len(body))
	return records, nil
}

// read pulls the whole object so transport errors surface before parsing.
func (l *Loader) read(ctx context.Context, path string) ([]byte, error) {
	rc, err := l.store.Open(ctx, path)
	if err != nil {
		return nil, sourceErr(path, err)
	}
	defer rc.Close()

	body, err := io.ReadAll(rc)
	if err != nil {
		return nil, sourceErr(path, err)
	}
	return body, nil
}

func sourceErr(path string, err error) error {
	if errors.Is(err, domain.ErrSourceUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %s: %w", domain.ErrSourceUnavailable, path, err)
}
