// Package app holds the application services and business logic.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"bodymetrics/internal/domain"

	log "github.com/sirupsen/logrus"
)

// Recorder receives operational events from MetricService. It is typically
// backed by Prometheus counters.
type Recorder interface {
	EntryAppended(key domain.MetricTypeKey)
	AppendRejected(reason string)
	StorageFailed(op string)
}

type nopRecorder struct{}

func (nopRecorder) EntryAppended(domain.MetricTypeKey) {}
func (nopRecorder) AppendRejected(string)              {}
func (nopRecorder) StorageFailed(string)               {}

// Option configures a MetricService.
type Option func(*MetricService)

// WithClock overrides the capture clock used for new entries.
func WithClock(now func() time.Time) Option {
	return func(s *MetricService) { s.now = now }
}

// WithRecorder attaches a Recorder for operational events.
func WithRecorder(r Recorder) Option {
	return func(s *MetricService) {
		if r != nil {
			s.rec = r
		}
	}
}

// MetricService owns the authoritative snapshot of every metric and persists
// it through a SnapshotRepository. Appends are serialized by a single writer
// lock; every append rewrites the whole document.
type MetricService struct {
	repo    domain.SnapshotRepository
	catalog *domain.Catalog
	now     func() time.Time
	rec     Recorder

	mu       sync.RWMutex
	snapshot domain.MetricData // nil until the first successful load
}

// NewMetricService creates a MetricService backed by the given repository and
// validating keys against catalog.
func NewMetricService(repo domain.SnapshotRepository, catalog *domain.Catalog, opts ...Option) *MetricService {
	s := &MetricService{
		repo:    repo,
		catalog: catalog,
		now:     time.Now,
		rec:     nopRecorder{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Catalog returns the catalog the service validates against.
func (s *MetricService) Catalog() *domain.Catalog {
	return s.catalog
}

// LoadAll returns a detached copy of the full snapshot, reading it from
// storage on first use.
func (s *MetricService) LoadAll(ctx context.Context) (domain.MetricData, error) {
	s.mu.RLock()
	if s.snapshot != nil {
		defer s.mu.RUnlock()
		return s.snapshot.Detach(), nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := s.loadLocked(ctx)
	if err != nil {
		return nil, err
	}
	return data.Detach(), nil
}

// LoadOne returns the metric for key, or nil if it has never been recorded.
func (s *MetricService) LoadOne(ctx context.Context, key domain.MetricTypeKey) (*domain.Metric, error) {
	if !s.catalog.Has(key) {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownMetric, key)
	}
	data, err := s.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	m, ok := data[key]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

// AppendEntry records value for key at the current moment, persists the
// whole updated snapshot and returns it. On any failure the previous
// snapshot stays in effect.
func (s *MetricService) AppendEntry(ctx context.Context, key domain.MetricTypeKey, value float64) (domain.MetricData, error) {
	cfg, ok := s.catalog.Lookup(key)
	if !ok {
		s.rec.AppendRejected("unknown_metric")
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownMetric, key)
	}
	if err := domain.CheckValue(value); err != nil {
		s.rec.AppendRejected("invalid_value")
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.loadLocked(ctx)
	if err != nil {
		return nil, err
	}

	next := current.Clone()
	next[key] = current[key].Prepend(domain.NewEntry(value, cfg.Unit, s.now()))

	if err := s.repo.Save(ctx, next); err != nil {
		s.rec.StorageFailed("save")
		log.Errorf("metric service: save after append to [%s]: %s", key, err)
		return nil, wrapStorage(domain.ErrStorageWrite, err)
	}
	s.snapshot = next
	s.rec.EntryAppended(key)
	log.Debugf("metric service: appended %v %s to [%s], %d entries", value, cfg.Unit, key, len(next[key].Entries))

	return next.Detach(), nil
}

// Trend returns the trend of key, or nil when there are fewer than two entries.
func (s *MetricService) Trend(ctx context.Context, key domain.MetricTypeKey) (*domain.Trend, error) {
	m, err := s.LoadOne(ctx, key)
	if err != nil || m == nil {
		return nil, err
	}
	t, ok := domain.TrendOf(*m)
	if !ok {
		return nil, nil
	}
	return &t, nil
}

// Stats aggregates every entry recorded for key.
func (s *MetricService) Stats(ctx context.Context, key domain.MetricTypeKey) (domain.Stats, error) {
	m, err := s.LoadOne(ctx, key)
	if err != nil {
		return domain.Stats{}, err
	}
	if m == nil {
		return domain.StatsOf(nil), nil
	}
	return domain.StatsOf(m.Entries), nil
}

// MetricSummary is the per-metric row of an overview.
type MetricSummary struct {
	Config       domain.MetricConfig `json:"config"`
	CurrentValue *float64            `json:"currentValue"`
	LastUpdated  string              `json:"lastUpdated,omitempty"`
	Trend        *domain.Trend       `json:"trend"`
	Stats        domain.Stats        `json:"stats"`
}

// Overview summarises every catalog metric in catalog order.
func (s *MetricService) Overview(ctx context.Context) ([]MetricSummary, error) {
	data, err := s.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	configs := s.catalog.List()
	out := make([]MetricSummary, 0, len(configs))
	for _, cfg := range configs {
		m := data[cfg.Key]
		sum := MetricSummary{
			Config:       cfg,
			CurrentValue: m.CurrentValue,
			LastUpdated:  m.LastUpdated,
			Stats:        domain.StatsOf(m.Entries),
		}
		if t, ok := domain.TrendOf(m); ok {
			sum.Trend = &t
		}
		out = append(out, sum)
	}
	return out, nil
}

func (s *MetricService) loadLocked(ctx context.Context) (domain.MetricData, error) {
	if s.snapshot != nil {
		return s.snapshot, nil
	}
	data, err := s.repo.Load(ctx)
	if err != nil {
		s.rec.StorageFailed("load")
		return nil, wrapStorage(domain.ErrStorageRead, err)
	}
	if data == nil {
		data = domain.MetricData{}
	}
	for key, m := range data {
		if !s.catalog.Has(key) {
			log.Warnf("metric service: stored metric [%s] is not in the catalog, keeping %d entries as-is", key, len(m.Entries))
			continue
		}
		data[key] = m.Derive()
	}
	s.snapshot = data
	return data, nil
}

func wrapStorage(kind, err error) error {
	if errors.Is(err, kind) {
		return err
	}
	return fmt.Errorf("%w: %w", kind, err)
}
