package app

import (
	"context"
	"time"

	"bodymetrics/internal/domain"
)

const maxSeriesDays = 366

// MetricReader is the read side of MetricService used by ChartsService.
type MetricReader interface {
	LoadOne(ctx context.Context, key domain.MetricTypeKey) (*domain.Metric, error)
}

// ChartsService encapsulates chart data retrieval use cases.
type ChartsService struct {
	metrics MetricReader
	now     func() time.Time
}

// NewChartsService creates a ChartsService reading from metrics. A nil now
// defaults to time.Now.
func NewChartsService(metrics MetricReader, now func() time.Time) *ChartsService {
	if now == nil {
		now = time.Now
	}
	return &ChartsService{metrics: metrics, now: now}
}

// DayPoint is a single data point returned by GetDaily. Value is nil for
// days without an entry.
type DayPoint struct {
	Day   string   `json:"day"`
	Value *float64 `json:"value"`
}

// GetDaily returns one point per local day for the last days days, oldest
// first. Each point carries the newest entry recorded on that day.
func (s *ChartsService) GetDaily(ctx context.Context, key domain.MetricTypeKey, days int) ([]DayPoint, error) {
	if days > maxSeriesDays {
		days = maxSeriesDays
	}
	if days < 1 {
		days = 1
	}

	m, err := s.metrics.LoadOne(ctx, key)
	if err != nil {
		return nil, err
	}

	today := s.now()
	loc := today.Location()

	// Entries are newest-first, so the first hit for a day is its latest value.
	byDay := make(map[string]float64)
	if m != nil {
		for _, e := range m.Entries {
			if e.RecordedAt.IsZero() {
				continue
			}
			day := e.RecordedAt.In(loc).Format("2006-01-02")
			if _, seen := byDay[day]; !seen {
				byDay[day] = e.Value
			}
		}
	}

	points := make([]DayPoint, 0, days)
	for i := days - 1; i >= 0; i-- {
		dayStr := today.AddDate(0, 0, -i).Format("2006-01-02")
		p := DayPoint{Day: dayStr}
		if v, ok := byDay[dayStr]; ok {
			p.Value = &v
		}
		points = append(points, p)
	}
	return points, nil
}
