package domain

import "math"

// Trend is the change between the two most recent entries of a metric.
type Trend struct {
	Delta      float64 `json:"delta"`
	Magnitude  float64 `json:"magnitude"`
	IsPositive bool    `json:"isPositive"`
}

// TrendOf derives the trend of m. It reports false when m has fewer than two
// entries. A zero delta is classified as positive.
func TrendOf(m Metric) (Trend, bool) {
	if len(m.Entries) < 2 {
		return Trend{}, false
	}
	delta := m.Entries[0].Value - m.Entries[1].Value
	return Trend{
		Delta:      delta,
		Magnitude:  math.Abs(delta),
		IsPositive: delta >= 0,
	}, true
}
