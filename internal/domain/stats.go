package domain

import (
	"math"
	"strconv"
)

// Stats aggregates every entry of a metric. Max, Min and Mean are nil when
// there are no entries; zero is a real measurement.
type Stats struct {
	Count int      `json:"count"`
	Max   *float64 `json:"max"`
	Min   *float64 `json:"min"`
	Mean  *float64 `json:"mean"`
}

// StatsOf computes count, max, min and the unrounded mean of entries.
func StatsOf(entries []Entry) Stats {
	s := Stats{Count: len(entries)}
	if len(entries) == 0 {
		return s
	}
	maxV, minV := entries[0].Value, entries[0].Value
	var sum float64
	for _, e := range entries {
		maxV = math.Max(maxV, e.Value)
		minV = math.Min(minV, e.Value)
		sum += e.Value
	}
	mean := sum / float64(len(entries))
	s.Max, s.Min, s.Mean = &maxV, &minV, &mean
	return s
}

// MeanDisplay formats the mean to one decimal place, or "" when absent.
func (s Stats) MeanDisplay() string {
	if s.Mean == nil {
		return ""
	}
	return strconv.FormatFloat(RoundTo(*s.Mean, 1), 'f', 1, 64)
}

// RoundTo rounds v half away from zero to the given number of decimal places.
func RoundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
