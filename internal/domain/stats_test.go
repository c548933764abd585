package domain_test

import (
	"math"
	"testing"

	"bodymetrics/internal/domain"
)

func almostEqual(a, b, epsilon float64) bool {
	return math.Abs(a-b) < epsilon
}

func entries(values ...float64) []domain.Entry {
	out := make([]domain.Entry, 0, len(values))
	for _, v := range values {
		out = append(out, domain.Entry{Value: v, Unit: "kg"})
	}
	return out
}

func TestStatsOf(t *testing.T) {
	s := domain.StatsOf(entries(70.0, 72.5, 68.0))
	if s.Count != 3 {
		t.Fatalf("Count = %d; want 3", s.Count)
	}
	if s.Max == nil || *s.Max != 72.5 {
		t.Errorf("Max = %v; want 72.5", s.Max)
	}
	if s.Min == nil || *s.Min != 68.0 {
		t.Errorf("Min = %v; want 68.0", s.Min)
	}
	if s.Mean == nil || !almostEqual(*s.Mean, 70.1667, 0.0001) {
		t.Errorf("Mean = %v; want ~70.1667", s.Mean)
	}
	if got := s.MeanDisplay(); got != "70.2" {
		t.Errorf("MeanDisplay() = %q; want \"70.2\"", got)
	}
}

func TestStatsOf_Empty(t *testing.T) {
	s := domain.StatsOf(nil)
	if s.Count != 0 {
		t.Errorf("Count = %d; want 0", s.Count)
	}
	if s.Max != nil || s.Min != nil || s.Mean != nil {
		t.Errorf("expected absent max/min/mean, got %v %v %v", s.Max, s.Min, s.Mean)
	}
	if s.MeanDisplay() != "" {
		t.Errorf("MeanDisplay() = %q; want empty", s.MeanDisplay())
	}
}

func TestStatsOf_ZeroIsAValue(t *testing.T) {
	s := domain.StatsOf(entries(0))
	if s.Max == nil || *s.Max != 0 || s.Min == nil || *s.Min != 0 || s.Mean == nil || *s.Mean != 0 {
		t.Fatalf("expected present zero stats, got %+v", s)
	}
}

func TestStatsOf_Negative(t *testing.T) {
	s := domain.StatsOf(entries(-3, -1, -2))
	if *s.Max != -1 || *s.Min != -3 || *s.Mean != -2 {
		t.Fatalf("unexpected stats %v %v %v", *s.Max, *s.Min, *s.Mean)
	}
}

func TestStatsOf_MeanUsesUnroundedValues(t *testing.T) {
	// Rounding each value first would give (0.3+0.3+0.2)/3 = 0.27 -> "0.3".
	s := domain.StatsOf(entries(0.26, 0.26, 0.17))
	if !almostEqual(*s.Mean, 0.23, 1e-9) {
		t.Fatalf("Mean = %v; want 0.23", *s.Mean)
	}
	if s.MeanDisplay() != "0.2" {
		t.Fatalf("MeanDisplay() = %q; want 0.2", s.MeanDisplay())
	}
	again := domain.StatsOf(entries(0.26, 0.26, 0.17))
	if *again.Mean != *s.Mean {
		t.Fatal("repeated aggregation drifted")
	}
}

func TestRoundTo(t *testing.T) {
	tests := []struct {
		name   string
		value  float64
		places int
		want   float64
	}{
		{"one place up", 70.1667, 1, 70.2},
		{"one place down", 70.14, 1, 70.1},
		{"half away from zero", 0.25, 1, 0.3},
		{"negative", -1.25, 1, -1.3},
		{"zero places", 2.5, 0, 3},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := domain.RoundTo(tc.value, tc.places)
			if !almostEqual(got, tc.want, 1e-9) {
				t.Errorf("RoundTo(%v, %d) = %v; want %v", tc.value, tc.places, got, tc.want)
			}
		})
	}
}
