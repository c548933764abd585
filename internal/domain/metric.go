// Package domain contains the core business entities and interfaces.
package domain

import (
	"context"
	"time"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// MetricTypeKey identifies one metric type from the catalog.
type MetricTypeKey string

// Entry is one recorded observation for a metric type. Entries are never
// mutated once created.
type Entry struct {
	Value      float64   `json:"value"`
	Unit       string    `json:"unit"`
	Date       string    `json:"date"`
	Time       string    `json:"time"`
	RecordedAt time.Time `json:"recordedAt,omitzero"`
}

// NewEntry builds an entry captured at t, formatting date and time in t's
// location.
func NewEntry(value float64, unit string, t time.Time) Entry {
	return Entry{
		Value:      value,
		Unit:       unit,
		Date:       t.Format(dateLayout),
		Time:       t.Format(timeLayout),
		RecordedAt: t.UTC(),
	}
}

// Metric is the per-type aggregate. Entries are ordered newest-first by
// insertion, never by timestamp.
type Metric struct {
	Entries      []Entry  `json:"entries"`
	CurrentValue *float64 `json:"currentValue"`
	LastUpdated  string   `json:"lastUpdated,omitempty"`
}

// Prepend returns a new Metric with e at the head and the derived fields
// recomputed. m itself is left untouched.
func (m Metric) Prepend(e Entry) Metric {
	entries := make([]Entry, 0, len(m.Entries)+1)
	entries = append(entries, e)
	entries = append(entries, m.Entries...)
	return Metric{Entries: entries}.Derive()
}

// Derive recomputes CurrentValue and LastUpdated from the head entry.
func (m Metric) Derive() Metric {
	if len(m.Entries) == 0 {
		m.CurrentValue = nil
		m.LastUpdated = ""
		return m
	}
	head := m.Entries[0]
	v := head.Value
	m.CurrentValue = &v
	m.LastUpdated = head.Date + " " + head.Time
	return m
}

// Latest returns the head entry, if any.
func (m Metric) Latest() (Entry, bool) {
	if len(m.Entries) == 0 {
		return Entry{}, false
	}
	return m.Entries[0], true
}

// Copy returns a deep copy of m that shares no memory with it.
func (m Metric) Copy() Metric {
	out := Metric{LastUpdated: m.LastUpdated}
	if m.Entries != nil {
		out.Entries = make([]Entry, len(m.Entries))
		copy(out.Entries, m.Entries)
	}
	if m.CurrentValue != nil {
		v := *m.CurrentValue
		out.CurrentValue = &v
	}
	return out
}

// MetricData maps every recorded metric type to its Metric. A missing key
// means the metric has never been recorded.
type MetricData map[MetricTypeKey]Metric

// Clone returns a shallow copy of d. Entry slices are shared.
func (d MetricData) Clone() MetricData {
	out := make(MetricData, len(d))
	for k, m := range d {
		out[k] = m
	}
	return out
}

// Detach returns a deep copy of d. Edits to the result never reach d.
func (d MetricData) Detach() MetricData {
	out := make(MetricData, len(d))
	for k, m := range d {
		out[k] = m.Copy()
	}
	return out
}

// SnapshotRepository is the port for whole-document persistence of
// MetricData. Save always overwrites everything previously stored.
type SnapshotRepository interface {
	Load(ctx context.Context) (MetricData, error)
	Save(ctx context.Context, data MetricData) error
}
