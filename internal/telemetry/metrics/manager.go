// Package metrics exposes Prometheus instrumentation for the service.
package metrics

import (
	"bodymetrics/internal/domain"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager holds the service's Prometheus collectors.
type Manager struct {
	// counters
	CounterEntriesAppended *prometheus.CounterVec
	CounterAppendRejected  *prometheus.CounterVec
	CounterStorageFailures *prometheus.CounterVec
	CounterRequests        *prometheus.CounterVec

	// histograms
	HistogramRequestDuration *prometheus.HistogramVec
}

// NewTestManagerAndRegistry returns a Manager bound to a fresh registry.
func NewTestManagerAndRegistry() (*Manager, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return NewManager("bodymetrics", "test", reg), reg
}

// NewManager registers every collector with reg.
func NewManager(namespace, subsystem string, reg prometheus.Registerer) *Manager {
	factory := promauto.With(reg)

	return &Manager{
		CounterEntriesAppended: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "entries_appended_total",
			Help:      "The total number of appended metric entries",
		}, []string{"metric"}),
		CounterAppendRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "append_rejected_total",
			Help:      "The total number of appends rejected by validation",
		}, []string{"reason"}),
		CounterStorageFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "storage_failures_total",
			Help:      "The total number of failed snapshot loads and saves",
		}, []string{"op"}),
		CounterRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "request",
			Help:      "The total number of incoming requests",
		}, []string{"method", "status"}),
		HistogramRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
	}
}

// EntryAppended implements app.Recorder.
func (m *Manager) EntryAppended(key domain.MetricTypeKey) {
	m.CounterEntriesAppended.WithLabelValues(string(key)).Inc()
}

// AppendRejected implements app.Recorder.
func (m *Manager) AppendRejected(reason string) {
	m.CounterAppendRejected.WithLabelValues(reason).Inc()
}

// StorageFailed implements app.Recorder.
func (m *Manager) StorageFailed(op string) {
	m.CounterStorageFailures.WithLabelValues(op).Inc()
}
