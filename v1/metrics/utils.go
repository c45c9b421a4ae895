package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// IncrementRequests counts one handled HTTP request.
func (m *Metrics) IncrementRequests(method, route, status string) {
	m.requestsTotal.WithLabelValues(method, route, status).Inc()
}

// RecordRequestDuration observes the time elapsed since start for route.
//
//	defer m.RecordRequestDuration(time.Now(), "/api/v1/todos/query")
func (m *Metrics) RecordRequestDuration(start time.Time, route string) {
	m.requestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
}

// RecordFilterCompilation counts a filter compilation; result is "ok",
// "rejected" or "error".
func (m *Metrics) RecordFilterCompilation(result string) {
	m.filterCompilations.WithLabelValues(result).Inc()
}

// RecordFilterSkipped counts n ignored clauses for reason.
func (m *Metrics) RecordFilterSkipped(reason string, n int) {
	if n <= 0 {
		return
	}
	m.filterSkippedTotal.WithLabelValues(reason).Add(float64(n))
}

// SetStoredTodos reports the number of todos held by the repository.
func (m *Metrics) SetStoredTodos(n int) {
	m.storedTodos.Set(float64(n))
}

// CreateCounter registers a new counter vector with the service label applied.
func (m *Metrics) CreateCounter(name, help string, labels []string) *prometheus.CounterVec {
	counter := createCounterVec(m.namespace, name, help, labels)
	m.registerer.MustRegister(counter)
	return counter
}

// CreateHistogram registers a new histogram vector with the service label applied.
func (m *Metrics) CreateHistogram(name, help string, labels []string, buckets []float64) *prometheus.HistogramVec {
	hist := createHistogramVec(m.namespace, name, help, labels, buckets)
	m.registerer.MustRegister(hist)
	return hist
}

// CreateGauge registers a new gauge vector with the service label applied.
func (m *Metrics) CreateGauge(name, help string, labels []string) *prometheus.GaugeVec {
	gauge := prometheus.NewGaugeVec(prometheus.GaugeOpts{Namespace: m.namespace, Name: name, Help: help}, labels)
	m.registerer.MustRegister(gauge)
	return gauge
}

func createCounterVec(namespace, name, help string, labels []string) *prometheus.CounterVec {
	return prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
		},
		labels,
	)
}

func createHistogramVec(namespace, name, help string, labels []string, buckets []float64) *prometheus.HistogramVec {
	return prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
			Buckets:   buckets,
		},
		labels,
	)
}
