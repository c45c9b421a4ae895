package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// MetricsCollector is the contract *Metrics fulfils. Consumers that only record
// metrics should depend on this interface.
type MetricsCollector interface {
	IncrementRequests(method, route, status string)
	RecordRequestDuration(start time.Time, route string)

	RecordFilterCompilation(result string)
	RecordFilterSkipped(reason string, n int)
	SetStoredTodos(n int)

	CreateCounter(name, help string, labels []string) *prometheus.CounterVec
	CreateHistogram(name, help string, labels []string, buckets []float64) *prometheus.HistogramVec
	CreateGauge(name, help string, labels []string) *prometheus.GaugeVec
}

var _ MetricsCollector = (*Metrics)(nil)
