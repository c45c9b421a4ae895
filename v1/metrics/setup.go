package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns an isolated Prometheus registry, the built-in service metrics
// and the HTTP server exposing them.
type Metrics struct {
	// Server serves /metrics; its lifecycle is managed by FXModule.
	Server *http.Server

	// Registry holds every metric of this instance. It is not the global
	// prometheus.DefaultRegisterer, so several instances can coexist in tests.
	Registry *prometheus.Registry

	registerer prometheus.Registerer
	namespace  string

	requestsTotal      *prometheus.CounterVec
	requestDuration    *prometheus.HistogramVec
	filterCompilations *prometheus.CounterVec
	filterSkippedTotal *prometheus.CounterVec
	storedTodos        prometheus.Gauge
}

// NewMetrics creates the registry, registers the built-in metrics and prepares
// (but does not start) the scrape server.
//
// Example:
//
//	m := metrics.NewMetrics(metrics.Config{Address: ":9090", ServiceName: "todoapi"})
//	m.IncrementRequests("GET", "/api/v1/todos", "200")
//	defer m.RecordRequestDuration(time.Now(), "/api/v1/todos")
func NewMetrics(cfg Config) *Metrics {
	registry := prometheus.NewRegistry()

	wrappedRegistry := prometheus.WrapRegistererWith(
		prometheus.Labels{"service": cfg.ServiceName},
		registry,
	)

	m := &Metrics{
		Registry:   registry,
		registerer: wrappedRegistry,
		namespace:  cfg.Namespace,
	}

	m.requestsTotal = createCounterVec(cfg.Namespace, "requests_total", "Total number of processed HTTP requests", []string{"method", "route", "status"})
	m.requestDuration = createHistogramVec(cfg.Namespace, "request_duration_seconds", "Duration of HTTP requests in seconds", []string{"route"}, prometheus.DefBuckets)
	m.filterCompilations = createCounterVec(cfg.Namespace, "todo_filter_compilations_total", "Filter compilations by outcome", []string{"result"})
	m.filterSkippedTotal = createCounterVec(cfg.Namespace, "todo_filter_skipped_total", "Filter clauses ignored during compilation", []string{"reason"})
	m.storedTodos = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: cfg.Namespace,
		Name:      "todos_stored",
		Help:      "Number of todos held by the repository",
	})

	wrappedRegistry.MustRegister(
		m.requestsTotal,
		m.requestDuration,
		m.filterCompilations,
		m.filterSkippedTotal,
		m.storedTodos,
	)

	if cfg.EnableDefaultCollectors {
		wrappedRegistry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			collectors.NewBuildInfoCollector(),
		)
	}

	address := cfg.Address
	if address == "" {
		address = DefaultMetricsAddress
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}))

	m.Server = &http.Server{
		Addr:    address,
		Handler: mux,
	}
	return m
}
