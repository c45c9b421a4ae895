// Package metrics exposes Prometheus metrics for the todo service.
//
// NewMetrics builds an isolated registry with a constant "service" label and the
// metrics every instance records:
//   - requests_total{method,route,status}
//   - request_duration_seconds{route}
//   - todo_filter_compilations_total{result}
//   - todo_filter_skipped_total{reason}
//   - todos_stored
//
// todos_stored follows the active repository: the in-memory store updates it
// on every change and the SQL store after each create and delete.
//
// # Usage
//
//	m := metrics.NewMetrics(metrics.Config{
//		Address:     ":9090",
//		Namespace:   "todo",
//		ServiceName: "todoapi",
//	})
//
//	start := time.Now()
//	// handle the request
//	m.IncrementRequests("GET", "/api/v1/todos", "200")
//	m.RecordRequestDuration(start, "/api/v1/todos")
//
// Further metrics can be registered with CreateCounter, CreateHistogram and CreateGauge:
//
//	published := m.CreateCounter("events_published_total", "Published todo events", []string{"sink"})
//	published.WithLabelValues("kafka").Inc()
//
// With Namespace "todo" the counter is exported as todo_events_published_total.
//
// # FX Integration
//
// FXModule provides *Metrics and MetricsCollector and serves /metrics on
// METRICS_ADDRESS (default ":9090") for the lifetime of the application.
//
//	METRICS_ADDRESS=:9090
//	METRICS_NAMESPACE=todo
//	METRICS_SERVICE_NAME=todoapi
//	METRICS_ENABLE_DEFAULT_COLLECTORS=true
//
// Packages that record metrics declare their own small interface (for example
// todo.Metrics) and receive *Metrics through it.
package metrics
