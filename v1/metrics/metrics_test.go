package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_BuiltIns(t *testing.T) {
	m := NewMetrics(Config{ServiceName: "todoapi-test"})

	m.IncrementRequests("GET", "/api/v1/todos", "200")
	m.IncrementRequests("GET", "/api/v1/todos", "200")
	m.RecordRequestDuration(time.Now().Add(-time.Second), "/api/v1/todos")
	m.RecordFilterCompilation("rejected")
	m.RecordFilterSkipped("unknown field", 2)
	m.RecordFilterSkipped("unknown field", 0)
	m.SetStoredTodos(3)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues("GET", "/api/v1/todos", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.filterCompilations.WithLabelValues("rejected")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.filterSkippedTotal.WithLabelValues("unknown field")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.storedTodos))
	assert.Equal(t, 1, testutil.CollectAndCount(m.requestDuration))
	assert.Equal(t, DefaultMetricsAddress, m.Server.Addr)
}

func TestMetrics_ServiceLabelAndNamespace(t *testing.T) {
	m := NewMetrics(Config{ServiceName: "svc", Namespace: "todo", Address: ":0"})
	m.IncrementRequests("POST", "/api/v1/todos", "201")

	expected := `
# HELP todo_requests_total Total number of processed HTTP requests
# TYPE todo_requests_total counter
todo_requests_total{method="POST",route="/api/v1/todos",service="svc",status="201"} 1
`
	require.NoError(t, testutil.GatherAndCompare(m.Registry, strings.NewReader(expected), "todo_requests_total"))
}

func TestMetrics_CustomCollectors(t *testing.T) {
	m := NewMetrics(Config{ServiceName: "svc"})

	events := m.CreateCounter("events_published_total", "Published events", []string{"type"})
	events.WithLabelValues("created").Inc()
	m.CreateHistogram("publish_seconds", "Publish latency", nil, []float64{0.1, 1}).WithLabelValues().Observe(0.2)
	m.CreateGauge("backlog", "Backlog", []string{"queue"}).WithLabelValues("q").Set(4)

	count, err := testutil.GatherAndCount(m.Registry, "events_published_total", "publish_seconds", "backlog")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestMetrics_Handler(t *testing.T) {
	m := NewMetrics(Config{ServiceName: "svc", EnableDefaultCollectors: true})
	m.RecordFilterCompilation("ok")

	rec := httptest.NewRecorder()
	m.Server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `todo_filter_compilations_total{result="ok",service="svc"} 1`)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
