package metrics

// DefaultMetricsAddress is used when Config.Address is empty.
const DefaultMetricsAddress = ":9090"

// Config defines how metrics are exposed.
type Config struct {
	// Address of the Prometheus scrape endpoint, e.g. ":9090" or "127.0.0.1:9100".
	Address string `envconfig:"METRICS_ADDRESS" default:":9090"`

	// EnableDefaultCollectors registers the Go runtime, process and build info collectors.
	EnableDefaultCollectors bool `envconfig:"METRICS_ENABLE_DEFAULT_COLLECTORS" default:"true"`

	// Namespace prefixes every metric name, e.g. "todo" -> "todo_requests_total".
	Namespace string `envconfig:"METRICS_NAMESPACE"`

	// ServiceName is attached to every metric as the "service" label.
	ServiceName string `envconfig:"METRICS_SERVICE_NAME" default:"todoapi"`
}
