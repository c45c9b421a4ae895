package tracer

// Config configures the OpenTelemetry tracer provider.
type Config struct {
	ServiceName string `envconfig:"TRACER_SERVICE_NAME" default:"todoapi"`
	AppEnv      string `envconfig:"APP_ENV" default:"development"`

	// EnableExport sends spans to an OTLP/HTTP collector. The endpoint is read by the
	// exporter itself from OTEL_EXPORTER_OTLP_ENDPOINT.
	EnableExport bool `envconfig:"TRACER_ENABLE_EXPORT" default:"false"`
}
