package logger

// Supported values for Config.Level.
const (
	Debug   = "debug"
	Info    = "info"
	Warning = "warning"
	Error   = "error"
)

// Config controls the zap logger built by NewLoggerClient.
type Config struct {
	// Level is one of debug, info, warning or error. Anything else falls back to info.
	Level string `envconfig:"ZAP_LOGGER_LEVEL" default:"info"`

	// ServiceName is attached to every entry as the "service" field.
	ServiceName string `envconfig:"SERVICE_NAME" default:"todoapi"`

	// EnableTracing adds trace_id and span_id to entries logged through the *WithContext methods.
	EnableTracing bool `envconfig:"LOGGER_ENABLE_TRACING" default:"true"`
}
