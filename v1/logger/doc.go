// Package logger provides structured logging on top of go.uber.org/zap.
//
// Every entry is JSON with an ISO8601 timestamp, the caller, the process id and
// the service name. Messages take an optional error and any number of field maps:
//
//	log := logger.NewLoggerClient(logger.Config{Level: logger.Info, ServiceName: "todoapi"})
//	log.Info("todo created", nil, map[string]interface{}{"id": 42})
//	log.Error("failed to list todos", err, map[string]interface{}{"driver": "postgres"})
//
// # Tracing Integration
//
// With EnableTracing set, the *WithContext variants read the OpenTelemetry span
// from the context and add trace_id and span_id so logs and traces can be joined:
//
//	ctx, span := tracer.StartSpan(ctx, "todo.query")
//	defer span.End()
//	log.DebugWithContext(ctx, "filter compiled", nil, map[string]interface{}{"conditions": 3})
//
// # Configuration
//
//	ZAP_LOGGER_LEVEL=debug          # debug, info, warning, error
//	SERVICE_NAME=todoapi            # value of the "service" field
//	LOGGER_ENABLE_TRACING=true      # add trace_id/span_id in *WithContext methods
//
// # FX Module Integration
//
// FXModule provides *Logger from a logger.Config and syncs it on shutdown.
//
// Logger is safe for concurrent use.
package logger
