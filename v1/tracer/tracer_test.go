package tracer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

type discardLogger struct{}

func (discardLogger) Info(string, error, ...map[string]interface{})  {}
func (discardLogger) Error(string, error, ...map[string]interface{}) {}

func newRecordingTracer() (*Tracer, *tracetest.SpanRecorder) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	return &Tracer{tracer: tp, logger: discardLogger{}}, recorder
}

func TestNewClient_WithoutExport(t *testing.T) {
	tr, err := NewClient(Config{ServiceName: "todoapi-test", AppEnv: "test"}, discardLogger{})
	require.NoError(t, err)
	require.NotNil(t, tr)
	assert.NoError(t, tr.Shutdown(context.Background()))
}

func TestTracer_SpanLifecycle(t *testing.T) {
	tr, recorder := newRecordingTracer()

	ctx, span := tr.StartSpan(context.Background(), "todo.create")
	tr.SetAttributes(span, map[string]interface{}{"todo.id": 7, "todo.name": "milk", "ratio": 0.5, "other": []int{1}})
	tr.RecordErrorOnSpan(span, errors.New("boom"))
	span.End()

	_, child := tr.StartSpan(ctx, "child")
	child.End()

	ended := recorder.Ended()
	require.Len(t, ended, 2)
	parent := ended[0]
	assert.Equal(t, "todo.create", parent.Name())
	assert.Equal(t, codes.Error, parent.Status().Code)
	assert.Len(t, parent.Attributes(), 4)
	assert.Equal(t, parent.SpanContext().TraceID(), ended[1].SpanContext().TraceID())
}

func TestTracer_CarrierRoundTrip(t *testing.T) {
	tr, _ := newRecordingTracer()

	ctx, span := tr.StartSpan(context.Background(), "producer")
	defer span.End()

	carrier := tr.GetCarrier(ctx)
	require.Contains(t, carrier, "traceparent")

	restored := tr.SetCarrierOnContext(context.Background(), carrier)
	_, consumer := tr.StartSpan(restored, "consumer")
	defer consumer.End()

	assert.Equal(t, span.SpanContext().TraceID(), consumer.SpanContext().TraceID())
}
