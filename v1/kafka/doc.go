// Package kafka publishes todo change events to Apache Kafka.
//
// Every successful create, update and delete produces one JSON message on the
// configured topic:
//
//	{"type":"todo.updated","id":7,"todo":{...},"occurredAt":"2024-03-01T12:00:00Z"}
//
// The message key is the todo id, so events for one todo keep their order.
// Headers carry the event type and, when a Propagator is configured, the W3C
// trace context of the request that caused the change.
//
// Publishing is off unless KAFKA_ENABLED is set. TLS, SASL (PLAIN and SCRAM)
// and compression are configured through Config.
//
// Basic Usage:
//
//	pub, err := kafka.NewPublisher(kafka.Config{
//		Brokers: []string{"localhost:9092"},
//		Topic:   "todo-events",
//	}, log, tracer)
//	if err != nil {
//		return err
//	}
//	defer pub.Close()
//
//	svc := todo.NewService(repo, pub, log, tracer, metrics)
//
// FX Integration:
//
//	app := fx.New(
//		logger.FXModule,
//		tracer.FXModule,
//		kafka.FXModule, // contributes to the todo_publishers group
//		todo.FXModule,
//	)
//
// With KAFKA_ENABLED unset the module contributes a todo.NopPublisher. When
// enabled, the writer is flushed and closed in the OnStop hook.
//
// # Message Format
//
//   - Key: the decimal todo id
//   - Value: the JSON encoded todo.Event
//   - Headers: HeaderEventType, HeaderContentType and the trace context
//
// Consumers that only care about some events can filter on the header
// without decoding the body:
//
//	for _, h := range msg.Headers {
//		if h.Key == kafka.HeaderEventType && string(h.Value) == "todo.deleted" {
//			purge(msg.Key)
//		}
//	}
//
// # Delivery
//
// By default Publish blocks until every in-sync replica has the message
// (RequiredAcks -1) and retries up to MaxAttempts times. With KAFKA_ASYNC the
// writer batches in the background and Publish returns at once; delivery
// errors then surface only in the log.
//
// Zero values in Config fall back to DefaultTopic, DefaultRequiredAcks,
// DefaultMaxAttempts, DefaultWriteTimeout, DefaultBatchSize and
// DefaultBatchTimeout.
//
// # Security
//
// TLS with an optional client certificate:
//
//	KAFKA_TLS_ENABLED=true
//	KAFKA_TLS_CA_CERT=/etc/kafka/ca.pem
//	KAFKA_TLS_CLIENT_CERT=/etc/kafka/client.pem
//	KAFKA_TLS_CLIENT_KEY=/etc/kafka/client-key.pem
//
// SASL, usually together with TLS:
//
//	KAFKA_SASL_ENABLED=true
//	KAFKA_SASL_MECHANISM=SCRAM-SHA-512
//	KAFKA_SASL_USERNAME=todo
//	KAFKA_SASL_PASSWORD=secret
//
// # Error Handling
//
// Publish returns ErrClosed after Close and wraps writer errors with the event
// type and todo id. NewPublisher fails fast on an empty broker list, an
// unknown compression codec or an unreadable certificate.
//
// # Thread Safety
//
// Publish is safe for concurrent use. Close waits for in-flight publishes and
// may be called more than once.
package kafka
