// Package rabbit publishes todo change events to a RabbitMQ exchange.
//
// Each event is a persistent JSON message routed by its type (todo.created,
// todo.updated, todo.deleted), so consumers can bind a queue with a pattern
// such as "todo.*". Publishing waits for the broker's confirmation.
//
// The connection is watched and re-established after failures; plain AMQP,
// AMQPS, and AMQPS with client certificates are supported.
//
// # Architecture
//
// The package follows the "accept interfaces, return structs" pattern:
//   - Publisher struct: concrete implementation of todo.Publisher
//   - NewPublisher constructor: returns *Publisher
//   - Logger and Propagator interfaces: the narrow slices of logger.Logger
//     and tracer.Tracer the publisher needs
//   - FX module: contributes the publisher to the todo_publishers group
//
// # Direct Usage (Without FX)
//
//	import (
//		"context"
//
//		"github.com/Aleph-Alpha/todoapi/v1/rabbit"
//		"github.com/Aleph-Alpha/todoapi/v1/todo"
//	)
//
//	pub, err := rabbit.NewPublisher(rabbit.Config{
//		Enabled: true,
//		Connection: rabbit.Connection{
//			Host:     "localhost",
//			Port:     5672,
//			User:     "guest",
//			Password: "guest",
//		},
//		Exchange:     "todo-events",
//		ExchangeType: "topic",
//	}, log, tr)
//	if err != nil {
//		return err
//	}
//	go pub.RetryConnection()
//	defer pub.Close()
//
//	err = pub.Publish(ctx, todo.Event{Type: todo.EventCreated, ID: 1, Todo: &t})
//
// The propagator may be nil, in which case no trace headers are attached.
//
// # FX Integration
//
//	app := fx.New(
//		logger.FXModule,
//		tracer.FXModule,
//		rabbit.FXModule, // contributes to the todo_publishers group
//		todo.FXModule,
//	)
//
// When RABBITMQ_ENABLED is false the module contributes a todo.NopPublisher,
// so the rest of the graph does not change. When enabled, the lifecycle hook
// runs RetryConnection in the background and Close waits for it on stop.
//
// # Message Format
//
// Every message carries:
//   - Body: the JSON encoded todo.Event
//   - Type and routing key: the event type, e.g. "todo.updated"
//   - MessageId: "<type>:<id>:<occurred-at-unix-nanos>", usable for deduplication
//   - Timestamp: the time the change was committed
//   - Headers: "todo-id" plus the trace context from the propagator
//
// Example consumer binding with the amqp091 client:
//
//	q, _ := ch.QueueDeclare("todo-audit", true, false, false, false, nil)
//	_ = ch.QueueBind(q.Name, "todo.*", "todo-events", false, nil)
//
// # Error Handling
//
// Publish returns:
//   - ErrClosed after Close has been called
//   - ErrNacked when the broker refuses the message
//   - a wrapped amqp error when the channel rejects the publish
//
// The todo service logs publish failures and never rolls back the change
// that produced the event.
//
// # Configuration
//
// Connection settings are read from the environment:
//
//	RABBITMQ_ENABLED=true
//	RABBITMQ_HOST=localhost
//	RABBITMQ_PORT=5672
//	RABBITMQ_USER=guest
//	RABBITMQ_PASSWORD=guest
//	RABBITMQ_EXCHANGE=todo-events
//	RABBITMQ_EXCHANGE_TYPE=topic
//	RABBITMQ_RECONNECT_DELAY=1s
//
// For TLS set RABBITMQ_SSL_ENABLED and, for client certificates,
// RABBITMQ_USE_CERT together with RABBITMQ_CA_CERT, RABBITMQ_CLIENT_CERT and
// RABBITMQ_CLIENT_KEY. RABBITMQ_SERVER_NAME overrides the name checked against
// the server certificate.
//
// # Thread Safety
//
// Publish may be called from any number of goroutines. Reconnection swaps the
// channel under a write lock, so in-flight publishes finish on the old channel
// or fail and are logged by the caller.
package rabbit
