package rabbit

import (
	"context"
	"time"
)

// Config defines how todo events are published to RabbitMQ.
type Config struct {
	// Enabled turns publishing to RabbitMQ on.
	Enabled bool `envconfig:"RABBITMQ_ENABLED" default:"false"`

	// Connection contains the settings needed to establish a connection to the RabbitMQ server
	Connection Connection

	// Exchange receives every event; the routing key is the event type,
	// e.g. todo.created. Consumers bind their own queues.
	Exchange     string `envconfig:"RABBITMQ_EXCHANGE" default:"todo-events"`
	ExchangeType string `envconfig:"RABBITMQ_EXCHANGE_TYPE" default:"topic"`

	// ReconnectDelay is the wait between reconnection attempts.
	ReconnectDelay time.Duration `envconfig:"RABBITMQ_RECONNECT_DELAY" default:"1s"`
}

// Connection contains the configuration parameters needed to establish
// a connection to a RabbitMQ server, including authentication and TLS settings.
type Connection struct {
	Host     string `envconfig:"RABBITMQ_HOST" default:"localhost"`
	Port     uint   `envconfig:"RABBITMQ_PORT" default:"5672"`
	User     string `envconfig:"RABBITMQ_USER" default:"guest"`
	Password string `envconfig:"RABBITMQ_PASSWORD" default:"guest"`

	// IsSSLEnabled switches to amqps.
	IsSSLEnabled bool `envconfig:"RABBITMQ_SSL_ENABLED" default:"false"`

	// UseCert sends a client certificate for mutual TLS. Requires IsSSLEnabled.
	UseCert        bool   `envconfig:"RABBITMQ_USE_CERT" default:"false"`
	CACertPath     string `envconfig:"RABBITMQ_CA_CERT"`
	ClientCertPath string `envconfig:"RABBITMQ_CLIENT_CERT"`
	ClientKeyPath  string `envconfig:"RABBITMQ_CLIENT_KEY"`

	// ServerName should match a CN or SAN in the server's certificate
	ServerName string `envconfig:"RABBITMQ_SERVER_NAME"`
}

// Logger is an interface that matches the logger.Logger context-aware methods.
type Logger interface {
	InfoWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
	WarnWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
	ErrorWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
}

// Propagator serialises the trace context of ctx. *tracer.Tracer satisfies it.
type Propagator interface {
	GetCarrier(ctx context.Context) map[string]string
}
