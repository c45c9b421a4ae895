package kafka

import "time"

// Defaults applied by NewPublisher for zero values.
const (
	DefaultTopic        = "todo-events"
	DefaultRequiredAcks = -1
	DefaultMaxAttempts  = 3
	DefaultWriteTimeout = 10 * time.Second
	DefaultBatchSize    = 100
	DefaultBatchTimeout = 10 * time.Millisecond
)

// Config controls publishing of todo change events.
type Config struct {
	// Enabled turns publishing on. When false the application uses a
	// publisher that drops every event.
	Enabled bool `envconfig:"KAFKA_ENABLED" default:"false"`

	// Brokers is a comma separated list in the environment.
	Brokers []string `envconfig:"KAFKA_BROKERS" default:"localhost:9092"`
	Topic   string   `envconfig:"KAFKA_TOPIC" default:"todo-events"`

	// RequiredAcks: -1 all replicas, 0 none, 1 leader only.
	RequiredAcks int           `envconfig:"KAFKA_REQUIRED_ACKS" default:"-1"`
	MaxAttempts  int           `envconfig:"KAFKA_MAX_ATTEMPTS" default:"3"`
	WriteTimeout time.Duration `envconfig:"KAFKA_WRITE_TIMEOUT" default:"10s"`

	// Async makes Publish return before the broker acknowledges the batch.
	// Delivery errors are then only logged.
	Async        bool          `envconfig:"KAFKA_ASYNC" default:"false"`
	BatchSize    int           `envconfig:"KAFKA_BATCH_SIZE" default:"100"`
	BatchTimeout time.Duration `envconfig:"KAFKA_BATCH_TIMEOUT" default:"10ms"`

	// CompressionCodec is one of gzip, snappy, lz4, zstd or empty for none.
	CompressionCodec string `envconfig:"KAFKA_COMPRESSION" default:""`

	TLS  TLSConfig
	SASL SASLConfig
}

// TLSConfig configures TLS towards the brokers.
type TLSConfig struct {
	Enabled            bool   `envconfig:"KAFKA_TLS_ENABLED" default:"false"`
	CACertPath         string `envconfig:"KAFKA_TLS_CA_CERT"`
	ClientCertPath     string `envconfig:"KAFKA_TLS_CLIENT_CERT"`
	ClientKeyPath      string `envconfig:"KAFKA_TLS_CLIENT_KEY"`
	InsecureSkipVerify bool   `envconfig:"KAFKA_TLS_INSECURE_SKIP_VERIFY" default:"false"`
}

// SASLConfig configures SASL authentication.
type SASLConfig struct {
	Enabled bool `envconfig:"KAFKA_SASL_ENABLED" default:"false"`
	// Mechanism is PLAIN, SCRAM-SHA-256 or SCRAM-SHA-512.
	Mechanism string `envconfig:"KAFKA_SASL_MECHANISM" default:"PLAIN"`
	Username  string `envconfig:"KAFKA_SASL_USERNAME"`
	Password  string `envconfig:"KAFKA_SASL_PASSWORD"`
}
