package postgres

import "time"

// Config holds the connection settings for PostgreSQL.
type Config struct {
	Connection        Connection
	ConnectionDetails ConnectionDetails

	// DSN, when set, is used verbatim instead of the Connection fields.
	// Accepts both key=value and postgres:// URL forms.
	DSN string `envconfig:"DB_CONNECTION_STRING"`
}

// Connection describes where the server is and how to authenticate.
type Connection struct {
	Host     string `envconfig:"POSTGRES_HOST" default:"localhost"`
	Port     string `envconfig:"POSTGRES_PORT" default:"5432"`
	User     string `envconfig:"POSTGRES_USER" default:"postgres"`
	Password string `envconfig:"POSTGRES_PASSWORD"`
	DbName   string `envconfig:"POSTGRES_DB" default:"todos"`
	SSLMode  string `envconfig:"POSTGRES_SSLMODE" default:"disable"`
}

// ConnectionDetails tunes the pool and the health monitor. Zero values fall
// back to the package defaults.
type ConnectionDetails struct {
	MaxOpenConns        int           `envconfig:"POSTGRES_MAX_OPEN_CONNS" default:"50"`
	MaxIdleConns        int           `envconfig:"POSTGRES_MAX_IDLE_CONNS" default:"25"`
	ConnMaxLifetime     time.Duration `envconfig:"POSTGRES_CONN_MAX_LIFETIME" default:"1m"`
	HealthCheckInterval time.Duration `envconfig:"POSTGRES_HEALTH_CHECK_INTERVAL" default:"10s"`
}

const (
	defaultMaxOpenConns        = 50
	defaultMaxIdleConns        = 25
	defaultConnMaxLifetime     = time.Minute
	defaultHealthCheckInterval = 10 * time.Second
	healthCheckTimeout         = 5 * time.Second
	reconnectBackoff           = time.Second
)
