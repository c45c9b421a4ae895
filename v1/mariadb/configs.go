package mariadb

import "time"

// Config holds the connection settings for MariaDB or MySQL.
type Config struct {
	Connection        Connection
	ConnectionDetails ConnectionDetails
}

// Connection describes the server and the DSN parameters passed to the
// go-sql-driver/mysql driver.
type Connection struct {
	Host     string `envconfig:"MARIADB_HOST" default:"localhost"`
	Port     string `envconfig:"MARIADB_PORT" default:"3306"`
	User     string `envconfig:"MARIADB_USER" default:"root"`
	Password string `envconfig:"MARIADB_PASSWORD"`
	DbName   string `envconfig:"MARIADB_DB" default:"todos"`

	Charset   string `envconfig:"MARIADB_CHARSET" default:"utf8mb4"`
	ParseTime bool   `envconfig:"MARIADB_PARSE_TIME" default:"true"`
	// Loc must stay UTC; todos are stored and compared in UTC.
	Loc string `envconfig:"MARIADB_LOC" default:"UTC"`

	TLS          string `envconfig:"MARIADB_TLS"`
	Timeout      string `envconfig:"MARIADB_TIMEOUT"`
	ReadTimeout  string `envconfig:"MARIADB_READ_TIMEOUT"`
	WriteTimeout string `envconfig:"MARIADB_WRITE_TIMEOUT"`
}

// ConnectionDetails tunes the pool and the health monitor.
type ConnectionDetails struct {
	MaxOpenConns        int           `envconfig:"MARIADB_MAX_OPEN_CONNS" default:"50"`
	MaxIdleConns        int           `envconfig:"MARIADB_MAX_IDLE_CONNS" default:"25"`
	ConnMaxLifetime     time.Duration `envconfig:"MARIADB_CONN_MAX_LIFETIME" default:"1m"`
	HealthCheckInterval time.Duration `envconfig:"MARIADB_HEALTH_CHECK_INTERVAL" default:"10s"`
}

const (
	defaultCharset             = "utf8mb4"
	defaultLoc                 = "UTC"
	defaultMaxOpenConns        = 50
	defaultMaxIdleConns        = 25
	defaultConnMaxLifetime     = time.Minute
	defaultHealthCheckInterval = 10 * time.Second
	healthCheckTimeout         = 5 * time.Second
	reconnectBackoff           = time.Second
)
