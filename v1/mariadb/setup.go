package mariadb

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Aleph-Alpha/todoapi/v1/database"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Logger is the subset of the logger package this package uses.
type Logger interface {
	Info(msg string, err error, fields ...map[string]interface{})
	Warn(msg string, err error, fields ...map[string]interface{})
	Error(msg string, err error, fields ...map[string]interface{})
}

// MariaDB is a database.Client for MariaDB and MySQL. The active *gorm.DB is
// guarded by mu and replaced by RetryConnection after a failed health check.
type MariaDB struct {
	*database.GormClient

	cfg             Config
	logger          Logger
	mu              sync.RWMutex
	conn            *gorm.DB
	shutdownSignal  chan struct{}
	retryChanSignal chan error

	closeRetryChanOnce sync.Once
	closeShutdownOnce  sync.Once
}

var _ database.Client = (*MariaDB)(nil)

// NewMariaDB opens the connection pool. The monitor loops are not started.
//
// Parameters:
//   - cfg: server, DSN parameters and pool sizing
//   - logger: receives connection and reconnection messages
//
// Returns:
//   - *MariaDB: the connected client, usable as a database.Client
//   - error: if the DSN is rejected or the server cannot be reached
func NewMariaDB(cfg Config, logger Logger) (*MariaDB, error) {
	conn, err := connectToMariaDB(cfg)
	if err != nil {
		return nil, fmt.Errorf("error in connecting to MariaDB: %w", err)
	}
	logger.Info("Successfully connected to MariaDB/MySQL database", nil, map[string]interface{}{
		"target": cfg.Redacted(),
	})

	m := &MariaDB{
		cfg:             cfg,
		logger:          logger,
		conn:            conn,
		shutdownSignal:  make(chan struct{}),
		retryChanSignal: make(chan error, 1),
	}
	m.GormClient = database.NewGormClient(m.DB, m.GracefulShutdown)
	return m, nil
}

// DSNString builds a go-sql-driver/mysql DSN:
//
//	user:password@tcp(host:port)/dbname?charset=utf8mb4&parseTime=True&loc=UTC
func (c Config) DSNString() string {
	charset := c.Connection.Charset
	if charset == "" {
		charset = defaultCharset
	}
	parseTime := "True"
	if !c.Connection.ParseTime {
		parseTime = "False"
	}
	loc := c.Connection.Loc
	if loc == "" {
		loc = defaultLoc
	}

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=%s&parseTime=%s&loc=%s",
		c.Connection.User,
		c.Connection.Password,
		c.Connection.Host,
		c.Connection.Port,
		c.Connection.DbName,
		charset,
		parseTime,
		loc,
	)

	if c.Connection.TLS != "" {
		dsn += "&tls=" + c.Connection.TLS
	}
	if c.Connection.Timeout != "" {
		dsn += "&timeout=" + c.Connection.Timeout
	}
	if c.Connection.ReadTimeout != "" {
		dsn += "&readTimeout=" + c.Connection.ReadTimeout
	}
	if c.Connection.WriteTimeout != "" {
		dsn += "&writeTimeout=" + c.Connection.WriteTimeout
	}
	return dsn
}

// Redacted returns host:port/dbname for logs.
func (c Config) Redacted() string {
	return fmt.Sprintf("%s:%s/%s", c.Connection.Host, c.Connection.Port, c.Connection.DbName)
}

// datetimePrecision keeps the microseconds todo timestamps carry; the driver
// default is milliseconds.
var datetimePrecision = 6

func connectToMariaDB(cfg Config) (*gorm.DB, error) {
	db, err := gorm.Open(
		mysql.New(mysql.Config{
			DSN:                      cfg.DSNString(),
			DefaultDatetimePrecision: &datetimePrecision,
		}),
		&gorm.Config{
			TranslateError: true,
			Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MariaDB/MySQL database %s: %w", cfg.Redacted(), err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get MariaDB/MySQL database instance: %w", err)
	}

	maxOpen := cfg.ConnectionDetails.MaxOpenConns
	if maxOpen <= 0 {
		maxOpen = defaultMaxOpenConns
	}
	maxIdle := cfg.ConnectionDetails.MaxIdleConns
	if maxIdle <= 0 {
		maxIdle = defaultMaxIdleConns
	}
	maxLifetime := cfg.ConnectionDetails.ConnMaxLifetime
	if maxLifetime <= 0 {
		maxLifetime = defaultConnMaxLifetime
	}

	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetMaxIdleConns(maxIdle)
	sqlDB.SetConnMaxLifetime(maxLifetime)

	return db, nil
}

// DB returns the current gorm handle.
func (m *MariaDB) DB() *gorm.DB {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.conn
}

// RetryConnection reconnects whenever MonitorConnection reports a failed
// health check. It returns on shutdown or when ctx is done.
func (m *MariaDB) RetryConnection(ctx context.Context) {
outerLoop:
	for {
		select {
		case <-m.shutdownSignal:
			m.logger.Info("Stopping RetryConnection loop due to shutdown signal", nil)
			return
		case <-ctx.Done():
			return
		case cause, ok := <-m.retryChanSignal:
			if !ok {
				return
			}
			m.logger.Warn("MariaDB connection lost, reconnecting", cause)
		innerLoop:
			for {
				select {
				case <-m.shutdownSignal:
					return
				case <-ctx.Done():
					return
				default:
					newConn, err := connectToMariaDB(m.cfg)
					if err != nil {
						m.logger.Error("MariaDB reconnection failed", err)
						time.Sleep(reconnectBackoff)
						continue innerLoop
					}
					m.mu.Lock()
					old := m.conn
					m.conn = newConn
					m.mu.Unlock()
					if old != nil {
						if sqlDB, err := old.DB(); err == nil {
							_ = sqlDB.Close()
						}
					}
					m.logger.Info("Successfully reconnected to MariaDB/MySQL database", nil)
					continue outerLoop
				}
			}
		}
	}
}

// MonitorConnection runs healthCheck on every tick and signals
// RetryConnection on failure.
func (m *MariaDB) MonitorConnection(ctx context.Context) {
	defer m.closeRetryChanOnce.Do(func() {
		close(m.retryChanSignal)
	})

	interval := m.cfg.ConnectionDetails.HealthCheckInterval
	if interval <= 0 {
		interval = defaultHealthCheckInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.shutdownSignal:
			m.logger.Info("Stopping MonitorConnection loop due to shutdown signal", nil)
			return
		case <-ticker.C:
			if err := m.healthCheck(); err != nil {
				select {
				case m.retryChanSignal <- err:
				default:
				}
			}
		case <-ctx.Done():
			return
		}
	}
}

func (m *MariaDB) healthCheck() error {
	conn := m.DB()
	if conn == nil {
		return fmt.Errorf("database client is not initialized")
	}

	db, err := conn.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance during health check: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), healthCheckTimeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed during health check: %w", err)
	}
	return nil
}

// GracefulShutdown stops the monitor loops and closes the pool. Safe to call
// more than once.
func (m *MariaDB) GracefulShutdown() error {
	m.closeShutdownOnce.Do(func() {
		close(m.shutdownSignal)
	})

	conn := m.DB()
	if conn == nil {
		return nil
	}
	sqlDB, err := conn.DB()
	if err != nil {
		return nil
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close MariaDB connection: %w", err)
	}
	return nil
}
