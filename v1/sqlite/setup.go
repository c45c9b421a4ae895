package sqlite

import (
	"fmt"
	"net/url"
	"sync"

	"github.com/Aleph-Alpha/todoapi/v1/database"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Logger is the subset of the logger package this package uses.
type Logger interface {
	Info(msg string, err error, fields ...map[string]interface{})
}

// SQLite is a database.Client backed by a local sqlite file through the
// mattn/go-sqlite3 driver.
type SQLite struct {
	*database.GormClient

	cfg       Config
	db        *gorm.DB
	closeOnce sync.Once
	closeErr  error
}

var _ database.Client = (*SQLite)(nil)

// NewSQLite opens (creating if needed) the database file at cfg.Path.
func NewSQLite(cfg Config, logger Logger) (*SQLite, error) {
	db, err := gorm.Open(sqlite.Open(cfg.DSN()), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database %s: %w", cfg.Path, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sqlite database instance: %w", err)
	}
	maxOpen := cfg.MaxOpenConns
	if maxOpen <= 0 || cfg.Path == ":memory:" {
		maxOpen = 1
	}
	sqlDB.SetMaxOpenConns(maxOpen)

	logger.Info("Opened sqlite database", nil, map[string]interface{}{"path": cfg.Path})

	s := &SQLite{cfg: cfg, db: db}
	s.GormClient = database.NewGormClient(s.DB, s.GracefulShutdown)
	return s, nil
}

// DSN returns the go-sqlite3 connection string for the config.
func (c Config) DSN() string {
	params := url.Values{}
	params.Set("_foreign_keys", "on")
	if c.BusyTimeout > 0 {
		params.Set("_busy_timeout", fmt.Sprint(c.BusyTimeout.Milliseconds()))
	}
	path := c.Path
	if path == "" {
		path = ":memory:"
	}
	return "file:" + path + "?" + params.Encode()
}

// DB returns the gorm handle.
func (s *SQLite) DB() *gorm.DB {
	return s.db
}

// GracefulShutdown closes the database. Subsequent calls return the first result.
func (s *SQLite) GracefulShutdown() error {
	s.closeOnce.Do(func() {
		sqlDB, err := s.db.DB()
		if err != nil {
			s.closeErr = err
			return
		}
		s.closeErr = sqlDB.Close()
	})
	return s.closeErr
}
