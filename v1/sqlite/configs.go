package sqlite

import "time"

// Config configures the sqlite store.
type Config struct {
	// Path of the database file. ":memory:" is accepted but every pooled
	// connection then sees its own database, so MaxOpenConns is forced to 1.
	Path string `envconfig:"SQLITE_PATH" default:"todos.db"`

	// BusyTimeout is how long a writer waits for a locked database.
	BusyTimeout time.Duration `envconfig:"SQLITE_BUSY_TIMEOUT" default:"5s"`

	MaxOpenConns int `envconfig:"SQLITE_MAX_OPEN_CONNS" default:"4"`
}
