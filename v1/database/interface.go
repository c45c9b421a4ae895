package database

import (
	"context"

	"gorm.io/gorm"
)

// Client is the SQL client shared by every gorm-backed store (postgres, sqlite).
// Repositories depend on this interface, never on a concrete driver.
//
// CRUD and query methods return raw gorm/driver errors; use TranslateError to
// map them onto the sentinels of this package.
type Client interface {
	// Basic CRUD operations
	First(ctx context.Context, dest interface{}, conditions ...interface{}) error
	Create(ctx context.Context, value interface{}) error
	Update(ctx context.Context, model interface{}, attrs interface{}) (int64, error)
	Delete(ctx context.Context, value interface{}, conditions ...interface{}) (int64, error)
	Count(ctx context.Context, model interface{}, count *int64, conditions ...interface{}) error

	// Query returns a builder for everything the CRUD helpers do not cover,
	// e.g. filter scopes and ordering.
	Query(ctx context.Context) QueryBuilder

	// Transaction runs fn inside a transaction. fn receives a Client bound to
	// the transaction; returning an error rolls back.
	Transaction(ctx context.Context, fn func(tx Client) error) error

	// AutoMigrate creates or alters tables for the given models.
	AutoMigrate(ctx context.Context, models ...interface{}) error

	// Ping checks that the database is reachable.
	Ping(ctx context.Context) error

	// DB exposes the current gorm handle for advanced use.
	DB() *gorm.DB

	// Dialect names the SQL dialect, e.g. "postgres" or "sqlite".
	Dialect() string

	TranslateError(err error) error

	// Lifecycle management
	GracefulShutdown() error
}

// QueryBuilder provides a fluent interface over gorm. Chainable methods return
// the builder; terminal methods execute the query.
//
// Example:
//
//	var todos []todo.Todo
//	err := db.Query(ctx).
//	    Model(&todo.Todo{}).
//	    Scopes(compiled.Scope()).
//	    Order("id").
//	    Find(&todos)
type QueryBuilder interface {
	Where(query interface{}, args ...interface{}) QueryBuilder
	Order(value interface{}) QueryBuilder
	Model(value interface{}) QueryBuilder
	Scopes(funcs ...func(*gorm.DB) *gorm.DB) QueryBuilder

	// ForUpdate locks the selected rows. sqlite ignores row locks.
	ForUpdate() QueryBuilder

	// Terminal operations - these execute the query
	Find(dest interface{}) error
	First(dest interface{}) error
}
