// Package database provides the driver-independent SQL layer of the service.
//
// It defines the Client and QueryBuilder interfaces, the sentinel errors every
// store reports (ErrRecordNotFound, ErrDuplicateKey, ...) and GormClient, the
// gorm-backed implementation that the postgres, sqlite and mariadb packages embed.
//
// # Implementations
//
// The Client interface is implemented by:
//   - postgres.Postgres (*Postgres), with connection monitoring and reconnects
//   - mariadb.MariaDB (*MariaDB), with the same monitoring for MariaDB and MySQL
//   - sqlite.SQLite (*SQLite), a file-backed store for local runs and tests
//
// Each driver builds its *gorm.DB and hands GormClient a function returning
// the current connection, so a reconnect swaps the pool without callers noticing:
//
//	pg.client.Store(conn)
//	pg.GormClient = database.NewGormClient(pg.DB, pg.GracefulShutdown)
//
// # Usage
//
// Repositories depend on database.Client only:
//
//	type SQLRepository struct {
//	    db database.Client
//	}
//
//	func (r *SQLRepository) Get(ctx context.Context, id int) (Todo, error) {
//	    var t Todo
//	    if err := r.db.First(ctx, &t, id); err != nil {
//	        return Todo{}, r.db.TranslateError(err)
//	    }
//	    return t, nil
//	}
//
// Counting rows of a model:
//
//	var n int64
//	if err := client.Count(ctx, &Todo{}, &n); err != nil {
//	    return err
//	}
//
// Updating with a map writes zero values that a struct update would skip:
//
//	rows, err := client.Update(ctx, &Todo{ID: id}, map[string]interface{}{
//	    "completed": false,
//	})
//
// # Query Builder
//
// Query returns a chainable builder for reads that need ordering, locking or
// gorm scopes such as the ones produced by the filter package:
//
//	var todos []Todo
//	err := client.Query(ctx).
//	    Model(&Todo{}).
//	    Scopes(compiled.Scope()).
//	    Order("id").
//	    Find(&todos)
//
// # Transactions
//
// Transaction runs fn with a Client bound to the transaction. Returning an
// error rolls back; returning nil commits. Row locks are taken with ForUpdate:
//
//	err := client.Transaction(ctx, func(tx database.Client) error {
//	    var existing Todo
//	    if err := tx.Query(ctx).ForUpdate().Where("id = ?", id).First(&existing); err != nil {
//	        return err
//	    }
//	    _, err := tx.Update(ctx, &existing, map[string]interface{}{"name": name})
//	    return err
//	})
//
// SQLite ignores FOR UPDATE; its single writer already serialises updates.
//
// # Error Handling
//
// CRUD and query methods return raw gorm errors. TranslateError maps them onto
// this package's sentinels so callers can use errors.Is without knowing the driver:
//
//	if err := client.First(ctx, &t, id); err != nil {
//	    switch err := client.TranslateError(err); {
//	    case errors.Is(err, database.ErrRecordNotFound):
//	        return ErrNotFound
//	    case database.IsRetryable(err):
//	        return retry(err)
//	    default:
//	        return err
//	    }
//	}
//
// Unique violations from all three drivers become ErrDuplicateKey.
//
// # Dialects
//
// Dialect returns the gorm dialector name ("postgres", "sqlite" or "mysql").
// The filter package uses it to pick a substring function for like.
//
// # Thread Safety
//
// Client implementations are safe for concurrent use. A QueryBuilder is not;
// build one per query.
package database
