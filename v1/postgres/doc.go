// Package postgres implements database.Client for PostgreSQL on top of gorm
// and the pgx-based gorm.io/driver/postgres dialector.
//
// Beyond the shared client it keeps the connection healthy: MonitorConnection
// pings the server on a fixed interval and RetryConnection reconnects when a
// ping fails, swapping the new *gorm.DB in atomically.
//
// # Configuration
//
//	POSTGRES_HOST=localhost
//	POSTGRES_PORT=5432
//	POSTGRES_USER=postgres
//	POSTGRES_PASSWORD=secret
//	POSTGRES_DB=todos
//	POSTGRES_SSLMODE=disable
//	DB_CONNECTION_STRING=postgres://...   # overrides all of the above
//
// Pool sizing and the health check interval are read from
// POSTGRES_MAX_OPEN_CONNS, POSTGRES_MAX_IDLE_CONNS, POSTGRES_CONN_MAX_LIFETIME
// and POSTGRES_HEALTH_CHECK_INTERVAL.
//
// # Usage
//
//	pg, err := postgres.NewPostgres(cfg, log)
//	if err != nil {
//	    return err
//	}
//	defer pg.GracefulShutdown()
//
//	go pg.MonitorConnection(ctx)
//	go pg.RetryConnection(ctx)
//
// With fx, FXModule provides *Postgres and database.Client and manages the
// monitor goroutines and shutdown.
package postgres
