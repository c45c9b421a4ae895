// Package mariadb implements database.Client for MariaDB and MySQL through
// gorm.io/driver/mysql.
//
// The client embeds database.GormClient, so repositories written against
// database.Client run unchanged on this store. Like the postgres package it
// keeps the pool healthy: MonitorConnection pings on HealthCheckInterval and
// RetryConnection swaps in a fresh *gorm.DB after a failed ping.
//
// # Configuration
//
//	MARIADB_HOST=localhost
//	MARIADB_PORT=3306
//	MARIADB_USER=root
//	MARIADB_PASSWORD=secret
//	MARIADB_DB=todos
//	MARIADB_LOC=UTC
//
// The DSN is assembled by Config.DSNString:
//
//	root:secret@tcp(localhost:3306)/todos?charset=utf8mb4&parseTime=True&loc=UTC
//
// MARIADB_TLS, MARIADB_TIMEOUT, MARIADB_READ_TIMEOUT and MARIADB_WRITE_TIMEOUT
// are appended when set. Pool sizing comes from MARIADB_MAX_OPEN_CONNS,
// MARIADB_MAX_IDLE_CONNS and MARIADB_CONN_MAX_LIFETIME.
//
// # Usage
//
//	db, err := mariadb.NewMariaDB(cfg, log)
//	if err != nil {
//		return err
//	}
//	defer db.GracefulShutdown()
//
//	go db.MonitorConnection(ctx)
//	go db.RetryConnection(ctx)
//
//	repo, err := todo.NewSQLRepository(ctx, db, true)
//
// # FX Integration
//
// Select the store with STORAGE_DRIVER=mariadb (or mysql); the storage
// package then includes FXModule:
//
//	app := fx.New(
//		config.FXModule(cfg),
//		logger.FXModule,
//		mariadb.FXModule, // provides *MariaDB and database.Client
//		todo.FXModule,
//	)
//
// # Timestamps
//
// DATETIME columns are created with microsecond precision and the connection
// reads and writes them in UTC, so todo timestamps round-trip exactly.
//
// # Collation
//
// Text filters run against the server's default collation, which is usually
// case-insensitive; the filter package compares with BINARY on this dialect.
package mariadb
