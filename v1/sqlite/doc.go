// Package sqlite implements database.Client on a local sqlite file using
// gorm.io/driver/sqlite (mattn/go-sqlite3, cgo). It serves single-node
// deployments and tests that need real SQL without a server.
//
//	SQLITE_PATH=todos.db
//	SQLITE_BUSY_TIMEOUT=5s
//	SQLITE_MAX_OPEN_CONNS=4
package sqlite
