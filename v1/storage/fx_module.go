// Package storage picks the database module for the configured driver.
//
// The memory driver adds nothing to the graph, so consumers that take an
// optional database.Client (see todo.NewRepositoryWithDI) fall back to their
// in-memory implementation.
package storage

import (
	"github.com/Aleph-Alpha/todoapi/v1/mariadb"
	"github.com/Aleph-Alpha/todoapi/v1/postgres"
	"github.com/Aleph-Alpha/todoapi/v1/sqlite"
	"go.uber.org/fx"
)

// Module returns the fx module providing database.Client for cfg.Driver.
func Module(cfg Config) (fx.Option, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Driver {
	case DriverPostgres:
		return postgres.FXModule, nil
	case DriverSQLite:
		return sqlite.FXModule, nil
	case DriverMariaDB:
		return mariadb.FXModule, nil
	default:
		// Memory storage provides no database.Client; the todo module falls
		// back to its in-process repository.
		return fx.Module("storage"), nil
	}
}
