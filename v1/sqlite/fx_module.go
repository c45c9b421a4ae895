package sqlite

import (
	"context"

	"github.com/Aleph-Alpha/todoapi/v1/database"
	"go.uber.org/fx"
)

// FXModule provides *SQLite and database.Client and closes the database on stop.
var FXModule = fx.Module("sqlite",
	fx.Provide(
		NewSQLite,
		fx.Annotate(
			func(s *SQLite) *SQLite { return s },
			fx.As(new(database.Client)),
		),
	),
	fx.Invoke(RegisterSQLiteLifecycle),
)

// RegisterSQLiteLifecycle closes the database when the application stops.
func RegisterSQLiteLifecycle(lc fx.Lifecycle, s *SQLite) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return s.GracefulShutdown()
		},
	})
}
