package postgres

import (
	"context"
	"sync"

	"github.com/Aleph-Alpha/todoapi/v1/database"
	"go.uber.org/fx"
)

// FXModule provides *Postgres and database.Client and runs the connection
// monitor for the lifetime of the application.
var FXModule = fx.Module("postgres",
	fx.Provide(
		NewPostgresClientWithDI,
		fx.Annotate(
			ProvideClient,
			fx.As(new(database.Client)),
		),
	),
	fx.Invoke(RegisterPostgresLifecycle),
)

// ProvideClient exposes the concrete *Postgres as database.Client.
func ProvideClient(pg *Postgres) *Postgres {
	return pg
}

// PostgresParams groups the dependencies of NewPostgresClientWithDI.
type PostgresParams struct {
	fx.In

	Config Config
	Logger Logger
}

// NewPostgresClientWithDI is NewPostgres for fx.
func NewPostgresClientWithDI(params PostgresParams) (*Postgres, error) {
	return NewPostgres(params.Config, params.Logger)
}

// PostgresLifeCycleParams groups the dependencies of RegisterPostgresLifecycle.
type PostgresLifeCycleParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Postgres  *Postgres
}

// RegisterPostgresLifecycle starts MonitorConnection and RetryConnection on
// start, and on stop signals both loops, waits for them and closes the pool.
func RegisterPostgresLifecycle(params PostgresLifeCycleParams) {
	wg := &sync.WaitGroup{}
	// The start context expires once startup completes; the loops need one that
	// lives until shutdown.
	runCtx, cancel := context.WithCancel(context.Background())

	params.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			wg.Add(2)
			go func() {
				defer wg.Done()
				params.Postgres.MonitorConnection(runCtx)
			}()
			go func() {
				defer wg.Done()
				params.Postgres.RetryConnection(runCtx)
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			params.Postgres.closeShutdownOnce.Do(func() {
				close(params.Postgres.shutdownSignal)
			})
			cancel()
			wg.Wait()
			return params.Postgres.GracefulShutdown()
		},
	})
}
