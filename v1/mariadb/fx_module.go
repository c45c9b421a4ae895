package mariadb

import (
	"context"
	"sync"

	"github.com/Aleph-Alpha/todoapi/v1/database"
	"go.uber.org/fx"
)

// FXModule provides *MariaDB and database.Client and runs the connection
// monitor while the application is up.
var FXModule = fx.Module("mariadb",
	fx.Provide(
		NewMariaDBClientWithDI,
		fx.Annotate(
			ProvideClient,
			fx.As(new(database.Client)),
		),
	),
	fx.Invoke(RegisterMariaDBLifecycle),
)

// ProvideClient exposes the concrete *MariaDB as database.Client.
func ProvideClient(db *MariaDB) *MariaDB {
	return db
}

// MariaDBParams groups the dependencies of NewMariaDBClientWithDI.
type MariaDBParams struct {
	fx.In

	Config Config
	Logger Logger
}

// NewMariaDBClientWithDI is NewMariaDB for fx.
func NewMariaDBClientWithDI(params MariaDBParams) (*MariaDB, error) {
	return NewMariaDB(params.Config, params.Logger)
}

// MariaDBLifeCycleParams groups the dependencies of RegisterMariaDBLifecycle.
type MariaDBLifeCycleParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	MariaDB   *MariaDB
}

// RegisterMariaDBLifecycle starts the monitor loops on start. On stop it
// signals them, waits, and closes the pool.
func RegisterMariaDBLifecycle(params MariaDBLifeCycleParams) {
	wg := &sync.WaitGroup{}
	runCtx, cancel := context.WithCancel(context.Background())

	params.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			wg.Add(2)
			go func() {
				defer wg.Done()
				params.MariaDB.MonitorConnection(runCtx)
			}()
			go func() {
				defer wg.Done()
				params.MariaDB.RetryConnection(runCtx)
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			params.MariaDB.closeShutdownOnce.Do(func() {
				close(params.MariaDB.shutdownSignal)
			})
			cancel()
			wg.Wait()
			return params.MariaDB.GracefulShutdown()
		},
	})
}
