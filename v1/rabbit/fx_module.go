package rabbit

import (
	"context"
	"sync"

	"github.com/Aleph-Alpha/todoapi/v1/todo"
	"go.uber.org/fx"
)

// FXModule contributes a todo.Publisher to the todo_publishers group. When
// publishing is disabled the contribution is a todo.NopPublisher.
var FXModule = fx.Module("rabbit",
	fx.Provide(NewPublisherWithDI),
)

// PublisherParams groups the dependencies of NewPublisherWithDI.
type PublisherParams struct {
	fx.In

	Lifecycle  fx.Lifecycle
	Config     Config
	Logger     Logger
	Propagator Propagator `optional:"true"`
}

// PublisherResult places the publisher in the todo_publishers group.
type PublisherResult struct {
	fx.Out

	Publisher todo.Publisher `group:"todo_publishers"`
}

// NewPublisherWithDI is NewPublisher for fx. It also runs RetryConnection for
// the lifetime of the application.
func NewPublisherWithDI(params PublisherParams) (PublisherResult, error) {
	if !params.Config.Enabled {
		return PublisherResult{Publisher: todo.NopPublisher{}}, nil
	}

	pub, err := NewPublisher(params.Config, params.Logger, params.Propagator)
	if err != nil {
		return PublisherResult{}, err
	}
	RegisterRabbitLifecycle(params.Lifecycle, pub)
	return PublisherResult{Publisher: pub}, nil
}

// RegisterRabbitLifecycle starts the reconnection loop on start and closes the
// publisher on stop, waiting for the loop to exit.
func RegisterRabbitLifecycle(lc fx.Lifecycle, pub *Publisher) {
	wg := &sync.WaitGroup{}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			wg.Add(1)
			go func() {
				defer wg.Done()
				pub.RetryConnection()
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			err := pub.Close()
			wg.Wait()
			return err
		},
	})
}
