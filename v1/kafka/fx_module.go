package kafka

import (
	"context"

	"github.com/Aleph-Alpha/todoapi/v1/todo"
	"go.uber.org/fx"
)

// FXModule contributes a todo.Publisher to the todo_publishers group. With
// publishing disabled it is a todo.NopPublisher and no broker connection is made.
var FXModule = fx.Module("kafka",
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

// NewPublisherWithDI is NewPublisher for fx.
func NewPublisherWithDI(params PublisherParams) (PublisherResult, error) {
	if !params.Config.Enabled {
		params.Logger.Info("Kafka publishing disabled", nil)
		return PublisherResult{Publisher: todo.NopPublisher{}}, nil
	}

	pub, err := NewPublisher(params.Config, params.Logger, params.Propagator)
	if err != nil {
		return PublisherResult{}, err
	}
	RegisterPublisherLifecycle(params.Lifecycle, pub, params.Logger)
	return PublisherResult{Publisher: pub}, nil
}

// RegisterPublisherLifecycle closes the publisher on stop, flushing any
// batched messages.
func RegisterPublisherLifecycle(lc fx.Lifecycle, pub *Publisher, logger Logger) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			logger.Info("Closing Kafka publisher", nil)
			return pub.Close()
		},
	})
}
