package minio

import (
	"context"

	"github.com/Aleph-Alpha/todoapi/v1/todo"
	"go.uber.org/fx"
)

// FXModule contributes the archive to the todo_publishers group.
var FXModule = fx.Module("minio",
	fx.Provide(NewArchiverWithDI),
)

// ArchiverParams groups the dependencies of NewArchiverWithDI.
type ArchiverParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    Config
	Logger    Logger
}

// ArchiverResult places the archive in the todo_publishers group.
type ArchiverResult struct {
	fx.Out

	Publisher todo.Publisher `group:"todo_publishers"`
}

// NewArchiverWithDI returns a todo.NopPublisher when archiving is disabled.
// Otherwise the bucket is checked when the application starts.
func NewArchiverWithDI(params ArchiverParams) (ArchiverResult, error) {
	if !params.Config.Enabled {
		return ArchiverResult{Publisher: todo.NopPublisher{}}, nil
	}

	client, err := connectToMinio(params.Config)
	if err != nil {
		return ArchiverResult{}, err
	}
	a := newArchiver(params.Config, client, params.Logger)

	params.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := a.ensureBucketExists(ctx); err != nil {
				return err
			}
			params.Logger.InfoWithContext(ctx, "Archiving todo events to MinIO", nil, map[string]interface{}{
				"endpoint": params.Config.Connection.Endpoint,
				"bucket":   params.Config.Connection.BucketName,
			})
			return nil
		},
	})
	return ArchiverResult{Publisher: a}, nil
}
