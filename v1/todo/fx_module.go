package todo

import (
	"context"

	"github.com/Aleph-Alpha/todoapi/v1/database"
	"go.uber.org/fx"
)

// FXModule provides the Repository and the *Service.
//
// The repository is SQL backed when a database.Client is present in the
// graph (see the storage package) and in-memory otherwise.
var FXModule = fx.Module("todo",
	fx.Provide(
		NewRepositoryWithDI,
		NewServiceWithDI,
	),
)

// RepositoryParams groups the dependencies of NewRepositoryWithDI.
type RepositoryParams struct {
	fx.In

	Config   Config
	DB       database.Client `optional:"true"`
	Observer SizeObserver    `optional:"true"`
}

// NewRepositoryWithDI selects the repository implementation.
func NewRepositoryWithDI(params RepositoryParams) (Repository, error) {
	if params.DB == nil {
		return NewMemoryRepository(params.Config, params.Observer), nil
	}
	ctx := context.Background()
	repo, err := NewSQLRepository(ctx, params.DB, params.Config.AutoMigrate)
	if err != nil {
		return nil, err
	}
	if params.Observer != nil {
		repo.WithObserver(ctx, params.Observer)
	}
	return repo, nil
}

// ServiceParams groups the dependencies of NewServiceWithDI.
type ServiceParams struct {
	fx.In

	Repository Repository
	Publishers []Publisher `group:"todo_publishers"`
	Logger     Logger      `optional:"true"`
	Tracer     Tracer      `optional:"true"`
	Metrics    Metrics     `optional:"true"`
}

// NewServiceWithDI is NewService for fx. Events go to every publisher in the
// todo_publishers group (see the kafka and rabbit modules).
func NewServiceWithDI(params ServiceParams) *Service {
	return NewService(params.Repository, Publishers(params.Publishers), params.Logger, params.Tracer, params.Metrics)
}
