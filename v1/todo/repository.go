package todo

import (
	"context"

	"github.com/Aleph-Alpha/todoapi/v1/filter"
)

// Repository stores todos.
//
// List returns the todos accepted by f ordered by id; a nil or empty filter
// returns everything. Get, Update and Delete return ErrNotFound for unknown ids.
//
//go:generate mockgen -source=repository.go -destination=mock_repository.go -package=todo
type Repository interface {
	List(ctx context.Context, f *filter.Compiled[Todo]) ([]Todo, error)
	Get(ctx context.Context, id int) (Todo, error)
	// Create assigns ID, CreatedAt and UpdatedAt on t.
	Create(ctx context.Context, t *Todo) error
	// Update replaces Name and Completed of the todo with t.ID and refreshes
	// t from the stored record.
	Update(ctx context.Context, t *Todo) error
	Delete(ctx context.Context, id int) error
	Ping(ctx context.Context) error
}
