package todo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Aleph-Alpha/todoapi/v1/database"
	"github.com/Aleph-Alpha/todoapi/v1/filter"
)

// SQLRepository stores todos through a database.Client. Filters are pushed
// down to SQL with filter.Compiled.Scope.
type SQLRepository struct {
	db       database.Client
	observer SizeObserver
}

var _ Repository = (*SQLRepository)(nil)

// NewSQLRepository returns a repository on db, creating the todos table first
// when migrate is set.
func NewSQLRepository(ctx context.Context, db database.Client, migrate bool) (*SQLRepository, error) {
	if migrate {
		if err := db.AutoMigrate(ctx, &Todo{}); err != nil {
			return nil, fmt.Errorf("failed to migrate todos table: %w", err)
		}
	}
	return &SQLRepository{db: db}, nil
}

// WithObserver reports the table size to observer after every create and
// delete, starting with the current size.
func (r *SQLRepository) WithObserver(ctx context.Context, observer SizeObserver) *SQLRepository {
	r.observer = observer
	r.observe(ctx)
	return r
}

// Count returns the number of stored todos.
func (r *SQLRepository) Count(ctx context.Context) (int, error) {
	var n int64
	if err := r.db.Count(ctx, &Todo{}, &n); err != nil {
		return 0, fmt.Errorf("failed to count todos: %w", r.db.TranslateError(err))
	}
	return int(n), nil
}

// List implements Repository.
func (r *SQLRepository) List(ctx context.Context, f *filter.Compiled[Todo]) ([]Todo, error) {
	q := r.db.Query(ctx).Model(&Todo{})
	if !f.Empty() {
		q = q.Scopes(f.Scope())
	}

	todos := []Todo{}
	if err := q.Order("id").Find(&todos); err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", r.db.TranslateError(err))
	}
	return todos, nil
}

// Get implements Repository.
func (r *SQLRepository) Get(ctx context.Context, id int) (Todo, error) {
	var t Todo
	if err := r.db.First(ctx, &t, id); err != nil {
		return Todo{}, r.translate(err)
	}
	return t, nil
}

// Create implements Repository.
func (r *SQLRepository) Create(ctx context.Context, t *Todo) error {
	ts := now()
	t.ID = 0
	t.CreatedAt = ts
	t.UpdatedAt = ts
	if err := r.db.Create(ctx, t); err != nil {
		return fmt.Errorf("failed to create todo: %w", r.db.TranslateError(err))
	}
	r.observe(ctx)
	return nil
}

// Update implements Repository. The read and the write share a transaction
// and the row is locked where the dialect supports it.
func (r *SQLRepository) Update(ctx context.Context, t *Todo) error {
	return r.db.Transaction(ctx, func(tx database.Client) error {
		var existing Todo
		if err := tx.Query(ctx).Model(&Todo{}).ForUpdate().Where("id = ?", t.ID).First(&existing); err != nil {
			return r.translate(err)
		}

		existing.Name = t.Name
		existing.Completed = t.Completed
		existing.UpdatedAt = now()
		// A map writes zero values such as completed=false.
		_, err := tx.Update(ctx, &Todo{ID: existing.ID}, map[string]interface{}{
			"name":       existing.Name,
			"completed":  existing.Completed,
			"updated_at": existing.UpdatedAt,
		})
		if err != nil {
			return fmt.Errorf("failed to update todo %d: %w", t.ID, tx.TranslateError(err))
		}
		*t = existing
		return nil
	})
}

// Delete implements Repository.
func (r *SQLRepository) Delete(ctx context.Context, id int) error {
	affected, err := r.db.Delete(ctx, &Todo{}, id)
	if err != nil {
		return fmt.Errorf("failed to delete todo %d: %w", id, r.db.TranslateError(err))
	}
	if affected == 0 {
		return ErrNotFound
	}
	r.observe(ctx)
	return nil
}

// Ping implements Repository.
func (r *SQLRepository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

// observe is best effort; a failed count leaves the last reported size.
func (r *SQLRepository) observe(ctx context.Context) {
	if r.observer == nil {
		return
	}
	if n, err := r.Count(ctx); err == nil {
		r.observer.SetStoredTodos(n)
	}
}

func (r *SQLRepository) translate(err error) error {
	err = r.db.TranslateError(err)
	if errors.Is(err, database.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
