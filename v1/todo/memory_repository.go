package todo

import (
	"context"
	"runtime"
	"sort"
	"sync"

	"github.com/Aleph-Alpha/todoapi/v1/filter"
)

// SizeObserver receives the number of stored todos after every write.
type SizeObserver interface {
	SetStoredTodos(n int)
}

// MemoryRepository keeps todos in a map guarded by a RWMutex. IDs are assigned
// from a monotonically increasing sequence and never reused.
type MemoryRepository struct {
	mu     sync.RWMutex
	items  map[int]Todo
	nextID int

	parallelThreshold int
	workers           int
	observer          SizeObserver
}

var _ Repository = (*MemoryRepository)(nil)

// NewMemoryRepository returns an empty repository. observer may be nil.
func NewMemoryRepository(cfg Config, observer SizeObserver) *MemoryRepository {
	workers := cfg.FilterWorkers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &MemoryRepository{
		items:             make(map[int]Todo),
		nextID:            1,
		parallelThreshold: cfg.ParallelThreshold,
		workers:           workers,
		observer:          observer,
	}
}

// List implements Repository.
func (r *MemoryRepository) List(ctx context.Context, f *filter.Compiled[Todo]) ([]Todo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	snapshot := r.snapshot()
	if f.Empty() {
		return snapshot, nil
	}
	if r.parallelThreshold > 0 && len(snapshot) >= r.parallelThreshold {
		return f.ApplyParallel(ctx, snapshot, r.workers)
	}
	return f.Apply(snapshot), nil
}

// snapshot copies every todo ordered by id.
func (r *MemoryRepository) snapshot() []Todo {
	r.mu.RLock()
	out := make([]Todo, 0, len(r.items))
	for _, t := range r.items {
		out = append(out, t)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Get implements Repository.
func (r *MemoryRepository) Get(ctx context.Context, id int) (Todo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.items[id]
	if !ok {
		return Todo{}, ErrNotFound
	}
	return t, nil
}

// Create implements Repository.
func (r *MemoryRepository) Create(ctx context.Context, t *Todo) error {
	r.mu.Lock()
	ts := now()
	t.ID = r.nextID
	t.CreatedAt = ts
	t.UpdatedAt = ts
	r.nextID++
	r.items[t.ID] = *t
	size := len(r.items)
	r.mu.Unlock()

	r.observe(size)
	return nil
}

// Update implements Repository.
func (r *MemoryRepository) Update(ctx context.Context, t *Todo) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.items[t.ID]
	if !ok {
		return ErrNotFound
	}
	existing.Name = t.Name
	existing.Completed = t.Completed
	existing.UpdatedAt = now()
	r.items[t.ID] = existing
	*t = existing
	return nil
}

// Delete implements Repository.
func (r *MemoryRepository) Delete(ctx context.Context, id int) error {
	r.mu.Lock()
	if _, ok := r.items[id]; !ok {
		r.mu.Unlock()
		return ErrNotFound
	}
	delete(r.items, id)
	size := len(r.items)
	r.mu.Unlock()

	r.observe(size)
	return nil
}

// Ping implements Repository; memory is always reachable.
func (r *MemoryRepository) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (r *MemoryRepository) observe(size int) {
	if r.observer != nil {
		r.observer.SetStoredTodos(size)
	}
}
