package filter

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"
)

// checkEvery is how many records a parallel worker evaluates between context checks.
const checkEvery = 1024

func (c condition[T]) test(rec T) bool {
	v := c.get(rec)
	switch c.Operator {
	case Eq:
		return v == c.Value
	case Gt:
		return v.typ == c.Value.typ && v.compare(c.Value) > 0
	case Lt:
		return v.typ == c.Value.typ && v.compare(c.Value) < 0
	case Like:
		return strings.Contains(v.s, c.Value.s)
	case In:
		_, ok := c.members[v]
		return ok
	}
	return false
}

// Match reports whether rec satisfies every condition. A nil or empty filter
// matches everything.
func (c *Compiled[T]) Match(rec T) bool {
	if c == nil {
		return true
	}
	for _, cond := range c.conds {
		if !cond.test(rec) {
			return false
		}
	}
	return true
}

// Predicate returns Match as a plain function value.
func (c *Compiled[T]) Predicate() func(T) bool {
	return c.Match
}

// Apply returns the records that satisfy the filter, in input order.
// The input slice is never modified.
func (c *Compiled[T]) Apply(records []T) []T {
	out := make([]T, 0, len(records))
	for _, rec := range records {
		if c.Match(rec) {
			out = append(out, rec)
		}
	}
	return out
}

// ApplyParallel evaluates the filter over contiguous chunks of records on up to
// workers goroutines. The result is identical to Apply, including order.
// It returns ctx.Err() if the context is cancelled before evaluation finishes.
func (c *Compiled[T]) ApplyParallel(ctx context.Context, records []T, workers int) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if workers <= 1 || len(records) < 2*workers || c.Empty() {
		return c.Apply(records), nil
	}

	size := (len(records) + workers - 1) / workers
	chunks := make([][]T, (len(records)+size-1)/size)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range chunks {
		lo := i * size
		hi := min(lo+size, len(records))
		g.Go(func() error {
			part := make([]T, 0, hi-lo)
			for j := lo; j < hi; j++ {
				if (j-lo)%checkEvery == 0 {
					if err := gctx.Err(); err != nil {
						return err
					}
				}
				if c.Match(records[j]) {
					part = append(part, records[j])
				}
			}
			chunks[i] = part
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := 0
	for _, part := range chunks {
		total += len(part)
	}
	out := make([]T, 0, total)
	for _, part := range chunks {
		out = append(out, part...)
	}
	return out, nil
}
