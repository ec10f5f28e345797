package engine

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Task runs against one partition: it receives the partition index
// and an iterator over that partition's records, and returns its
// result. Tasks share no mutable state and have no channel to one
// another; the only synchronization point is the gather at the
// driver.
type Task[T any] func(ctx context.Context, partition int, it *Iterator) (T, error)

// Options tunes a dispatch.
type Options struct {
	// MaxWorkers bounds concurrent tasks; 0 means GOMAXPROCS.
	MaxWorkers int
}

// Dispatch runs task once per partition of the collection and gathers
// all results at the caller. Results arrive in task-completion order,
// not partition order; callers that need partition order must carry
// the partition index in T and re-sort. The first task error cancels
// the remaining tasks and fails the dispatch.
func Dispatch[T any](ctx context.Context, c *Collection, task Task[T], opts Options) ([]T, error) {
	workers := opts.MaxWorkers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	out := make(chan T, c.Partitions())
	for part := 0; part < c.Partitions(); part++ {
		part := part
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := task(ctx, part, c.Partition(part))
			if err != nil {
				return err
			}
			select {
			case out <- res:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	close(out)

	results := make([]T, 0, c.Partitions())
	for res := range out {
		results = append(results, res)
	}
	return results, nil
}
