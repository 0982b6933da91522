package debate

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// fanOut runs fn once per index concurrently and collects the results
// in index order, so callers see configured agent order regardless of
// which call finishes first. The first error cancels the remaining
// calls and is returned with no results.
func fanOut[T any](ctx context.Context, n int, fn func(ctx context.Context, i int) (T, error)) ([]T, error) {
	results := make([]T, n)

	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			r, err := fn(ctx, i)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
