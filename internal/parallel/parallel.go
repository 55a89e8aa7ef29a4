// Package parallel fans independent per-unit work out across goroutines.
package parallel

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// chunksPerWorker controls how finely the index space is split so uneven
// per-unit costs still balance across workers.
const chunksPerWorker = 4

// Workers normalises a configured worker count: non-positive values mean
// one worker per available CPU.
func Workers(n int) int {
	if n <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return n
}

// Range calls fn for every i in [0, n) using up to workers goroutines. fn must
// only write to state owned by index i. The first error cancels the remaining
// chunks and is returned; a cancelled ctx stops scheduling and returns ctx.Err().
func Range(ctx context.Context, n, workers int, fn func(i int) error) error {
	if n == 0 {
		return ctx.Err()
	}
	workers = Workers(workers)

	chunk := n / (workers * chunksPerWorker)
	if chunk < 1 {
		chunk = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for start := 0; start < n; start += chunk {
		if gctx.Err() != nil {
			break
		}
		end := min(start+chunk, n)
		g.Go(func() error {
			for i := start; i < end; i++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				if err := fn(i); err != nil {
					return err
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}
