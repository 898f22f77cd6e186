// Package workerpool provides the "map a pure function over a page
// range" facility the core's concurrency model (§5) requires, in the
// idiom of this codebase's other CLIs: a fixed goroutine count, a job
// channel, and context-driven cancellation rather than an imported
// worker-pool library.
package workerpool

import (
	"context"
	"sync"
)

// Map applies fn to every element of items using up to workers
// goroutines, and returns results in the same order as items (an
// order-preserving map, as §5's concurrency model requires for the page
// classifier). If ctx is cancelled, Map stops dispatching new work and
// returns ctx.Err(); results already computed are discarded.
func Map[T any, R any](ctx context.Context, workers int, items []T, fn func(int, T) R) ([]R, error) {
	if workers < 1 {
		workers = 1
	}
	if len(items) == 0 {
		return nil, nil
	}

	results := make([]R, len(items))
	jobs := make(chan int)

	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				select {
				case <-ctx.Done():
					return
				default:
				}
				results[idx] = fn(idx, items[idx])
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i := range items {
			select {
			case <-ctx.Done():
				return
			case jobs <- i:
			}
		}
	}()

	wg.Wait()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	return results, nil
}
