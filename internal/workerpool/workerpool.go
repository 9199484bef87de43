// Package workerpool implements a bounded parallel worker pool with
// order-preserving result collection.
//
// Grounded on the mutex-guarded shared-state pattern in the retrieval pack's
// schema/load.loader (a sync.Mutex protecting loadedSchemas and
// resolvedImports while imports load concurrently), generalized into a
// reusable generic helper so results are always keyed by the input item's
// original index rather than completion order.
package workerpool

import (
	"context"
	"runtime"
	"sync"
)

// defaultWorkers returns a sane concurrency cap when the caller does not
// specify one.
func defaultWorkers() int {
	n := runtime.GOMAXPROCS(0)
	if n < 1 {
		return 1
	}
	return n
}

// MapOrdered applies fn to every item in items using up to workers
// goroutines, and returns results in the same order as items regardless of
// completion order.
//
// If workers <= 0, a GOMAXPROCS-derived default is used. MapOrdered returns
// the first error encountered (per fn's error return) after all in-flight
// calls complete; partial results for successful items are still populated.
//
// ctx is checked between dispatches; a canceled context stops new
// dispatches but does not interrupt fn calls already in flight.
func MapOrdered[T, R any](ctx context.Context, items []T, workers int, fn func(ctx context.Context, item T, index int) (R, error)) ([]R, error) {
	if workers <= 0 {
		workers = defaultWorkers()
	}
	if workers > len(items) {
		workers = len(items)
	}
	if workers < 1 {
		workers = 1
	}

	results := make([]R, len(items))
	errs := make([]error, len(items))

	type job struct {
		index int
		item  T
	}

	jobs := make(chan job)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				r, err := fn(ctx, j.item, j.index)
				results[j.index] = r
				errs[j.index] = err
			}
		}()
	}

dispatch:
	for i, item := range items {
		select {
		case <-ctx.Done():
			break dispatch
		case jobs <- job{index: i, item: item}:
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return results, err
	}
	for _, err := range errs {
		if err != nil {
			return results, err
		}
	}
	return results, nil
}

// Coordinator serializes access to a single shared owned value across
// concurrent workers, matching spec's "single owner" requirement for
// catalog index assignment.
//
// Grounded on diag.Collector's sync.RWMutex pattern: readers and writers of
// the owned value never race because every access passes through Do.
type Coordinator struct {
	mu sync.Mutex
}

// Do runs fn while holding the coordinator's lock.
func (c *Coordinator) Do(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn()
}
