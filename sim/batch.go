package sim

import (
	"context"
	"sync"
)

// RunFunc builds and runs one fully independent engine: its own series
// view, ledgers and listener set. Batch never shares state across runs.
type RunFunc func(ctx context.Context) (Report, error)

// BatchResult captures one configuration's outcome. A failed run carries
// its error here instead of aborting siblings.
type BatchResult struct {
	Name   string
	Report Report
	Err    error
}

// NamedRun pairs a configuration label with its run function.
type NamedRun struct {
	Name string
	Run  RunFunc
}

// RunBatch executes the runs with at most workers engines in flight.
// Results come back in input order; per-run failures (data gaps, bad
// configuration) are isolated to their slot.
func RunBatch(ctx context.Context, runs []NamedRun, workers int) []BatchResult {
	if workers < 1 {
		workers = 1
	}
	results := make([]BatchResult, len(runs))
	sem := make(chan struct{}, workers)

	var wg sync.WaitGroup
	for i, r := range runs {
		wg.Add(1)
		go func(i int, r NamedRun) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			rep, err := r.Run(ctx)
			results[i] = BatchResult{Name: r.Name, Report: rep, Err: err}
		}(i, r)
	}
	wg.Wait()
	return results
}
