// Package pool implements a bounded-concurrency worker pool used to
// parallelize the CPU-bound batch verification steps of the DKG engine
// (commitment-hash checks, PoK verification, VSS checks across every
// peer in a round).
package pool

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Pool bounds how many goroutines may run submitted work concurrently.
// The zero value is not usable; construct with New.
type Pool struct {
	workers int
}

// New creates a Pool with the given worker count. A count <= 0 selects
// runtime.NumCPU(), and a count of 1 degrades to sequential execution so
// single-threaded callers pay no goroutine overhead.
func New(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Pool{workers: workers}
}

// NewSequential returns a Pool that runs all work on the calling
// goroutine, the same behaviour Map gives a nil *Pool. The DKG engine
// does not take a caller-supplied pool; its rounds use New(0).
func NewSequential() *Pool { return &Pool{workers: 1} }

// Map runs f(i) for every i in [0, n) and returns the first error
// encountered, cancelling outstanding work once one fails.
func (p *Pool) Map(n int, f func(i int) error) error {
	if p == nil || p.workers <= 1 {
		for i := 0; i < n; i++ {
			if err := f(i); err != nil {
				return err
			}
		}
		return nil
	}
	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(p.workers)
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			return f(i)
		})
	}
	return g.Wait()
}
