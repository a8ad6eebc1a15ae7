// Package parallel runs one round's cluster evaluations across a bounded
// set of workers. Evaluations of disjoint clusters share no mutable state,
// so the only synchronization is the barrier at the end of each batch.
package parallel

import (
	"fmt"
	"sync"
)

// MaxWorkers bounds the pool size; evaluation is CPU-bound so anything past
// the machine's core count buys nothing.
const MaxWorkers = 1024

// ErrTooManyWorkers is returned when the worker count exceeds MaxWorkers.
var ErrTooManyWorkers = fmt.Errorf("worker count exceeds maximum %d", MaxWorkers)

// Pool fans batches of tasks out to a fixed number of workers. A Pool with
// one worker degenerates to sequential execution in submission order.
type Pool struct {
	workers int
}

// NewPool creates a pool with the given worker count. Counts below one are
// clamped to one.
func NewPool(workers int) (*Pool, error) {
	if workers < 1 {
		workers = 1
	}
	if workers > MaxWorkers {
		return nil, ErrTooManyWorkers
	}
	return &Pool{workers: workers}, nil
}

// Workers returns the pool's worker count.
func (p *Pool) Workers() int {
	return p.workers
}

// Run executes every task and blocks until all have finished. Panics in
// tasks are recovered and re-raised on the caller's goroutine after the
// batch drains, so a poisoned task cannot leave the barrier half-open.
func (p *Pool) Run(tasks []func()) {
	if len(tasks) == 0 {
		return
	}
	if p.workers == 1 || len(tasks) == 1 {
		for _, t := range tasks {
			t()
		}
		return
	}

	var (
		wg        sync.WaitGroup
		panicOnce sync.Once
		panicked  any
	)
	queue := make(chan func(), len(tasks))
	for _, t := range tasks {
		queue <- t
	}
	close(queue)

	n := p.workers
	if n > len(tasks) {
		n = len(tasks)
	}
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for t := range queue {
				func() {
					defer func() {
						if r := recover(); r != nil {
							panicOnce.Do(func() { panicked = r })
						}
					}()
					t()
				}()
			}
		}()
	}
	wg.Wait()

	if panicked != nil {
		panic(panicked)
	}
}
