// Package parallel provides the band-parallel execution used by the g3d
// renderer.
//
// A frame is split into horizontal bands of scanlines (see Bands). Each band
// owns disjoint rows of the color and depth buffers, so bands can be
// rasterized on different goroutines without locking.
package parallel

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// WorkerPool runs indexed jobs on a fixed set of goroutines.
//
// Jobs are handed over an unbuffered channel, so a worker that finishes
// early simply picks up the next band; slow bands (dense geometry) do not
// hold back the rest.
//
// Thread safety: WorkerPool is safe for concurrent use.
type WorkerPool struct {
	workers int
	jobs    chan job
	done    chan struct{}
	wg      sync.WaitGroup
	running atomic.Bool
}

type job struct {
	fn   func(int)
	i    int
	done *sync.WaitGroup
}

// NewWorkerPool creates a pool with the specified number of workers.
// If workers is 0 or negative, GOMAXPROCS is used.
// The pool starts immediately.
func NewWorkerPool(workers int) *WorkerPool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	p := &WorkerPool{
		workers: workers,
		jobs:    make(chan job),
		done:    make(chan struct{}),
	}
	p.running.Store(true)

	p.wg.Add(workers)
	for range workers {
		go p.worker()
	}
	return p
}

func (p *WorkerPool) worker() {
	defer p.wg.Done()
	for {
		select {
		case <-p.done:
			return
		case j := <-p.jobs:
			j.fn(j.i)
			j.done.Done()
		}
	}
}

// ForEach calls fn(i) for every i in [0, n) and waits for all calls to
// return. Calls may run concurrently and in any order.
//
// With a single worker, or once the pool is closed, ForEach runs every call
// on the caller's goroutine in index order.
func (p *WorkerPool) ForEach(n int, fn func(i int)) {
	if n <= 0 || fn == nil {
		return
	}
	if p.workers == 1 || n == 1 || !p.running.Load() {
		for i := range n {
			fn(i)
		}
		return
	}

	var wg sync.WaitGroup
	wg.Add(n)
	for i := range n {
		select {
		case p.jobs <- job{fn: fn, i: i, done: &wg}:
		case <-p.done:
			// Closed mid-frame: finish the remainder here.
			fn(i)
			wg.Done()
		}
	}
	wg.Wait()
}

// Close stops the workers. It is safe to call multiple times; ForEach keeps
// working afterwards on the caller's goroutine.
func (p *WorkerPool) Close() {
	if !p.running.CompareAndSwap(true, false) {
		return
	}
	close(p.done)
	p.wg.Wait()
}

// Workers returns the number of workers in the pool.
func (p *WorkerPool) Workers() int {
	return p.workers
}

// IsRunning returns true until Close is called.
func (p *WorkerPool) IsRunning() bool {
	return p.running.Load()
}
