// Package worker provides the bounded fan-out/fan-in primitives the
// checker schedules chunk scoring on.
package worker

import (
	"context"
	"sync"
)

// Task is one independent unit of work producing a result of type R
type Task[R any] func(ctx context.Context) R

// Pool runs submitted tasks on a fixed number of worker goroutines.
// Results are collected in completion order, not submission order.
// A collector goroutine drains results as they complete, so the
// submit-everything-then-Wait pattern is safe for batches of any size.
type Pool[R any] struct {
	workers     int
	tasks       chan Task[R]
	results     chan R
	collected   []R
	collectDone chan struct{}
	wg          sync.WaitGroup
	ctx         context.Context
	cancel      context.CancelFunc
	closeOnce   sync.Once
}

// NewPool creates a pool bounded at the given worker count.
// Non-positive counts fall back to a single worker.
func NewPool[R any](workers int) *Pool[R] {
	if workers <= 0 {
		workers = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Pool[R]{
		workers:     workers,
		tasks:       make(chan Task[R], workers*2),
		results:     make(chan R, workers*2),
		collectDone: make(chan struct{}),
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Start launches the worker goroutines and the result collector
func (p *Pool[R]) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.run()
	}
	go p.collect()
}

func (p *Pool[R]) run() {
	defer p.wg.Done()
	for {
		select {
		case <-p.ctx.Done():
			return
		case task, ok := <-p.tasks:
			if !ok {
				return
			}
			result := task(p.ctx)
			select {
			case p.results <- result:
			case <-p.ctx.Done():
				return
			}
		}
	}
}

// collect owns the collected slice until collectDone is closed
func (p *Pool[R]) collect() {
	for result := range p.results {
		p.collected = append(p.collected, result)
	}
	close(p.collectDone)
}

// Submit queues a task for execution. Submissions after Wait or
// Shutdown are dropped.
func (p *Pool[R]) Submit(task Task[R]) {
	select {
	case <-p.ctx.Done():
	case p.tasks <- task:
	}
}

// Wait closes the task queue, waits for in-flight work to finish and
// returns every result in completion order. In-flight tasks always run
// to completion; the pool does not cancel mid-batch.
func (p *Pool[R]) Wait() []R {
	close(p.tasks)
	p.wg.Wait()
	p.closeResults()
	<-p.collectDone
	return p.collected
}

// Shutdown stops the pool immediately, abandoning queued tasks
func (p *Pool[R]) Shutdown() {
	p.cancel()
	p.wg.Wait()
	p.closeResults()
	<-p.collectDone
}

func (p *Pool[R]) closeResults() {
	p.closeOnce.Do(func() {
		close(p.results)
	})
}

// Collector is a mutex-guarded result sink, safe to append to from
// any worker goroutine.
type Collector[R any] struct {
	mu      sync.Mutex
	results []R
}

// Add appends one result
func (c *Collector[R]) Add(result R) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results = append(c.results, result)
}

// Results returns the collected results
func (c *Collector[R]) Results() []R {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.results
}
