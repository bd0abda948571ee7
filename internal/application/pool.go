package application

import (
	"context"
	"sync"
)

// Pool runs submitted jobs on a fixed number of workers so that heavy
// pipeline work never runs on the event-dispatch path. Submit applies
// backpressure once the queue is full.
type Pool struct {
	workers int
	jobs    chan func()
	wg      sync.WaitGroup
}

func NewPool(workers, queueDepth int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	if queueDepth < 0 {
		queueDepth = 0
	}
	return &Pool{
		workers: workers,
		jobs:    make(chan func(), queueDepth),
	}
}

// Start launches the workers. They exit when ctx is cancelled; in-flight
// jobs are not preserved.
func (p *Pool) Start(ctx context.Context) {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case job := <-p.jobs:
					job()
				}
			}
		}()
	}
}

// Submit enqueues a job, blocking while the queue is full. It returns
// ctx.Err() if the context is cancelled before the job is accepted.
func (p *Pool) Submit(ctx context.Context, job func()) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case p.jobs <- job:
		return nil
	}
}

// Wait blocks until all workers have exited.
func (p *Pool) Wait() {
	p.wg.Wait()
}
