package worker

import (
	"context"
	"sync"
)

// Job represents a unit of work to be executed.
type Job interface {
	Execute(ctx context.Context) Result
}

// Result represents the result of a job execution.
type Result interface {
	Err() error
}

// Pool runs jobs on a fixed number of goroutines. The context passed to
// Start governs the whole batch: once it is cancelled, workers stop
// picking up queued jobs and Submit refuses new ones, so an interrupted
// batch still hands back every result that finished.
type Pool struct {
	workers int
	jobs    chan Job
	results chan Result
	wg      sync.WaitGroup
}

// NewPool creates a pool with the specified number of workers.
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	return &Pool{
		workers: workers,
		jobs:    make(chan Job, workers*2),
		results: make(chan Result, workers*2),
	}
}

// Start launches the workers.
func (p *Pool) Start(ctx context.Context) {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(ctx)
	}
}

func (p *Pool) worker(ctx context.Context) {
	defer p.wg.Done()

	for {
		// Checked first on its own: when both the context and the queue
		// are ready, select would pick randomly and a cancelled worker
		// could keep draining jobs.
		select {
		case <-ctx.Done():
			return
		default:
		}

		select {
		case <-ctx.Done():
			return
		case job, ok := <-p.jobs:
			if !ok {
				return
			}
			result := job.Execute(ctx)
			select {
			case p.results <- result:
			case <-ctx.Done():
				return
			}
		}
	}
}

// Submit queues a job. It reports false once ctx is cancelled, signalling
// the producer to stop issuing work.
func (p *Pool) Submit(ctx context.Context, job Job) bool {
	select {
	case <-ctx.Done():
		return false
	default:
	}

	select {
	case <-ctx.Done():
		return false
	case p.jobs <- job:
		return true
	}
}

// Close marks the end of submission. Must be called exactly once, after
// the last Submit.
func (p *Pool) Close() {
	close(p.jobs)
}

// Wait drains results until every worker has exited and returns them.
// Safe to call while another goroutine is still submitting; the drain is
// what keeps a large batch from backing up the result channel.
func (p *Pool) Wait() []Result {
	go func() {
		p.wg.Wait()
		close(p.results)
	}()

	var results []Result
	for result := range p.results {
		results = append(results, result)
	}
	return results
}
