package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

// mockResult implements Result
type mockResult struct {
	err error
}

func (r *mockResult) Err() error { return r.err }

// mockJob implements Job
type mockJob struct {
	duration  time.Duration
	shouldErr bool
	executed  *int32 // atomic counter
}

func (j *mockJob) Execute(ctx context.Context) Result {
	if j.executed != nil {
		atomic.AddInt32(j.executed, 1)
	}
	if j.duration > 0 {
		select {
		case <-time.After(j.duration):
		case <-ctx.Done():
			return &mockResult{err: ctx.Err()}
		}
	}
	if j.shouldErr {
		return &mockResult{err: errors.New("job error")}
	}
	return &mockResult{err: nil}
}

func TestNewPool(t *testing.T) {
	if p := NewPool(5); p.workers != 5 {
		t.Errorf("expected 5 workers, got %d", p.workers)
	}
	if p := NewPool(0); p.workers != 1 {
		t.Errorf("expected default 1 worker for 0 input, got %d", p.workers)
	}
	if p := NewPool(-1); p.workers != 1 {
		t.Errorf("expected default 1 worker for negative input, got %d", p.workers)
	}
}

func TestPool_ExecutesAllJobs(t *testing.T) {
	ctx := context.Background()
	pool := NewPool(3)
	pool.Start(ctx)

	var executed int32
	go func() {
		defer pool.Close()
		for i := 0; i < 20; i++ {
			pool.Submit(ctx, &mockJob{executed: &executed})
		}
	}()

	results := pool.Wait()
	if len(results) != 20 {
		t.Errorf("expected 20 results, got %d", len(results))
	}
	if n := atomic.LoadInt32(&executed); n != 20 {
		t.Errorf("expected 20 executions, got %d", n)
	}
}

func TestPool_LargeBatchDoesNotDeadlock(t *testing.T) {
	// Far more jobs than channel buffer space; the concurrent drain in
	// Wait must keep submission moving.
	ctx := context.Background()
	pool := NewPool(2)
	pool.Start(ctx)

	go func() {
		defer pool.Close()
		for i := 0; i < 500; i++ {
			pool.Submit(ctx, &mockJob{})
		}
	}()

	done := make(chan []Result, 1)
	go func() { done <- pool.Wait() }()

	select {
	case results := <-done:
		if len(results) != 500 {
			t.Errorf("expected 500 results, got %d", len(results))
		}
	case <-time.After(10 * time.Second):
		t.Fatal("pool deadlocked on a large batch")
	}
}

func TestPool_ErrorsPropagate(t *testing.T) {
	ctx := context.Background()
	pool := NewPool(2)
	pool.Start(ctx)

	go func() {
		defer pool.Close()
		pool.Submit(ctx, &mockJob{shouldErr: true})
		pool.Submit(ctx, &mockJob{})
	}()

	results := pool.Wait()
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}

	var failed int
	for _, r := range results {
		if r.Err() != nil {
			failed++
		}
	}
	if failed != 1 {
		t.Errorf("expected 1 failed result, got %d", failed)
	}
}

func TestPool_SubmitAfterCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	pool := NewPool(2)
	pool.Start(ctx)

	cancel()

	if pool.Submit(ctx, &mockJob{}) {
		t.Error("Submit must refuse jobs after cancellation")
	}

	pool.Close()
	pool.Wait()
}

func TestPool_CancelReturnsCompletedWork(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	pool := NewPool(1)
	pool.Start(ctx)

	go func() {
		defer pool.Close()
		pool.Submit(ctx, &mockJob{}) // fast job completes
		time.Sleep(50 * time.Millisecond)
		cancel()
		pool.Submit(ctx, &mockJob{}) // refused
	}()

	results := pool.Wait()
	if len(results) == 0 {
		t.Error("expected the completed job's result to survive cancellation")
	}
}
