package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestPool_StartStop(t *testing.T) {
	var processed atomic.Int64
	processor := func(ctx context.Context, job int) error {
		processed.Add(1)
		return nil
	}

	pool := NewPool[int](2, 10, processor)

	ctx := context.Background()
	pool.Start(ctx)

	for i := 0; i < 5; i++ {
		pool.Submit(ctx, i)
	}

	// Stop drains the queue before returning
	pool.Stop()

	if processed.Load() != 5 {
		t.Errorf("expected 5 jobs processed, got %d", processed.Load())
	}
}

func TestPool_ConcurrentSubmit(t *testing.T) {
	var processed atomic.Int64
	processor := func(ctx context.Context, job string) error {
		processed.Add(1)
		return nil
	}

	pool := NewPool[string](4, 100, processor)

	ctx := context.Background()
	pool.Start(ctx)

	done := make(chan struct{})
	for i := 0; i < 100; i++ {
		go func() {
			pool.Submit(ctx, "chart")
			done <- struct{}{}
		}()
	}
	for i := 0; i < 100; i++ {
		<-done
	}

	pool.Stop()

	if processed.Load() != 100 {
		t.Errorf("expected 100 jobs processed, got %d", processed.Load())
	}
}

func TestPool_CountsFailures(t *testing.T) {
	processor := func(ctx context.Context, job int) error {
		if job%2 == 0 {
			return errors.New("even job")
		}
		return nil
	}

	pool := NewPool[int](2, 10, processor)
	ctx := context.Background()
	pool.Start(ctx)
	for i := 0; i < 6; i++ {
		pool.Submit(ctx, i)
	}
	pool.Stop()

	if pool.Failed() != 3 {
		t.Errorf("expected 3 failed jobs, got %d", pool.Failed())
	}
}

func TestPool_ZeroWorkersStillRuns(t *testing.T) {
	var processed atomic.Int64
	pool := NewPool[int](0, 1, func(ctx context.Context, job int) error {
		processed.Add(1)
		return nil
	})

	ctx := context.Background()
	pool.Start(ctx)
	pool.Submit(ctx, 1)
	pool.Stop()

	if processed.Load() != 1 {
		t.Errorf("expected 1 job processed, got %d", processed.Load())
	}
}

func TestPool_SubmitAfterCancel(t *testing.T) {
	pool := NewPool[int](1, 0, func(ctx context.Context, job int) error {
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	pool.Start(ctx)
	cancel()

	// Unbuffered queue and no live worker: only ctx.Done can win.
	time.Sleep(10 * time.Millisecond)
	if pool.Submit(ctx, 1) {
		t.Error("expected Submit to refuse the job after cancel")
	}
	pool.Stop()
}

func TestPool_GracefulShutdown(t *testing.T) {
	var processed atomic.Int64
	processor := func(ctx context.Context, job int) error {
		time.Sleep(10 * time.Millisecond)
		processed.Add(1)
		return nil
	}

	pool := NewPool[int](2, 50, processor)

	ctx, cancel := context.WithCancel(context.Background())
	pool.Start(ctx)

	for i := 0; i < 20; i++ {
		pool.Submit(ctx, i)
	}

	cancel()

	done := make(chan struct{})
	go func() {
		pool.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("pool.Stop() timed out")
	}

	t.Logf("processed %d jobs before shutdown", processed.Load())
}
