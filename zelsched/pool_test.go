package zelsched

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/reusee/zel/zelval"
)

func TestInline(t *testing.T) {
	var called bool
	err := Inline{}.Submit(context.Background(), func(ctx context.Context) (zelval.Value, error) {
		return zelval.Int(1), nil
	}, func(v zelval.Value, err error) {
		if err != nil {
			t.Fatal(err)
		}
		if v.AsInt() != 1 {
			t.Fatalf("got %v", v)
		}
		called = true
	})
	if err != nil {
		t.Fatal(err)
	}
	// synchronous
	if !called {
		t.Fatal()
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = Inline{}.Submit(ctx, func(ctx context.Context) (zelval.Value, error) {
		t.Fatal("should not run")
		return zelval.Null, nil
	}, func(zelval.Value, error) {})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("got %v", err)
	}
}

func TestPoolBoundsWorkers(t *testing.T) {
	pool := NewPool(2, 0, nil)
	var running, maxRunning atomic.Int64
	var wg sync.WaitGroup
	for i := range 10 {
		wg.Add(1)
		err := pool.Submit(context.Background(), func(ctx context.Context) (zelval.Value, error) {
			n := running.Add(1)
			for {
				m := maxRunning.Load()
				if n <= m || maxRunning.CompareAndSwap(m, n) {
					break
				}
			}
			time.Sleep(time.Millisecond * 5)
			running.Add(-1)
			return zelval.Int(int64(i)), nil
		}, func(v zelval.Value, err error) {
			defer wg.Done()
			if err != nil {
				t.Error(err)
			}
		})
		if err != nil {
			t.Fatal(err)
		}
	}
	wg.Wait()
	if n := maxRunning.Load(); n > 2 || n < 1 {
		t.Fatalf("got %d", n)
	}
	if err := pool.Shutdown(context.Background()); err != nil {
		t.Fatal(err)
	}
}

func TestPoolShutdown(t *testing.T) {
	pool := NewPool(1, 0, nil)
	if err := pool.Shutdown(context.Background()); err != nil {
		t.Fatal(err)
	}
	err := pool.Submit(context.Background(), func(ctx context.Context) (zelval.Value, error) {
		return zelval.Null, nil
	}, func(zelval.Value, error) {})
	if !errors.Is(err, ErrClosed) {
		t.Fatalf("got %v", err)
	}
}

func TestPoolShutdownWaits(t *testing.T) {
	pool := NewPool(1, 0, nil)
	release := make(chan struct{})
	var completed atomic.Bool
	if err := pool.Submit(context.Background(), func(ctx context.Context) (zelval.Value, error) {
		<-release
		return zelval.Null, nil
	}, func(zelval.Value, error) {
		completed.Store(true)
	}); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond*10)
	defer cancel()
	if err := pool.Shutdown(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("got %v", err)
	}

	close(release)
	if err := pool.Shutdown(context.Background()); err != nil {
		t.Fatal(err)
	}
	if !completed.Load() {
		t.Fatal()
	}
}

func TestPoolCancelledWhileQueued(t *testing.T) {
	pool := NewPool(1, 0, nil)
	defer pool.Shutdown(context.Background())

	release := make(chan struct{})
	pool.Submit(context.Background(), func(ctx context.Context) (zelval.Value, error) {
		<-release
		return zelval.Null, nil
	}, func(zelval.Value, error) {})
	for pool.Running() == 0 {
		time.Sleep(time.Millisecond)
	}

	ctx, cancel := context.WithCancel(context.Background())
	result := make(chan error, 1)
	var ran atomic.Bool
	pool.Submit(ctx, func(ctx context.Context) (zelval.Value, error) {
		ran.Store(true)
		return zelval.Null, nil
	}, func(_ zelval.Value, err error) {
		result <- err
	})
	cancel()

	if err := <-result; !errors.Is(err, context.Canceled) {
		t.Fatalf("got %v", err)
	}
	close(release)
	if ran.Load() {
		t.Fatal("should not run")
	}
}

func TestPoolQueueFull(t *testing.T) {
	pool := NewPool(1, 1, nil)
	release := make(chan struct{})
	defer func() {
		close(release)
		pool.Shutdown(context.Background())
	}()
	block := func(ctx context.Context) (zelval.Value, error) {
		<-release
		return zelval.Null, nil
	}
	noop := func(zelval.Value, error) {}

	if err := pool.Submit(context.Background(), block, noop); err != nil {
		t.Fatal(err)
	}
	// wait until the first task holds the worker
	for pool.Running() == 0 {
		time.Sleep(time.Millisecond)
	}
	if err := pool.Submit(context.Background(), block, noop); err != nil {
		t.Fatal(err)
	}
	if err := pool.Submit(context.Background(), block, noop); !errors.Is(err, ErrQueueFull) {
		t.Fatalf("got %v", err)
	}
}

func TestPoolRecoversPanic(t *testing.T) {
	pool := NewPool(1, 0, nil)
	defer pool.Shutdown(context.Background())
	result := make(chan error, 1)
	pool.Submit(context.Background(), func(ctx context.Context) (zelval.Value, error) {
		panic("boom")
	}, func(_ zelval.Value, err error) {
		result <- err
	})
	if err := <-result; err == nil || !strings.Contains(err.Error(), "boom") {
		t.Fatalf("got %v", err)
	}
}

func TestAsyncMembers(t *testing.T) {
	policy := AsyncMembers{"fetch": true}
	if !policy.Async("fetch") || policy.Async("length") {
		t.Fatal()
	}
	var none AsyncMembers
	if none.Async("fetch") {
		t.Fatal()
	}
}
