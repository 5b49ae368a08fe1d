package syncs

import (
	"context"
	"errors"
	"testing"
)

func TestSemaphore(t *testing.T) {
	sem := NewSemaphore(2)
	sem.Acquire()
	if !sem.TryAcquire() {
		t.Fatal()
	}
	if sem.TryAcquire() {
		t.Fatal("should be full")
	}
	if sem.InUse() != 2 {
		t.Fatalf("got %d", sem.InUse())
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := sem.AcquireContext(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("got %v", err)
	}

	sem.Release()
	if err := sem.AcquireContext(context.Background()); err != nil {
		t.Fatal(err)
	}
}
