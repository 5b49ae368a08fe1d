package zelvm

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/reusee/zel/zelsched"
	"github.com/reusee/zel/zelval"
	"golang.org/x/sync/errgroup"
)

// s.trim().length(), both calls suspending
func suspendingProgram(t *testing.T) *Program {
	return mustProgram(t, []OpCode{
		OpLoadParam.With(0),
		OpSuspendCall.With(0),
		OpSuspendCall.With(1),
		OpMakeResult,
	}, nil, []string{"s"}, []CallSite{
		{Name: "trim"},
		{Name: "length"},
	})
}

type heldTask struct {
	ctx  context.Context
	task zelsched.Task
	done zelsched.Completion
}

// holdScheduler keeps tasks until the test completes them.
type holdScheduler struct {
	mu    sync.Mutex
	tasks []heldTask
}

func (h *holdScheduler) Submit(ctx context.Context, task zelsched.Task, done zelsched.Completion) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.tasks = append(h.tasks, heldTask{ctx, task, done})
	return nil
}

func (h *holdScheduler) take() heldTask {
	h.mu.Lock()
	defer h.mu.Unlock()
	task := h.tasks[0]
	h.tasks = h.tasks[1:]
	return task
}

func TestSuspendInline(t *testing.T) {
	executor := NewExecutor(nil, zelsched.Inline{}, nil)
	v, err := executor.Execute(context.Background(), suspendingProgram(t), "  abcd ")
	if err != nil {
		t.Fatal(err)
	}
	if !zelval.Equal(v, zelval.Int(4)) {
		t.Fatalf("got %v", v)
	}
}

func TestSuspendPool(t *testing.T) {
	pool := zelsched.NewPool(2, 0, nil)
	defer func() {
		if err := pool.Shutdown(context.Background()); err != nil {
			t.Fatal(err)
		}
	}()
	executor := NewExecutor(nil, pool, nil)
	p := suspendingProgram(t)

	var group errgroup.Group
	for i := range 100 {
		group.Go(func() error {
			s := fmt.Sprintf(" %d ", i)
			v, err := executor.Execute(context.Background(), p, s)
			if err != nil {
				return err
			}
			if expected := int64(len(fmt.Sprint(i))); !zelval.Equal(v, zelval.Int(expected)) {
				return fmt.Errorf("got %v, expected %d", v, expected)
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		t.Fatal(err)
	}
}

func TestManualResume(t *testing.T) {
	executor := NewExecutor(nil, nil, nil)
	c, err := executor.Prepare(context.Background(), suspendingProgram(t), " ab ")
	if err != nil {
		t.Fatal(err)
	}

	var token *SuspensionToken
	for tk, err := range c.Run {
		if err != nil {
			t.Fatal(err)
		}
		token = tk
	}
	if token == nil {
		t.Fatal("not suspended")
	}
	if token.Member != "trim" || token.IP != 1 {
		t.Fatalf("got %+v", token)
	}
	if c.State() != StateSuspended || c.Pending() != token {
		t.Fatalf("got %v", c.State())
	}

	// run while suspended
	for _, err := range c.Run {
		if !errors.Is(err, ErrState) {
			t.Fatalf("got %v", err)
		}
	}

	v, err := token.Call(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Resume(token, v, nil); err != nil {
		t.Fatal(err)
	}
	if err := c.Resume(token, v, nil); !errors.Is(err, ErrStale) {
		t.Fatalf("got %v", err)
	}

	token = nil
	for tk, err := range c.Run {
		if err != nil {
			t.Fatal(err)
		}
		token = tk
	}
	if token == nil || token.Member != "length" {
		t.Fatalf("got %+v", token)
	}
	if err := c.Resume(token, zelval.Int(2), nil); err != nil {
		t.Fatal(err)
	}
	for range c.Run {
		t.Fatal("unexpected yield")
	}

	if c.State() != StateCompleted {
		t.Fatalf("got %v", c.State())
	}
	ret, err := c.Result()
	if err != nil {
		t.Fatal(err)
	}
	if !zelval.Equal(ret, zelval.Int(2)) {
		t.Fatalf("got %v", ret)
	}
}

func TestCancelSuspended(t *testing.T) {
	scheduler := new(holdScheduler)
	executor := NewExecutor(nil, scheduler, nil)
	c, err := executor.Start(context.Background(), suspendingProgram(t), "foo")
	if err != nil {
		t.Fatal(err)
	}
	if c.State() != StateSuspended {
		t.Fatalf("got %v", c.State())
	}
	held := scheduler.take()

	c.Cancel()
	if c.State() != StateFailed {
		t.Fatalf("got %v", c.State())
	}
	<-c.Done()
	_, err = c.Result()
	if !errors.Is(err, ErrCancelled) {
		t.Fatalf("got %v", err)
	}
	var execErr *ExecutionError
	if !errors.As(err, &execErr) || execErr.Kind != KindCancelled {
		t.Fatalf("got %v", err)
	}
	if held.ctx.Err() == nil {
		t.Fatal("task context not cancelled")
	}

	// late completion has no effect
	held.done(zelval.Text("foo"), nil)
	if c.State() != StateFailed {
		t.Fatalf("got %v", c.State())
	}
	_, err = c.Result()
	if !errors.Is(err, ErrCancelled) {
		t.Fatalf("got %v", err)
	}
	scheduler.mu.Lock()
	n := len(scheduler.tasks)
	scheduler.mu.Unlock()
	if n != 0 {
		t.Fatalf("got %d", n)
	}
}

func TestCancelByContext(t *testing.T) {
	scheduler := new(holdScheduler)
	executor := NewExecutor(nil, scheduler, nil)
	ctx, cancel := context.WithCancel(context.Background())
	c, err := executor.Start(ctx, suspendingProgram(t), "foo")
	if err != nil {
		t.Fatal(err)
	}
	cancel()
	_, err = c.Wait(context.Background())
	if !errors.Is(err, ErrCancelled) {
		t.Fatalf("got %v", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("got %v", err)
	}
}

type canceller struct {
	c *Context
}

func (x *canceller) Stop() int {
	x.c.Cancel()
	return 1
}

func TestCancelWhileRunning(t *testing.T) {
	p := mustProgram(t, []OpCode{
		OpLoadParam.With(0),
		OpCallMethod.With(0),
		OpMakeResult,
	}, nil, []string{"x"}, []CallSite{
		{Name: "stop"},
	})
	x := new(canceller)
	c, err := NewExecutor(nil, nil, nil).Prepare(context.Background(), p, x)
	if err != nil {
		t.Fatal(err)
	}
	x.c = c
	var runErr error
	for _, err := range c.Run {
		runErr = err
	}
	if !errors.Is(runErr, ErrCancelled) {
		t.Fatalf("got %v", runErr)
	}
	var execErr *ExecutionError
	if !errors.As(runErr, &execErr) || execErr.IP != 2 {
		t.Fatalf("got %v", runErr)
	}
	if c.State() != StateFailed {
		t.Fatalf("got %v", c.State())
	}
}

func TestSuspendedCallError(t *testing.T) {
	scheduler := new(holdScheduler)
	c, err := NewExecutor(nil, scheduler, nil).Start(context.Background(), suspendingProgram(t), "foo")
	if err != nil {
		t.Fatal(err)
	}
	errFoo := errors.New("foo")
	scheduler.take().done(zelval.Null, errFoo)
	_, err = c.Wait(context.Background())
	if !errors.Is(err, errFoo) || !errors.Is(err, ErrHost) {
		t.Fatalf("got %v", err)
	}
	var execErr *ExecutionError
	if !errors.As(err, &execErr) || execErr.IP != 1 || execErr.Op != OpSuspendCall {
		t.Fatalf("got %v", err)
	}
}

func TestSubmitRejected(t *testing.T) {
	pool := zelsched.NewPool(1, 0, nil)
	if err := pool.Shutdown(context.Background()); err != nil {
		t.Fatal(err)
	}
	_, err := NewExecutor(nil, pool, nil).Execute(context.Background(), suspendingProgram(t), "foo")
	if !errors.Is(err, zelsched.ErrClosed) {
		t.Fatalf("got %v", err)
	}
}
