package zelsched

import (
	"context"
	"errors"

	"github.com/reusee/zel/zelval"
)

// Task is a host call taken off the interpreter, like an I/O bound member method.
type Task func(ctx context.Context) (zelval.Value, error)

// Completion receives the outcome of a Task, exactly once, possibly on another goroutine.
type Completion func(zelval.Value, error)

// Scheduler runs suspended host calls. Implementations are injected into the executor.
type Scheduler interface {
	Submit(ctx context.Context, task Task, done Completion) error
}

var (
	ErrClosed    = errors.New("scheduler closed")
	ErrQueueFull = errors.New("scheduler queue full")
)

// AsyncPolicy decides which member calls suspend the invocation.
type AsyncPolicy interface {
	Async(member string) bool
}

// AsyncMembers is an AsyncPolicy listing member names.
type AsyncMembers map[string]bool

func (a AsyncMembers) Async(member string) bool {
	return a[member]
}

// Inline runs tasks on the submitting goroutine.
type Inline struct{}

var _ Scheduler = Inline{}

func (Inline) Submit(ctx context.Context, task Task, done Completion) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	done(runTask(ctx, task))
	return nil
}
