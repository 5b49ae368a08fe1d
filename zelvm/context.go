package zelvm

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/reusee/zel/zelmethod"
	"github.com/reusee/zel/zelval"
)

type State uint8

const (
	StateReady State = iota
	StateRunning
	StateSuspended
	StateCompleted
	StateFailed
)

var stateNames = [...]string{
	StateReady:     "ready",
	StateRunning:   "running",
	StateSuspended: "suspended",
	StateCompleted: "completed",
	StateFailed:    "failed",
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("state(%d)", uint8(s))
}

func (s State) Terminal() bool {
	return s == StateCompleted || s == StateFailed
}

var ErrStale = errors.New("stale suspension token")

// SuspensionToken identifies one suspended member call of an invocation.
// It resumes the invocation at most once.
type SuspensionToken struct {
	ID         uuid.UUID
	IP         int
	Member     string
	context    *Context
	generation uint64
	handle     *zelmethod.Handle
	recv       zelval.Value
	args       []zelval.Value
}

// Call performs the suspended member call.
func (t *SuspensionToken) Call(ctx context.Context) (zelval.Value, error) {
	return invoke(ctx, t.handle, t.recv, t.args)
}

// invoke calls a member, reporting a panic of host code as an error.
func invoke(ctx context.Context, handle *zelmethod.Handle, recv zelval.Value, args []zelval.Value) (ret zelval.Value, err error) {
	defer func() {
		if p := recover(); p != nil {
			ret = zelval.Null
			err = fmt.Errorf("host call %s panic: %v", handle.Name, p)
		}
	}()
	return handle.Invoke(ctx, recv, args)
}

// Context is the private state of one invocation of a Program.
// Nothing in it is shared with other invocations.
type Context struct {
	ID       uuid.UUID
	program  *Program
	executor *Executor

	// canceled when the invocation reaches a terminal state
	ctx    context.Context
	cancel context.CancelFunc
	stop   func() bool

	mu         sync.Mutex
	state      State
	runnable   bool
	generation uint64
	pending    *SuspensionToken
	result     zelval.Value
	err        error
	done       chan struct{}

	// submission bookkeeping of the driver
	submitting bool
	resumed    bool

	cancelled atomic.Bool

	// owned by the goroutine running the interpreter loop
	ip    int
	stack []zelval.Value
	sp    int
	args  []zelval.Value
}

func (c *Context) Program() *Program {
	return c.program
}

func (c *Context) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Done is closed when the invocation completes or fails.
func (c *Context) Done() <-chan struct{} {
	return c.done
}

// Result returns the outcome of a finished invocation.
func (c *Context) Result() (zelval.Value, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.state.Terminal() {
		return zelval.Null, fmt.Errorf("%w: %s", ErrState, c.state)
	}
	return c.result, c.err
}

// Wait blocks until the invocation finishes or ctx is done.
func (c *Context) Wait(ctx context.Context) (zelval.Value, error) {
	select {
	case <-c.done:
		return c.Result()
	case <-ctx.Done():
		return zelval.Null, ctx.Err()
	}
}

// Bindings returns the arguments by parameter name.
func (c *Context) Bindings() map[string]zelval.Value {
	ret := make(map[string]zelval.Value, len(c.args))
	for i, name := range c.program.params {
		ret[name] = c.args[i]
	}
	return ret
}

// Pending returns the outstanding suspension token, if any.
func (c *Context) Pending() *SuspensionToken {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending
}

// Resume delivers the outcome of a suspended call.
// Tokens of a cancelled or already resumed suspension are rejected with ErrStale.
func (c *Context) Resume(token *SuspensionToken, value zelval.Value, err error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if token == nil ||
		token.context != c ||
		c.state != StateSuspended ||
		c.pending != token ||
		token.generation != c.generation {
		return ErrStale
	}
	c.pending = nil
	if err != nil {
		c.finishLocked(StateFailed, zelval.Null, newError(token.IP, OpSuspendCall, err))
		return nil
	}
	c.stack[c.sp] = value
	c.sp++
	c.state = StateRunning
	c.runnable = true
	return nil
}

// Cancel requests cancellation. An invocation that is not executing instructions fails at once;
// a running one fails before its next instruction.
func (c *Context) Cancel() {
	c.cancelled.Store(true)
	c.mu.Lock()
	defer c.mu.Unlock()
	switch c.state {
	case StateReady, StateSuspended:
	case StateRunning:
		if !c.runnable {
			return
		}
	default:
		return
	}
	ip := c.ip
	c.generation++
	c.pending = nil
	c.runnable = false
	c.finishLocked(StateFailed, zelval.Null, c.cancelError(ip))
}

func (c *Context) cancelError(ip int) error {
	cause := context.Cause(c.ctx)
	if cause == nil {
		return &ExecutionError{
			Kind: KindCancelled,
			IP:   ip,
			Err:  ErrCancelled,
		}
	}
	return &ExecutionError{
		Kind: KindCancelled,
		IP:   ip,
		Err:  fmt.Errorf("%w: %w", ErrCancelled, cause),
	}
}

func (c *Context) finish(state State, result zelval.Value, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.finishLocked(state, result, err)
}

func (c *Context) finishLocked(state State, result zelval.Value, err error) {
	if c.state.Terminal() {
		return
	}
	c.state = state
	c.result = result
	c.err = err
	// release stack references
	clear(c.stack)
	c.sp = 0
	if c.stop != nil {
		c.stop()
	}
	c.cancel()
	close(c.done)
	c.executor.finished(c)
}
