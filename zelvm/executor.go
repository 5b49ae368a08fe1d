package zelvm

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/reusee/zel/logs"
	"github.com/reusee/zel/zelmethod"
	"github.com/reusee/zel/zelsched"
	"github.com/reusee/zel/zelval"
)

// Executor runs programs. It is stateless apart from its collaborators and may be shared.
type Executor struct {
	Resolver  *zelmethod.Resolver
	Scheduler zelsched.Scheduler
	Logger    logs.Logger
	// log every executed instruction
	Trace bool
	// reject programs needing a deeper operand stack, if positive
	MaxStack int
}

func NewExecutor(
	resolver *zelmethod.Resolver,
	scheduler zelsched.Scheduler,
	logger logs.Logger,
) *Executor {
	if logger == nil {
		logger = logs.Discard()
	}
	if resolver == nil {
		resolver = zelmethod.NewResolver(logger)
	}
	if scheduler == nil {
		scheduler = zelsched.Inline{}
	}
	return &Executor{
		Resolver:  resolver,
		Scheduler: scheduler,
		Logger:    logger,
	}
}

func (e *Executor) newID() uuid.UUID {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New()
	}
	return id
}

// Prepare creates an invocation without running it.
// Arguments are host values converted with zelval.FromGo, positionally bound to the program parameters.
func (e *Executor) Prepare(ctx context.Context, program *Program, args ...any) (*Context, error) {
	if len(args) != len(program.params) {
		return nil, &ExecutionError{
			Kind: KindArity,
			IP:   -1,
			Err: fmt.Errorf("%w: %s takes %d arguments, got %d",
				ErrArity, program.displayName(), len(program.params), len(args)),
		}
	}
	if e.MaxStack > 0 && program.maxStack > e.MaxStack {
		return nil, &ExecutionError{
			Kind: KindMalformed,
			IP:   -1,
			Err: fmt.Errorf("%w: %s needs stack depth %d, limit is %d",
				ErrMalformed, program.displayName(), program.maxStack, e.MaxStack),
		}
	}
	values := zelval.FromGoSlice(args)

	id := e.newID()
	parent := logs.SpanOf(ctx)
	ctx = logs.WithSpan(ctx, logs.Span(id.String()))
	invocationCtx, cancel := context.WithCancel(ctx)
	c := &Context{
		ID:       id,
		program:  program,
		executor: e,
		ctx:      invocationCtx,
		cancel:   cancel,
		state:    StateReady,
		done:     make(chan struct{}),
		stack:    make([]zelval.Value, program.maxStack),
		args:     values,
	}
	c.mu.Lock()
	c.stop = context.AfterFunc(ctx, c.Cancel)
	c.mu.Unlock()

	logArgs := []any{
		"program", program.displayName(),
		"args", len(values),
	}
	if parent != "" {
		logArgs = append(logArgs, "parent", string(parent))
	}
	e.Logger.DebugContext(ctx, "invocation started", logArgs...)
	return c, nil
}

// Start begins an invocation. It runs on the calling goroutine until the invocation finishes or
// suspends; suspended calls continue on whatever goroutine the scheduler completes them.
func (e *Executor) Start(ctx context.Context, program *Program, args ...any) (*Context, error) {
	c, err := e.Prepare(ctx, program, args...)
	if err != nil {
		return nil, err
	}
	e.drive(c)
	return c, nil
}

// Execute runs an invocation to its end.
func (e *Executor) Execute(ctx context.Context, program *Program, args ...any) (zelval.Value, error) {
	c, err := e.Start(ctx, program, args...)
	if err != nil {
		return zelval.Null, err
	}
	<-c.done
	return c.Result()
}

func (e *Executor) drive(c *Context) {
	for {
		var token *SuspensionToken
		for t, err := range c.Run {
			if err != nil {
				return
			}
			token = t
		}
		if token == nil {
			return
		}
		if !e.submit(c, token) {
			return
		}
	}
}

// submit hands a suspended call to the scheduler.
// It reports whether the call was completed during Submit, in which case the caller continues the loop.
func (e *Executor) submit(c *Context, token *SuspensionToken) bool {
	c.mu.Lock()
	c.submitting = true
	c.resumed = false
	c.mu.Unlock()

	err := e.Scheduler.Submit(
		c.ctx,
		token.Call,
		func(value zelval.Value, err error) {
			e.complete(c, token, value, err)
		},
	)

	c.mu.Lock()
	c.submitting = false
	resumed := c.resumed
	c.mu.Unlock()

	if err != nil {
		// a stale token here means the invocation was cancelled meanwhile
		_ = c.Resume(token, zelval.Null, fmt.Errorf("submit %s: %w", token.Member, err))
		return false
	}
	return resumed
}

func (e *Executor) complete(c *Context, token *SuspensionToken, value zelval.Value, err error) {
	if rerr := c.Resume(token, value, err); rerr != nil {
		e.Logger.WarnContext(c.ctx, "discard completion",
			"token", token.ID,
			"member", token.Member,
			"ip", token.IP,
			"reason", rerr,
		)
		return
	}
	c.mu.Lock()
	inline := c.submitting
	if inline {
		c.resumed = true
	}
	c.mu.Unlock()
	if !inline {
		e.drive(c)
	}
}

func (e *Executor) finished(c *Context) {
	if c.err != nil {
		e.Logger.DebugContext(c.ctx, "invocation failed",
			"program", c.program.displayName(),
			"error", c.err,
		)
		return
	}
	e.Logger.DebugContext(c.ctx, "invocation completed",
		"program", c.program.displayName(),
		"result", c.result,
	)
}
