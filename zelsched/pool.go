package zelsched

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/reusee/zel/logs"
	"github.com/reusee/zel/syncs"
	"github.com/reusee/zel/zelval"
)

// Pool runs tasks on goroutines, at most workers at a time.
// It must be shut down explicitly.
type Pool struct {
	sem     syncs.Semaphore
	queue   int
	waiting atomic.Int64
	logger  logs.Logger

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

var _ Scheduler = new(Pool)

// NewPool creates a pool. queue limits tasks waiting for a worker; zero means unlimited.
func NewPool(workers int, queue int, logger logs.Logger) *Pool {
	if workers <= 0 {
		workers = 1
	}
	if logger == nil {
		logger = logs.Discard()
	}
	return &Pool{
		sem:    syncs.NewSemaphore(workers),
		queue:  queue,
		logger: logger,
	}
}

func (p *Pool) Submit(ctx context.Context, task Task, done Completion) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrClosed
	}
	if p.queue > 0 && p.waiting.Load() >= int64(p.queue) {
		p.mu.Unlock()
		return ErrQueueFull
	}
	p.waiting.Add(1)
	p.wg.Add(1)
	p.mu.Unlock()

	go p.run(ctx, task, done)
	return nil
}

func (p *Pool) run(ctx context.Context, task Task, done Completion) {
	defer p.wg.Done()

	err := p.sem.AcquireContext(ctx)
	p.waiting.Add(-1)
	if err != nil {
		// cancelled while queued
		done(zelval.Null, err)
		return
	}

	value, err := func() (zelval.Value, error) {
		defer p.sem.Release()
		return runTask(ctx, task)
	}()

	// a continuation may submit again, so the slot is released first
	done(value, err)
}

// Running returns the number of tasks holding a worker.
func (p *Pool) Running() int {
	return p.sem.InUse()
}

// Waiting returns the number of tasks queued for a worker.
func (p *Pool) Waiting() int {
	return int(p.waiting.Load())
}

// Shutdown rejects new tasks and waits for submitted ones and their completions.
func (p *Pool) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()

	finished := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(finished)
	}()

	select {
	case <-finished:
		p.logger.Debug("scheduler pool shut down")
		return nil
	case <-ctx.Done():
		p.logger.Warn("scheduler pool shutdown interrupted",
			"running", p.Running(),
			"waiting", p.Waiting(),
		)
		return ctx.Err()
	}
}

func runTask(ctx context.Context, task Task) (value zelval.Value, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("host task panic: %v", p)
		}
	}()
	return task(ctx)
}
