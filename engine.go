package zel

import (
	"context"

	"github.com/reusee/zel/zelval"
	"github.com/reusee/zel/zelvm"
)

// Engine compiles through a cache and executes with a configured executor.
type Engine struct {
	executor *zelvm.Executor
	cache    *Cache
}

func NewEngine(executor *zelvm.Executor, cache *Cache) *Engine {
	if executor == nil {
		executor = defaultExecutor()
	}
	if cache == nil {
		cache = NewCache()
	}
	return &Engine{
		executor: executor,
		cache:    cache,
	}
}

func (e *Engine) Executor() *zelvm.Executor {
	return e.executor
}

func (e *Engine) Compile(src string, params ...string) (*Program, error) {
	return e.cache.Compile(src, params...)
}

func (e *Engine) Start(ctx context.Context, program *Program, args ...any) (*zelvm.Context, error) {
	return e.executor.Start(ctx, program, args...)
}

func (e *Engine) Execute(ctx context.Context, program *Program, args ...any) (Value, error) {
	return e.executor.Execute(ctx, program, args...)
}

func (e *Engine) Eval(ctx context.Context, src string, params []string, args ...any) (Value, error) {
	program, err := e.cache.Compile(src, params...)
	if err != nil {
		return zelval.Null, err
	}
	return e.executor.Execute(ctx, program, args...)
}
