package zel

import (
	"github.com/reusee/dscope"
	"github.com/reusee/zel/logs"
	"github.com/reusee/zel/zelcompiler"
	"github.com/reusee/zel/zelconfigs"
	"github.com/reusee/zel/zelmethod"
	"github.com/reusee/zel/zelsched"
	"github.com/reusee/zel/zelvm"
)

type Module struct {
	dscope.Module
	Logs    logs.Module
	Configs zelconfigs.Module
	Method  zelmethod.Module
	Sched   zelsched.Module
	VM      zelvm.Module
}

func (Module) Cache(
	policy zelsched.AsyncPolicy,
) *Cache {
	return NewCache(zelcompiler.WithAsyncPolicy(policy))
}

func (Module) Engine(
	executor *zelvm.Executor,
	cache *Cache,
) *Engine {
	return NewEngine(executor, cache)
}
