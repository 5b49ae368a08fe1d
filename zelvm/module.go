package zelvm

import (
	"github.com/reusee/dscope"
	"github.com/reusee/zel/logs"
	"github.com/reusee/zel/zelconfigs"
	"github.com/reusee/zel/zelmethod"
	"github.com/reusee/zel/zelsched"
)

type Module struct {
	dscope.Module
	Method zelmethod.Module
	Sched  zelsched.Module
}

func (Module) Executor(
	resolver *zelmethod.Resolver,
	scheduler zelsched.Scheduler,
	logger logs.Logger,
	trace zelconfigs.Trace,
	maxStack zelconfigs.MaxStack,
) *Executor {
	executor := NewExecutor(resolver, scheduler, logger)
	executor.Trace = bool(trace)
	executor.MaxStack = int(maxStack)
	return executor
}
