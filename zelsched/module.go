package zelsched

import (
	"github.com/reusee/dscope"
	"github.com/reusee/zel/logs"
	"github.com/reusee/zel/zelconfigs"
)

type Module struct {
	dscope.Module
	Logs    logs.Module
	Configs zelconfigs.Module
}

// Pool is created on first use. Its owner calls Shutdown.
func (Module) Pool(
	workers zelconfigs.Workers,
	queue zelconfigs.QueueSize,
	logger logs.Logger,
) *Pool {
	return NewPool(int(workers), int(queue), logger)
}

func (Module) Scheduler(
	pool *Pool,
) Scheduler {
	return pool
}

func (Module) AsyncPolicy(
	members zelconfigs.AsyncMembers,
) AsyncPolicy {
	policy := make(AsyncMembers, len(members))
	for _, member := range members {
		policy[member] = true
	}
	return policy
}
