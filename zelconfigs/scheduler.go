package zelconfigs

import (
	"runtime"

	"github.com/reusee/zel/cmds"
	"github.com/reusee/zel/configs"
	"github.com/reusee/zel/vars"
)

// Workers bounds concurrently running host calls of the scheduler pool.
type Workers int

var workersFlag = cmds.Var[int]("-workers")

func (Module) Workers(
	loader configs.Loader,
) Workers {
	return Workers(vars.FirstNonZero(
		*workersFlag,
		configs.First[int](loader, "scheduler.workers"),
		runtime.NumCPU(),
	))
}

// QueueSize bounds host calls waiting for a worker. Zero means unlimited.
type QueueSize int

var queueFlag = cmds.Var[int]("-queue")

func (Module) QueueSize(
	loader configs.Loader,
) QueueSize {
	return QueueSize(vars.FirstNonZero(
		*queueFlag,
		configs.First[int](loader, "scheduler.queue"),
	))
}
