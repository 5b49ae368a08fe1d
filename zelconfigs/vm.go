package zelconfigs

import (
	"github.com/reusee/zel/cmds"
	"github.com/reusee/zel/configs"
	"github.com/reusee/zel/modes"
)

// MaxStack limits the operand stack depth of executed programs. Zero means unlimited.
type MaxStack int

func (Module) MaxStack(
	loader configs.Loader,
) MaxStack {
	return MaxStack(configs.First[int](loader, "vm.stack"))
}

type Trace bool

var traceFlag = cmds.Switch("-trace")

func (Module) Trace(
	loader configs.Loader,
	mode modes.Mode,
) Trace {
	return Trace(*traceFlag ||
		configs.First[bool](loader, "vm.trace") ||
		mode.Tracing())
}

// AsyncMembers names members whose calls run on the scheduler.
type AsyncMembers []string

var asyncFlag = cmds.Collect[string]("-async")

func (Module) AsyncMembers(
	loader configs.Loader,
) (ret AsyncMembers) {
	ret = append(ret, *asyncFlag...)
	for members := range configs.All[[]string](loader, "vm.async") {
		ret = append(ret, members...)
	}
	return
}
