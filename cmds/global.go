package cmds

import "os"

// GlobalExecutor holds the commands and flags defined by packages at init time.
var GlobalExecutor = NewExecutor()

func Define(name string, command *Command) {
	GlobalExecutor.Define(name, command)
}

// ExecuteArgs runs the process arguments.
func ExecuteArgs() error {
	return GlobalExecutor.Execute(os.Args[1:])
}
