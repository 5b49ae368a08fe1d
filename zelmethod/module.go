package zelmethod

import (
	"github.com/reusee/dscope"
	"github.com/reusee/zel/logs"
)

type Module struct {
	dscope.Module
	Logs logs.Module
}

func (Module) Resolver(
	logger logs.Logger,
) *Resolver {
	return NewResolver(logger)
}
