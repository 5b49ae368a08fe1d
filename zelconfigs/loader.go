package zelconfigs

import (
	_ "embed"
	"slices"

	"github.com/reusee/zel/cmds"
	"github.com/reusee/zel/configs"
	"github.com/reusee/zel/logs"
)

//go:embed schema.cue
var Schema string

var configFileFlag = cmds.Collect[string]("-config")

func (Module) ConfigsLoader(
	logger logs.Logger,
) configs.Loader {
	paths := append(
		slices.Clone(*configFileFlag),
		configs.Discover("zel.cue", ".zel.cue")...,
	)
	if len(paths) > 0 {
		logger.Info("config file",
			"paths", paths,
		)
	}
	return configs.NewLoader(paths, Schema)
}
