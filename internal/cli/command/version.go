package command

import (
	"github.com/urfave/cli/v2"

	"github.com/Mesbahzade/tdesktop/internal/core/settings"
	"github.com/Mesbahzade/tdesktop/internal/infra/buildinfo"
)

func versionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Print build information",
		Action: func(c *cli.Context) error {
			info := buildinfo.Get(int32(len(settings.GroupNames())))
			return runtimeFrom(c).print(info)
		},
	}
}
