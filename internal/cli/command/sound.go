package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/Mesbahzade/tdesktop/internal/cli/output"
	"github.com/Mesbahzade/tdesktop/internal/core/domain"
	"github.com/Mesbahzade/tdesktop/internal/core/settings"
)

func soundCommand() *cli.Command {
	return &cli.Command{
		Name:  "sound",
		Usage: "Manage notification sound overrides",
		Subcommands: []*cli.Command{
			{
				Name:      "get",
				Usage:     "Print the sound used for KEY",
				ArgsUsage: "KEY",
				Action:    soundGet,
			},
			{
				Name:      "set",
				Usage:     "Override the sound for KEY",
				ArgsUsage: "KEY PATH",
				Action:    soundSet,
			},
			{
				Name:   "list",
				Usage:  "List every override",
				Action: soundList,
			},
			{
				Name:   "clear",
				Usage:  "Remove every override",
				Action: soundClear,
			},
		},
	}
}

func soundGet(c *cli.Context) error {
	if c.NArg() != 1 {
		return domain.ErrMissingArgument.WithDetails("usage: sound get KEY")
	}
	key := c.Args().First()

	rt := runtimeFrom(c)
	var path string
	err := rt.withSettings(c.Context, false, func(s *settings.Settings) error {
		path = s.SoundPath(key)
		return nil
	})
	if err != nil {
		return err
	}
	return rt.print(fieldValue{Field: key, Value: path})
}

func soundSet(c *cli.Context) error {
	if c.NArg() != 2 {
		return domain.ErrMissingArgument.WithDetails("usage: sound set KEY PATH")
	}
	key, path := c.Args().Get(0), c.Args().Get(1)
	if key == "" {
		return domain.ErrInvalidArgument.WithDetails("sound key is empty")
	}

	rt := runtimeFrom(c)
	err := rt.withSettings(c.Context, true, func(s *settings.Settings) error {
		s.SetSoundOverride(key, path)
		return nil
	})
	if err != nil {
		return err
	}
	return rt.print(fieldValue{Field: key, Value: path})
}

func soundList(c *cli.Context) error {
	rt := runtimeFrom(c)
	var overrides map[string]string
	err := rt.withSettings(c.Context, false, func(s *settings.Settings) error {
		overrides = s.SoundOverrides()
		return nil
	})
	if err != nil {
		return err
	}

	if overrides == nil {
		overrides = map[string]string{}
	}
	if rt.format != output.FormatTable {
		return rt.print(overrides)
	}
	t := output.NewTable("KEY", "PATH")
	for _, key := range sortedStrings(overrides) {
		t.AddRow(key, overrides[key])
	}
	return rt.print(t)
}

func soundClear(c *cli.Context) error {
	rt := runtimeFrom(c)
	var n int
	err := rt.withSettings(c.Context, true, func(s *settings.Settings) error {
		n = len(s.SoundOverrides())
		s.ClearSoundOverrides()
		return nil
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(rt.stdout, "%d sound overrides removed\n", n)
	return nil
}
