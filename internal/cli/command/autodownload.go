package command

import (
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/Mesbahzade/tdesktop/internal/cli/output"
	"github.com/Mesbahzade/tdesktop/internal/core/autodownload"
	"github.com/Mesbahzade/tdesktop/internal/core/domain"
	"github.com/Mesbahzade/tdesktop/internal/core/settings"
)

func autoDownloadCommand() *cli.Command {
	return &cli.Command{
		Name:    "autodownload",
		Aliases: []string{"ad"},
		Usage:   "Inspect and change the media auto-download limits",
		Subcommands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Print the limit of every source and media type",
				Action: autoDownloadShow,
			},
			{
				Name:      "set",
				Usage:     "Set the byte limit for a source and media type",
				ArgsUsage: "SOURCE TYPE BYTES",
				Action:    autoDownloadSet,
			},
			{
				Name:   "reset",
				Usage:  "Restore the default limits",
				Action: autoDownloadReset,
			},
		},
	}
}

func autoDownloadShow(c *cli.Context) error {
	rt := runtimeFrom(c)
	var policy autodownload.Full
	err := rt.withSettings(c.Context, false, func(s *settings.Settings) error {
		policy = s.AutoDownload()
		return nil
	})
	if err != nil {
		return err
	}
	return rt.print(policyTable(policy))
}

func policyTable(policy autodownload.Full) *output.Table {
	t := output.NewTable("SOURCE", "TYPE", "LIMIT")
	for _, source := range autodownload.Sources() {
		for _, kind := range autodownload.Types() {
			t.AddRow(source.String(), kind.String(), strconv.FormatInt(int64(policy.Limit(source, kind)), 10))
		}
	}
	return t
}

func autoDownloadSet(c *cli.Context) error {
	if c.NArg() != 3 {
		return domain.ErrMissingArgument.WithDetails("usage: autodownload set SOURCE TYPE BYTES")
	}
	source, err := parseSource(c.Args().Get(0))
	if err != nil {
		return err
	}
	kind, err := parseType(c.Args().Get(1))
	if err != nil {
		return err
	}
	limit, err := strconv.ParseInt(c.Args().Get(2), 10, 32)
	if err != nil || limit < 0 {
		return domain.ErrInvalidSettingValue.WithDetails("limit must be a non-negative byte count")
	}

	rt := runtimeFrom(c)
	var policy autodownload.Full
	err = rt.withSettings(c.Context, true, func(s *settings.Settings) error {
		policy = s.AutoDownload()
		policy.SetLimit(source, kind, int32(limit))
		s.SetAutoDownload(policy)
		return nil
	})
	if err != nil {
		return err
	}
	return rt.print(fieldValue{
		Field: source.String() + "." + kind.String(),
		Value: strconv.FormatInt(int64(policy.Limit(source, kind)), 10),
	})
}

func autoDownloadReset(c *cli.Context) error {
	rt := runtimeFrom(c)
	policy := autodownload.Defaults()
	err := rt.withSettings(c.Context, true, func(s *settings.Settings) error {
		s.SetAutoDownload(policy)
		return nil
	})
	if err != nil {
		return err
	}
	return rt.print(policyTable(policy))
}
