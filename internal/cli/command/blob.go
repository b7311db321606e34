package command

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/Mesbahzade/tdesktop/internal/cli/output"
	"github.com/Mesbahzade/tdesktop/internal/core/domain"
	"github.com/Mesbahzade/tdesktop/internal/core/service"
	"github.com/Mesbahzade/tdesktop/internal/core/settings"
)

func blobCommand() *cli.Command {
	return &cli.Command{
		Name:  "blob",
		Usage: "Work with raw serialized settings blobs",
		Subcommands: []*cli.Command{
			{
				Name:      "decode",
				Usage:     "Decode a raw blob and report how much of it applies",
				ArgsUsage: "FILE|-",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "show", Usage: "Also print the decoded settings"},
				},
				Action: blobDecode,
			},
			{
				Name:      "encode",
				Usage:     "Write the account settings as a raw blob",
				ArgsUsage: "FILE|-",
				Action:    blobEncode,
			},
			{
				Name:      "import",
				Usage:     "Validate a raw blob and store it as the account settings",
				ArgsUsage: "FILE|-",
				Action:    blobImport,
			},
		},
	}
}

// decodeResult reports a decode outcome.
type decodeResult struct {
	Result        string `json:"result" yaml:"result"`
	Bytes         int    `json:"bytes" yaml:"bytes"`
	GroupsApplied int    `json:"groups_applied" yaml:"groups_applied"`
	GroupsKnown   int    `json:"groups_known" yaml:"groups_known"`
	StoppedAt     string `json:"stopped_at,omitempty" yaml:"stopped_at,omitempty"`
	TrailingBytes int    `json:"trailing_bytes" yaml:"trailing_bytes"`
	Error         string `json:"error,omitempty" yaml:"error,omitempty"`
}

func readInput(c *cli.Context, usage string) ([]byte, error) {
	if c.NArg() != 1 {
		return nil, domain.ErrMissingArgument.WithDetails("usage: " + usage)
	}
	if name := c.Args().First(); name != "-" {
		return os.ReadFile(name)
	}
	return io.ReadAll(c.App.Reader)
}

// decodeBlob hydrates a fresh store from data. The returned error is the
// decode failure, if any; the store then holds the defaults.
func decodeBlob(data []byte, rt *runtime) (*settings.Settings, decodeResult, error) {
	var (
		report    settings.DecodeReport
		decodeErr error
	)
	s := settings.New(settings.Options{
		Logger: rt.log,
		OnDecode: func(r settings.DecodeReport, err error) {
			report, decodeErr = r, err
			rt.metrics.RecordDecode(r.Result(err))
		},
	})
	s.ConstructFromSerialized(data)

	res := decodeResult{
		Result:        report.Result(decodeErr),
		Bytes:         len(data),
		GroupsApplied: report.GroupsApplied,
		GroupsKnown:   len(settings.GroupNames()),
		StoppedAt:     report.StoppedAt,
		TrailingBytes: report.TrailingBytes,
	}
	if decodeErr != nil {
		res.Error = decodeErr.Error()
	}
	return s, res, decodeErr
}

func blobDecode(c *cli.Context) error {
	data, err := readInput(c, "blob decode FILE|-")
	if err != nil {
		return err
	}
	rt := runtimeFrom(c)
	s, res, _ := decodeBlob(data, rt)

	if !c.Bool("show") {
		return rt.print(res)
	}
	view := newSettingsView(rt.cfg.CLI.Account, s)
	if rt.format == output.FormatTable {
		if err := rt.print(res); err != nil {
			return err
		}
		fmt.Fprintln(rt.stdout)
		return rt.print(view)
	}
	return rt.print(struct {
		Report   decodeResult `json:"report" yaml:"report"`
		Settings settingsView `json:"settings" yaml:"settings"`
	}{res, view})
}

func blobEncode(c *cli.Context) error {
	if c.NArg() != 1 {
		return domain.ErrMissingArgument.WithDetails("usage: blob encode FILE|-")
	}
	rt := runtimeFrom(c)
	var blob []byte
	err := rt.withSettings(c.Context, false, func(s *settings.Settings) error {
		blob = s.Serialize()
		return nil
	})
	if err != nil {
		return err
	}

	if name := c.Args().First(); name != "-" {
		if err := os.WriteFile(name, blob, 0o600); err != nil {
			return err
		}
		fmt.Fprintf(rt.stdout, "%d bytes written to %s\n", len(blob), name)
		return nil
	}
	_, err = rt.stdout.Write(blob)
	return err
}

func blobImport(c *cli.Context) error {
	data, err := readInput(c, "blob import FILE|-")
	if err != nil {
		return err
	}
	rt := runtimeFrom(c)
	imported, res, err := decodeBlob(data, rt)
	if err != nil {
		return err
	}

	err = rt.withSession(c.Context, false, func(sess *service.Session) error {
		if err := sess.MoveSettingsFrom(c.Context, imported); err != nil {
			return err
		}
		return sess.SaveSettingsNow(c.Context)
	})
	if err != nil {
		return err
	}
	return rt.print(res)
}
