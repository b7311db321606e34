package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/Mesbahzade/tdesktop/internal/cli/output"
	"github.com/Mesbahzade/tdesktop/internal/core/autodownload"
	"github.com/Mesbahzade/tdesktop/internal/core/domain"
	"github.com/Mesbahzade/tdesktop/internal/core/service"
	"github.com/Mesbahzade/tdesktop/internal/core/settings"
)

func showCommand() *cli.Command {
	return &cli.Command{
		Name:   "show",
		Usage:  "Print every setting of the account",
		Action: settingsShow,
	}
}

func getCommand() *cli.Command {
	return &cli.Command{
		Name:      "get",
		Usage:     "Print one setting",
		ArgsUsage: "FIELD",
		Action:    settingsGet,
	}
}

func setCommand() *cli.Command {
	return &cli.Command{
		Name:      "set",
		Usage:     "Change one setting and save",
		ArgsUsage: "FIELD VALUE",
		Description: "Enum fields take the value name, bools take true/false and " +
			"dialogs_width_ratio takes a number in [0, 1].",
		Action: settingsSet,
	}
}

func resetCommand() *cli.Command {
	return &cli.Command{
		Name:   "reset",
		Usage:  "Replace the account settings with the defaults",
		Action: settingsReset,
	}
}

// settingsView is the full printable state of one account.
type settingsView struct {
	Account        string                      `json:"account" yaml:"account"`
	Fields         map[string]string           `json:"fields" yaml:"fields"`
	SoundOverrides map[string]string           `json:"sound_overrides" yaml:"sound_overrides"`
	Hidden         []string                    `json:"group_stickers_section_hidden" yaml:"group_stickers_section_hidden"`
	AutoDownload   map[string]map[string]int32 `json:"auto_download" yaml:"auto_download"`

	order []string
}

func newSettingsView(account string, s *settings.Settings) settingsView {
	v := settingsView{
		Account:        account,
		Fields:         make(map[string]string),
		SoundOverrides: s.SoundOverrides(),
		Hidden:         []string{},
		AutoDownload:   autoDownloadMap(s.AutoDownload()),
	}
	for _, f := range settings.Fields() {
		v.Fields[f.Name] = f.Get(s)
		v.order = append(v.order, f.Name)
	}
	for _, peer := range s.GroupStickersSectionsHidden() {
		v.Hidden = append(v.Hidden, peer.String())
	}
	return v
}

// Table lists scalar fields first, then one row per collection entry.
func (v settingsView) Table() *output.Table {
	t := output.NewTable("FIELD", "VALUE")
	for _, name := range v.order {
		t.AddRow(name, v.Fields[name])
	}
	for _, key := range sortedStrings(v.SoundOverrides) {
		t.AddRow(settings.FieldSoundOverrides+"."+key, v.SoundOverrides[key])
	}
	for _, peer := range v.Hidden {
		t.AddRow(settings.FieldGroupStickersSectionHidden, peer)
	}
	for _, source := range autodownload.Sources() {
		for _, kind := range autodownload.Types() {
			t.AddRow(
				fmt.Sprintf("%s.%s.%s", settings.FieldAutoDownload, source, kind),
				fmt.Sprint(v.AutoDownload[source.String()][kind.String()]),
			)
		}
	}
	return t
}

func settingsShow(c *cli.Context) error {
	rt := runtimeFrom(c)
	var view settingsView
	err := rt.withSettings(c.Context, false, func(s *settings.Settings) error {
		view = newSettingsView(rt.cfg.CLI.Account, s)
		return nil
	})
	if err != nil {
		return err
	}
	return rt.print(view)
}

// fieldValue prints as a bare value in table format.
type fieldValue struct {
	Field string `json:"field" yaml:"field"`
	Value string `json:"value" yaml:"value"`
}

func (f fieldValue) Table() *output.Table {
	t := output.NewTable()
	t.AddRow(f.Value)
	return t
}

func settingsGet(c *cli.Context) error {
	if c.NArg() != 1 {
		return domain.ErrMissingArgument.WithDetails("usage: get FIELD")
	}
	field, err := settings.LookupField(c.Args().First())
	if err != nil {
		return err
	}

	rt := runtimeFrom(c)
	var value string
	err = rt.withSettings(c.Context, false, func(s *settings.Settings) error {
		value = field.Get(s)
		return nil
	})
	if err != nil {
		return err
	}
	return rt.print(fieldValue{Field: field.Name, Value: value})
}

func settingsSet(c *cli.Context) error {
	if c.NArg() != 2 {
		return domain.ErrMissingArgument.WithDetails("usage: set FIELD VALUE")
	}
	field, err := settings.LookupField(c.Args().Get(0))
	if err != nil {
		return err
	}

	rt := runtimeFrom(c)
	var value string
	err = rt.withSettings(c.Context, true, func(s *settings.Settings) error {
		if err := field.Set(s, c.Args().Get(1)); err != nil {
			return err
		}
		value = field.Get(s)
		return nil
	})
	if err != nil {
		return err
	}
	rt.log.Debug("setting changed", "field", field.Name, "value", value)
	return rt.print(fieldValue{Field: field.Name, Value: value})
}

func settingsReset(c *cli.Context) error {
	rt := runtimeFrom(c)
	err := rt.withSession(c.Context, false, func(sess *service.Session) error {
		defaults := settings.New(settings.Options{Logger: rt.log})
		if err := sess.MoveSettingsFrom(c.Context, defaults); err != nil {
			return err
		}
		return sess.SaveSettingsNow(c.Context)
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(rt.stdout, "settings of %s reset to defaults\n", rt.cfg.CLI.Account)
	return nil
}
