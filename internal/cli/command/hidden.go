package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/Mesbahzade/tdesktop/internal/cli/output"
	"github.com/Mesbahzade/tdesktop/internal/core/domain"
	"github.com/Mesbahzade/tdesktop/internal/core/settings"
)

func hiddenCommand() *cli.Command {
	return &cli.Command{
		Name:  "hidden",
		Usage: "Manage chats whose group sticker section is hidden",
		Subcommands: []*cli.Command{
			{
				Name:      "add",
				Usage:     "Hide the group sticker section of PEER",
				ArgsUsage: "PEER",
				Action:    hiddenAdd,
			},
			{
				Name:      "remove",
				Aliases:   []string{"rm"},
				Usage:     "Show the group sticker section of PEER again",
				ArgsUsage: "PEER",
				Action:    hiddenRemove,
			},
			{
				Name:   "list",
				Usage:  "List peers with a hidden section",
				Action: hiddenList,
			},
		},
	}
}

func peerArg(c *cli.Context, usage string) (domain.PeerID, error) {
	if c.NArg() != 1 {
		return 0, domain.ErrMissingArgument.WithDetails("usage: " + usage)
	}
	return domain.ParsePeerID(c.Args().First())
}

func hiddenAdd(c *cli.Context) error {
	peer, err := peerArg(c, "hidden add PEER")
	if err != nil {
		return err
	}
	rt := runtimeFrom(c)
	err = rt.withSettings(c.Context, true, func(s *settings.Settings) error {
		s.SetGroupStickersSectionHidden(peer)
		return nil
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(rt.stdout, "%s hidden\n", peer)
	return nil
}

func hiddenRemove(c *cli.Context) error {
	peer, err := peerArg(c, "hidden remove PEER")
	if err != nil {
		return err
	}
	rt := runtimeFrom(c)
	var was bool
	err = rt.withSettings(c.Context, true, func(s *settings.Settings) error {
		was = s.IsGroupStickersSectionHidden(peer)
		s.RemoveGroupStickersSectionHidden(peer)
		return nil
	})
	if err != nil {
		return err
	}
	if !was {
		fmt.Fprintf(rt.stdout, "%s was not hidden\n", peer)
		return nil
	}
	fmt.Fprintf(rt.stdout, "%s shown\n", peer)
	return nil
}

type hiddenPeer struct {
	Peer    string `json:"peer" yaml:"peer"`
	Kind    string `json:"kind" yaml:"kind"`
	BareID  uint32 `json:"bare_id" yaml:"bare_id"`
	Encoded uint64 `json:"encoded" yaml:"encoded"`
}

func peerKind(p domain.PeerID) string {
	switch {
	case p.IsUser():
		return "user"
	case p.IsChat():
		return "chat"
	case p.IsChannel():
		return "channel"
	default:
		return "unknown"
	}
}

func hiddenList(c *cli.Context) error {
	rt := runtimeFrom(c)
	var peers []domain.PeerID
	err := rt.withSettings(c.Context, false, func(s *settings.Settings) error {
		peers = s.GroupStickersSectionsHidden()
		return nil
	})
	if err != nil {
		return err
	}

	rows := make([]hiddenPeer, 0, len(peers))
	for _, p := range peers {
		rows = append(rows, hiddenPeer{
			Peer:    p.String(),
			Kind:    peerKind(p),
			BareID:  p.Bare(),
			Encoded: uint64(p),
		})
	}
	if len(rows) == 0 && rt.format == output.FormatTable {
		fmt.Fprintln(rt.stdout, "no hidden sections")
		return nil
	}
	return rt.print(rows)
}
