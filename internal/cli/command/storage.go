package command

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/Mesbahzade/tdesktop/internal/cli/config"
	"github.com/Mesbahzade/tdesktop/internal/cli/output"
	"github.com/Mesbahzade/tdesktop/internal/core/domain"
	"github.com/Mesbahzade/tdesktop/internal/storage"
	"github.com/Mesbahzade/tdesktop/internal/storage/localfile"
)

type accountLister interface {
	ListAccounts(ctx context.Context) ([]string, error)
}

type engineStore interface {
	Engine() storage.KVEngine
}

func storageCommand() *cli.Command {
	return &cli.Command{
		Name:  "storage",
		Usage: "Maintain the settings backend",
		Subcommands: []*cli.Command{
			{
				Name:   "accounts",
				Usage:  "List accounts with stored settings",
				Action: storageAccounts,
			},
			{
				Name:   "stats",
				Usage:  "Print backend statistics (badger) or the account files (file)",
				Action: storageStats,
			},
			{
				Name:   "gc",
				Usage:  "Run value log garbage collection (badger)",
				Action: storageGC,
			},
			{
				Name:      "backup",
				Usage:     "Write a full backup of the backend (badger)",
				ArgsUsage: "FILE",
				Action:    storageBackup,
			},
			{
				Name:      "restore",
				Usage:     "Replace the backend contents with a backup (badger)",
				ArgsUsage: "FILE",
				Action:    storageRestore,
			},
		},
	}
}

func storageAccounts(c *cli.Context) error {
	rt := runtimeFrom(c)
	store, err := rt.Store()
	if err != nil {
		return err
	}
	lister, ok := store.(accountLister)
	if !ok {
		return domain.ErrInvalidArgument.WithDetails("backend cannot list accounts")
	}
	accounts, err := lister.ListAccounts(c.Context)
	if err != nil {
		return domain.ErrStorageError.WithDetails("list accounts").WithCause(err)
	}
	if rt.format != output.FormatTable {
		return rt.print(accounts)
	}
	t := output.NewTable("ACCOUNT")
	for _, a := range accounts {
		t.AddRow(a)
	}
	return rt.print(t)
}

// engine returns the KV engine of the badger backend.
func (rt *runtime) engine(command string) (storage.KVEngine, error) {
	store, err := rt.Store()
	if err != nil {
		return nil, err
	}
	es, ok := store.(engineStore)
	if !ok {
		return nil, domain.ErrInvalidArgument.WithDetails(fmt.Sprintf(
			"storage %s requires the %s backend, have %s", command, config.BackendBadger, rt.cfg.Storage.Backend))
	}
	return es.Engine(), nil
}

func storageStats(c *cli.Context) error {
	rt := runtimeFrom(c)
	store, err := rt.Store()
	if err != nil {
		return err
	}
	if fs, ok := store.(*localfile.Store); ok {
		files, err := fs.Inspect(c.Context, rt.cfg.CLI.Account)
		if err != nil {
			return domain.ErrStorageError.WithDetails("inspect settings files").WithCause(err)
		}
		return rt.print(files)
	}

	kv, err := rt.engine("stats")
	if err != nil {
		return err
	}
	stats, err := kv.Stats(c.Context)
	if err != nil {
		return domain.ErrStorageError.WithDetails("stats").WithCause(err)
	}
	return rt.print(stats)
}

// interactive reports whether w is a terminal.
func interactive(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice != 0
}

func storageGC(c *cli.Context) error {
	rt := runtimeFrom(c)
	kv, err := rt.engine("gc")
	if err != nil {
		return err
	}

	var spinner *output.Spinner
	if interactive(rt.stderr) {
		spinner = output.NewSpinner(rt.stderr, "collecting value log")
		spinner.Start()
	}
	rewrites, err := kv.GC(c.Context)
	if err != nil {
		if spinner != nil {
			spinner.Fail(err.Error())
		}
		return domain.ErrStorageError.WithDetails("gc").WithCause(err)
	}
	if spinner != nil {
		spinner.Success(fmt.Sprintf("%d value log files rewritten", rewrites))
		return nil
	}
	fmt.Fprintf(rt.stdout, "%d value log files rewritten\n", rewrites)
	return nil
}

func storageBackup(c *cli.Context) error {
	if c.NArg() != 1 {
		return domain.ErrMissingArgument.WithDetails("usage: storage backup FILE")
	}
	rt := runtimeFrom(c)
	kv, err := rt.engine("backup")
	if err != nil {
		return err
	}

	snap, err := kv.SaveSnapshot(c.Context)
	if err != nil {
		return domain.ErrStorageError.WithDetails("backup").WithCause(err)
	}
	defer snap.Close()

	f, err := os.OpenFile(c.Args().First(), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	n, err := io.Copy(f, snap)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return domain.ErrStorageError.WithDetails("write backup").WithCause(err)
	}
	fmt.Fprintf(rt.stdout, "%d bytes written to %s\n", n, c.Args().First())
	return nil
}

func storageRestore(c *cli.Context) error {
	if c.NArg() != 1 {
		return domain.ErrMissingArgument.WithDetails("usage: storage restore FILE")
	}
	rt := runtimeFrom(c)
	if rt.live != nil {
		return domain.ErrInvalidArgument.WithDetails("storage restore is not available in the repl")
	}
	kv, err := rt.engine("restore")
	if err != nil {
		return err
	}

	f, err := os.Open(c.Args().First())
	if err != nil {
		return err
	}
	defer f.Close()
	if err := kv.LoadSnapshot(c.Context, f); err != nil {
		return domain.ErrStorageError.WithDetails("restore").WithCause(err)
	}
	fmt.Fprintf(rt.stdout, "restored from %s\n", c.Args().First())
	return nil
}
