package command

import (
	"context"
	"io"
	"os"
	"sync"

	"github.com/urfave/cli/v2"

	"github.com/Mesbahzade/tdesktop/internal/cli/config"
	"github.com/Mesbahzade/tdesktop/internal/cli/output"
	"github.com/Mesbahzade/tdesktop/internal/core/service"
	"github.com/Mesbahzade/tdesktop/internal/infra/buildinfo"
	"github.com/Mesbahzade/tdesktop/internal/storage"
	"github.com/Mesbahzade/tdesktop/internal/telemetry/logger"
	"github.com/Mesbahzade/tdesktop/internal/telemetry/metric"
)

const (
	runtimeKey  = "runtime"
	ownsRuntime = "owns_runtime"
)

// App creates the CLI application.
func App() *cli.App {
	return newApp(os.Stdin, os.Stdout, os.Stderr)
}

func newApp(stdin io.Reader, stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:      "tdsettings",
		Usage:     "Inspect and edit the persisted session settings of the desktop chat client",
		Version:   buildinfo.String(),
		Flags:     globalFlags(),
		Reader:    stdin,
		Writer:    stdout,
		ErrWriter: stderr,
		Commands: []*cli.Command{
			showCommand(),
			getCommand(),
			setCommand(),
			resetCommand(),
			soundCommand(),
			hiddenCommand(),
			autoDownloadCommand(),
			blobCommand(),
			storageCommand(),
			replCommand(),
			versionCommand(),
		},
		Before: before,
		After:  after,
		// Errors are returned to main, never turned into os.Exit here.
		ExitErrHandler: func(*cli.Context, error) {},
	}
}

// globalFlags returns the global CLI flags. Each maps to a configuration
// key and overrides the file and the environment when set.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Configuration file (default: " + config.DefaultConfigPath() + " when present)",
		},
		&cli.StringFlag{
			Name:  "data-dir",
			Usage: "Settings data directory",
		},
		&cli.StringFlag{
			Name:  "backend",
			Usage: "Storage backend: file, badger",
		},
		&cli.StringFlag{
			Name:    "account",
			Aliases: []string{"a"},
			Usage:   "Account whose settings are used",
		},
		&cli.StringFlag{
			Name:  "passcode",
			Usage: "Local passcode for encrypted settings files",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: table, json, yaml",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"V"},
			Usage:   "Enable debug logging",
		},
	}
}

// flagOverrides maps the global flags that were set to configuration
// keys.
func flagOverrides(c *cli.Context) map[string]any {
	out := make(map[string]any)
	for flag, key := range map[string]string{
		"data-dir": "storage.data_dir",
		"backend":  "storage.backend",
		"account":  "cli.account",
		"passcode": "security.passcode",
		"output":   "cli.output",
	} {
		if c.IsSet(flag) {
			out[key] = c.String(flag)
		}
	}
	if c.Bool("verbose") {
		out["log.level"] = "debug"
	}
	return out
}

// runtime is shared by the commands of one invocation, or by every line
// of a REPL.
type runtime struct {
	cfg     *config.Config
	cfgPath string
	flags   map[string]any
	log     logger.Logger
	metrics *metric.Registry
	format  output.Format
	stdout  io.Writer
	stderr  io.Writer

	mu    sync.Mutex
	store storage.SettingsStore

	// live is the REPL session; nil for one-shot commands.
	live *service.Session
}

func before(c *cli.Context) error {
	if _, ok := c.App.Metadata[runtimeKey]; ok {
		return nil
	}

	flags := flagOverrides(c)
	cfg, err := config.Load(c.String("config"), flags)
	if err != nil {
		return err
	}
	if err := config.Verify(cfg); err != nil {
		return err
	}
	format, err := output.ParseFormat(cfg.CLI.Output)
	if err != nil {
		return err
	}
	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: c.App.ErrWriter,
	})
	if err != nil {
		return err
	}

	c.App.Metadata[runtimeKey] = &runtime{
		cfg:     cfg,
		cfgPath: c.String("config"),
		flags:   flags,
		log:     log,
		metrics: metric.NewRegistry(),
		format:  format,
		stdout:  c.App.Writer,
		stderr:  c.App.ErrWriter,
	}
	c.App.Metadata[ownsRuntime] = true
	return nil
}

func after(c *cli.Context) error {
	if owns, _ := c.App.Metadata[ownsRuntime].(bool); !owns {
		return nil
	}
	rt, ok := c.App.Metadata[runtimeKey].(*runtime)
	if !ok {
		return nil
	}
	return rt.Close()
}

func runtimeFrom(c *cli.Context) *runtime {
	rt, ok := c.App.Metadata[runtimeKey].(*runtime)
	if !ok {
		panic("command: runtime not initialized")
	}
	return rt
}

// print renders data in the configured format.
func (rt *runtime) print(data any) error {
	return output.NewFormatter(rt.format).Format(rt.stdout, data)
}

// Close closes the store if one was opened.
func (rt *runtime) Close() error {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if rt.store == nil {
		return nil
	}
	err := rt.store.Close()
	rt.store = nil
	return err
}

// runLine runs args as a command line against this runtime.
func (rt *runtime) runLine(ctx context.Context, args []string) error {
	app := newApp(nil, rt.stdout, rt.stderr)
	app.Metadata = map[string]any{runtimeKey: rt}
	return app.RunContext(ctx, append([]string{app.Name}, args...))
}

// PrintError prints an error message to stderr.
func PrintError(w io.Writer, err error) {
	if w == nil {
		w = os.Stderr
	}
	io.WriteString(w, "error: "+err.Error()+"\n")
}
