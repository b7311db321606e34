package command

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/Mesbahzade/tdesktop/internal/cli/config"
	"github.com/Mesbahzade/tdesktop/internal/cli/repl"
	"github.com/Mesbahzade/tdesktop/internal/core/domain"
	"github.com/Mesbahzade/tdesktop/internal/core/service"
	"github.com/Mesbahzade/tdesktop/internal/core/settings"
	"github.com/Mesbahzade/tdesktop/internal/infra/shutdown"
	"github.com/Mesbahzade/tdesktop/internal/telemetry/logger"
)

func replCommand() *cli.Command {
	return &cli.Command{
		Name:  "repl",
		Usage: "Start an interactive shell on a live session",
		Description: "Commands run against one session whose changes are saved after " +
			"settings.save_delay. The configuration file is watched for log.level and " +
			"settings.save_delay changes. Pending changes are written on exit.",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "no-history", Usage: "Do not read or write the history file"},
		},
		Action: runREPL,
	}
}

// lockedWriter serializes writes from the shell and from event observers.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

func historyPath() string {
	return filepath.Join(filepath.Dir(config.DefaultConfigPath()), "history")
}

// watchPath returns the configuration file to watch, or "".
func (rt *runtime) watchPath() string {
	if rt.cfgPath != "" {
		return rt.cfgPath
	}
	if _, err := os.Stat(config.DefaultConfigPath()); err == nil {
		return config.DefaultConfigPath()
	}
	return ""
}

// completions lists every command phrase plus the field names of get
// and set.
func completions(app *cli.App) []string {
	var out []string
	for _, cmd := range app.Commands {
		if cmd.Name == "repl" || cmd.Hidden {
			continue
		}
		out = append(out, cmd.Name)
		for _, sub := range cmd.Subcommands {
			out = append(out, cmd.Name+" "+sub.Name)
		}
	}
	for _, name := range settings.FieldNames() {
		out = append(out, "get "+name, "set "+name)
	}
	return out
}

func runREPL(c *cli.Context) error {
	rt := runtimeFrom(c)
	if rt.live != nil {
		return domain.ErrInvalidArgument.WithDetails("already in the repl")
	}

	ctx, stop := shutdown.WithSignals(c.Context)
	defer stop()

	out := &lockedWriter{w: rt.stdout}
	rt.stdout = out

	store, err := rt.Store()
	if err != nil {
		return err
	}
	loop := service.NewLoop()
	loop.Start()
	sess, err := service.NewSession(rt.sessionConfig(store, loop))
	if err != nil {
		loop.Stop()
		return err
	}

	h := shutdown.NewHandler(shutdown.DefaultTimeout)
	// Hooks run in reverse: the session flushes before the loop stops.
	h.OnShutdown("executor", func(context.Context) error {
		loop.Stop()
		return nil
	})
	h.OnShutdown("session", sess.Close)

	if err := sess.Start(ctx); err != nil {
		return errors.Join(err, h.Shutdown())
	}
	sub := sess.Subscribe(func(ev service.Event) {
		if ev.Kind == service.EventChanged {
			fmt.Fprintf(out, "* %s changed\n", ev.Field)
		}
	})
	h.OnShutdown("events", func(context.Context) error {
		sub.Unsubscribe()
		return nil
	})

	if path := rt.watchPath(); path != "" {
		stopWatch, err := config.Watch(path, rt.flags, rt.log.Slog(), func(cfg *config.Config) {
			logger.SetLevel(cfg.Log.Level)
			sess.SetSaveDelay(cfg.Settings.SaveDelay)
		})
		if err != nil {
			rt.log.Warn("configuration watch disabled", "path", path, "error", err)
		} else {
			h.OnShutdown("config watcher", func(context.Context) error { return stopWatch() })
		}
	}

	if addr := rt.cfg.Metrics.Addr; addr != "" {
		srv, err := serveMetrics(addr, rt)
		if err != nil {
			return errors.Join(err, h.Shutdown())
		}
		h.OnShutdown("metrics server", srv.Shutdown)
	}

	history := repl.NewHistory(historyPath(), repl.DefaultHistorySize)
	if c.Bool("no-history") {
		history = repl.NewHistory("", repl.DefaultHistorySize)
	}
	if err := history.Load(); err != nil {
		rt.log.Warn("history not loaded", "error", err)
	}

	rt.live = sess
	defer func() { rt.live = nil }()

	fmt.Fprintf(out, "tdsettings %s, account %s. Type exit to quit, PREFIX? to complete.\n",
		c.App.Version, rt.cfg.CLI.Account)
	shell := repl.New(repl.Config{
		Input:     c.App.Reader,
		Output:    out,
		Execute:   rt.runLine,
		Completer: repl.NewCompleter(completions(c.App)...),
		History:   history,
	})
	runErr := shell.Run(ctx)

	if err := history.Save(); err != nil {
		rt.log.Warn("history not saved", "error", err)
	}
	return errors.Join(runErr, h.Shutdown())
}

func serveMetrics(addr string, rt *runtime) (*http.Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("metrics listen: %w", err)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", rt.metrics.Handler())
	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			rt.log.Error("metrics server stopped", "error", err)
		}
	}()
	rt.log.Info("metrics endpoint listening", "addr", ln.Addr().String())
	return srv, nil
}
