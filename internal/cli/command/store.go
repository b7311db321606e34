package command

import (
	"context"
	"errors"
	"path/filepath"
	"time"

	"golang.org/x/time/rate"

	"github.com/Mesbahzade/tdesktop/internal/cli/config"
	"github.com/Mesbahzade/tdesktop/internal/core/service"
	"github.com/Mesbahzade/tdesktop/internal/core/settings"
	"github.com/Mesbahzade/tdesktop/internal/storage"
	"github.com/Mesbahzade/tdesktop/internal/storage/localfile"
	"github.com/Mesbahzade/tdesktop/pkg/crypto/adaptive"
)

// Store returns the configured settings store, opening it on first use.
func (rt *runtime) Store() (storage.SettingsStore, error) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if rt.store != nil {
		return rt.store, nil
	}
	store, err := openStore(rt.cfg, rt)
	if err != nil {
		return nil, err
	}
	rt.store = store
	return store, nil
}

func openStore(cfg *config.Config, rt *runtime) (storage.SettingsStore, error) {
	log := rt.log.Slog()
	switch cfg.Storage.Backend {
	case config.BackendBadger:
		kv := storage.DefaultKVConfig(filepath.Join(cfg.Storage.DataDir, "badger"))
		kv.Badger.GCInterval = cfg.Storage.Badger.GCInterval.String()
		kv.Badger.GCThreshold = cfg.Storage.Badger.GCThreshold
		kv.Badger.SyncWrites = cfg.Storage.Badger.SyncWrites
		engine, err := storage.NewBadgerEngine(kv, log)
		if err != nil {
			return nil, err
		}
		engine.RegisterMetrics(rt.metrics.Registerer())
		return storage.NewKVSettingsStore(engine, log), nil

	default:
		cipher, err := adaptive.ParseCipherType(cfg.Security.Cipher)
		if err != nil {
			return nil, err
		}
		var passcode []byte
		if cfg.Security.Passcode != "" {
			passcode = []byte(cfg.Security.Passcode)
		}
		return localfile.Open(localfile.Config{
			Dir:        filepath.Join(cfg.Storage.DataDir, "accounts"),
			BackupKeep: cfg.Storage.BackupKeep,
			AppVersion: localfile.DefaultAppVersion,
			Passcode:   passcode,
			CipherType: cipher,
			Logger:     log,
		})
	}
}

// newLimiter spaces writes by interval. Zero disables spacing.
func newLimiter(interval time.Duration) *rate.Limiter {
	if interval <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Every(interval), 1)
}

// sessionConfig returns the session wiring shared by one-shot commands
// and the REPL.
func (rt *runtime) sessionConfig(store storage.SettingsStore, exec service.Executor) service.SessionConfig {
	return service.SessionConfig{
		UserID:    rt.cfg.CLI.Account,
		Store:     store,
		Executor:  exec,
		Logger:    rt.log,
		Metrics:   rt.metrics,
		SaveDelay: rt.cfg.Settings.SaveDelay,
		Limiter:   newLimiter(rt.cfg.Settings.MinWriteInterval),
	}
}

// withSession runs fn against the live REPL session or, for one-shot
// commands, a session loaded for this call only. save writes the one-shot
// session after fn succeeds; the live session saves on its own.
func (rt *runtime) withSession(ctx context.Context, save bool, fn func(*service.Session) error) (err error) {
	if rt.live != nil {
		return fn(rt.live)
	}

	store, err := rt.Store()
	if err != nil {
		return err
	}
	cfg := rt.sessionConfig(store, &service.InlineExecutor{})
	cfg.DisableAutoSave = true
	sess, err := service.NewSession(cfg)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, sess.Close(ctx))
	}()

	if err := sess.Start(ctx); err != nil {
		return err
	}
	if err := fn(sess); err != nil {
		return err
	}
	if save {
		return sess.SaveSettingsNow(ctx)
	}
	return nil
}

// withSettings runs fn on the settings of the session executor.
func (rt *runtime) withSettings(ctx context.Context, save bool, fn func(*settings.Settings) error) error {
	return rt.withSession(ctx, save, func(sess *service.Session) error {
		var fnErr error
		if err := sess.Do(ctx, func(s *settings.Settings) { fnErr = fn(s) }); err != nil {
			return err
		}
		return fnErr
	})
}
