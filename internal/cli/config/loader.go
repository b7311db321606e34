package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/Mesbahzade/tdesktop/internal/infra/confloader"
)

// Load builds the configuration from defaults, the YAML file at path, the
// environment and flags, in increasing priority. An empty path reads
// DefaultConfigPath when it exists. flags maps dotted keys to values.
func Load(path string, flags map[string]any) (*Config, error) {
	path, err := resolvePath(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	l := confloader.NewLoader(
		confloader.WithConfigFile(path),
		confloader.WithKnownKeys(Keys()...),
	)
	if err := l.Load(cfg); err != nil {
		return nil, err
	}
	if len(flags) > 0 {
		if err := l.LoadMap(flags); err != nil {
			return nil, err
		}
		if err := l.Unmarshal(cfg); err != nil {
			return nil, fmt.Errorf("unmarshal flags: %w", err)
		}
	}
	return cfg, nil
}

func resolvePath(path string) (string, error) {
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return "", fmt.Errorf("config file: %w", err)
		}
		return path, nil
	}
	def := DefaultConfigPath()
	if _, err := os.Stat(def); errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	return def, nil
}

// Watch reloads the configuration whenever the file at path changes and
// passes every valid result to apply. Invalid reloads are logged and
// skipped. The returned func stops watching.
func Watch(path string, flags map[string]any, logger *slog.Logger, apply func(*Config)) (stop func() error, err error) {
	if logger == nil {
		logger = slog.Default()
	}
	w, err := confloader.NewWatcher(confloader.WithWatcherLogger(logger))
	if err != nil {
		return nil, err
	}
	if err := w.Watch(path); err != nil {
		_ = w.Stop()
		return nil, err
	}

	w.OnChange(func(string) {
		cfg, err := Load(path, flags)
		if err == nil {
			err = Verify(cfg)
		}
		if err != nil {
			logger.Warn("configuration reload rejected", "path", path, "error", err)
			return
		}
		logger.Info("configuration reloaded", "path", path)
		apply(cfg)
	})
	w.StartAsync()
	return w.Stop, nil
}
