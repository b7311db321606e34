package config

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/Mesbahzade/tdesktop/internal/telemetry/logger"
	"github.com/Mesbahzade/tdesktop/pkg/crypto/adaptive"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("config: invalid")

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...)
}

// Verify validates cfg and creates the data directory. All problems are
// reported together.
func Verify(cfg *Config) error {
	errs := []error{
		verifyStorage(&cfg.Storage),
		verifySettings(&cfg.Settings),
		verifySecurity(&cfg.Security),
		verifyLog(&cfg.Log),
		verifyCLI(&cfg.CLI),
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}

	if err := os.MkdirAll(cfg.Storage.DataDir, 0o700); err != nil {
		return fmt.Errorf("cannot create data directory: %w", err)
	}
	return nil
}

func verifyStorage(s *StorageSection) error {
	var errs []error
	if s.Backend != BackendFile && s.Backend != BackendBadger {
		errs = append(errs, invalid("storage.backend %q: want file or badger", s.Backend))
	}
	if s.DataDir == "" {
		errs = append(errs, invalid("storage.data_dir is required"))
	}
	if s.Backend == BackendBadger {
		if s.Badger.GCInterval <= 0 {
			errs = append(errs, invalid("storage.badger.gc_interval must be positive"))
		}
		if s.Badger.GCThreshold <= 0 || s.Badger.GCThreshold >= 1 {
			errs = append(errs, invalid("storage.badger.gc_threshold must be in (0, 1)"))
		}
	}
	return errors.Join(errs...)
}

func verifySettings(s *SettingsSection) error {
	var errs []error
	if s.SaveDelay <= 0 {
		errs = append(errs, invalid("settings.save_delay must be positive"))
	}
	if s.MinWriteInterval < 0 {
		errs = append(errs, invalid("settings.min_write_interval must not be negative"))
	}
	return errors.Join(errs...)
}

func verifySecurity(s *SecuritySection) error {
	if s.Cipher == "" {
		return nil
	}
	if _, err := adaptive.ParseCipherType(s.Cipher); err != nil {
		return invalid("security.cipher: %v", err)
	}
	return nil
}

func verifyLog(s *LogSection) error {
	var errs []error
	if _, err := logger.ParseLevel(s.Level); err != nil {
		errs = append(errs, invalid("log.level: %v", err))
	}
	if s.Format != "json" && s.Format != "text" {
		errs = append(errs, invalid("log.format %q: want json or text", s.Format))
	}
	return errors.Join(errs...)
}

func verifyCLI(s *CLISection) error {
	var errs []error
	if !slices.Contains([]string{"table", "json", "yaml"}, s.Output) {
		errs = append(errs, invalid("cli.output %q: want table, json or yaml", s.Output))
	}
	if s.Account == "" {
		errs = append(errs, invalid("cli.account is required"))
	}
	return errors.Join(errs...)
}
