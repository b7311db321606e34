package config

import (
	"os"
	"path/filepath"
	"time"
)

// Storage backends.
const (
	BackendFile   = "file"
	BackendBadger = "badger"
)

// Default configuration values.
const (
	DefaultBackend          = BackendFile
	DefaultBackupKeep       = 2
	DefaultGCInterval       = 10 * time.Minute
	DefaultGCThreshold      = 0.5
	DefaultSaveDelay        = time.Second
	DefaultMinWriteInterval = 0
	DefaultLogLevel         = "warn"
	DefaultLogFormat        = "text"
	DefaultOutput           = "table"
	DefaultAccount          = "main"
)

func baseDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "tdesktop")
}

// DefaultConfigPath returns the path read when --config is not given.
func DefaultConfigPath() string {
	return filepath.Join(baseDir(), "tdsettings.yaml")
}

// DefaultDataDir returns the default storage directory.
func DefaultDataDir() string {
	return filepath.Join(baseDir(), "data")
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Storage: StorageSection{
			Backend:    DefaultBackend,
			DataDir:    DefaultDataDir(),
			BackupKeep: DefaultBackupKeep,
			Badger: BadgerSection{
				GCInterval:  DefaultGCInterval,
				GCThreshold: DefaultGCThreshold,
				SyncWrites:  true,
			},
		},
		Settings: SettingsSection{
			SaveDelay:        DefaultSaveDelay,
			MinWriteInterval: DefaultMinWriteInterval,
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
		CLI: CLISection{
			Output:  DefaultOutput,
			Account: DefaultAccount,
		},
	}
}
