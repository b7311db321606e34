package config

import "time"

// Config is the root configuration of tdsettings.
type Config struct {
	Storage  StorageSection  `koanf:"storage" yaml:"storage" json:"storage"`
	Settings SettingsSection `koanf:"settings" yaml:"settings" json:"settings"`
	Security SecuritySection `koanf:"security" yaml:"security" json:"security"`
	Log      LogSection      `koanf:"log" yaml:"log" json:"log"`
	Metrics  MetricsSection  `koanf:"metrics" yaml:"metrics" json:"metrics"`
	CLI      CLISection      `koanf:"cli" yaml:"cli" json:"cli"`
}

// StorageSection selects and tunes the settings backend.
type StorageSection struct {
	// Backend is "file" (one file per account) or "badger".
	Backend    string        `koanf:"backend" yaml:"backend" json:"backend"`
	DataDir    string        `koanf:"data_dir" yaml:"data_dir" json:"data_dir"`
	BackupKeep int           `koanf:"backup_keep" yaml:"backup_keep" json:"backup_keep"`
	Badger     BadgerSection `koanf:"badger" yaml:"badger" json:"badger"`
}

// BadgerSection tunes the badger backend.
type BadgerSection struct {
	GCInterval  time.Duration `koanf:"gc_interval" yaml:"gc_interval" json:"gc_interval"`
	GCThreshold float64       `koanf:"gc_threshold" yaml:"gc_threshold" json:"gc_threshold"`
	SyncWrites  bool          `koanf:"sync_writes" yaml:"sync_writes" json:"sync_writes"`
}

// SettingsSection tunes persistence of the settings store.
type SettingsSection struct {
	SaveDelay        time.Duration `koanf:"save_delay" yaml:"save_delay" json:"save_delay"`
	MinWriteInterval time.Duration `koanf:"min_write_interval" yaml:"min_write_interval" json:"min_write_interval"`
}

// SecuritySection configures local encryption of settings files.
type SecuritySection struct {
	// Passcode enables encryption of file-backend settings when set.
	Passcode string `koanf:"passcode" yaml:"passcode" json:"passcode"`
	// Cipher is "aes-gcm", "chacha20-poly1305" or empty for automatic.
	Cipher string `koanf:"cipher" yaml:"cipher" json:"cipher"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level" yaml:"level" json:"level"`
	Format string `koanf:"format" yaml:"format" json:"format"`
}

// MetricsSection configures the Prometheus endpoint of the REPL.
type MetricsSection struct {
	// Addr is the listen address; empty disables the endpoint.
	Addr string `koanf:"addr" yaml:"addr" json:"addr"`
}

// CLISection holds command-line preferences.
type CLISection struct {
	Output  string `koanf:"output" yaml:"output" json:"output"`
	Account string `koanf:"account" yaml:"account" json:"account"`
}

// Keys lists every dotted configuration key.
func Keys() []string {
	return []string{
		"storage.backend",
		"storage.data_dir",
		"storage.backup_keep",
		"storage.badger.gc_interval",
		"storage.badger.gc_threshold",
		"storage.badger.sync_writes",
		"settings.save_delay",
		"settings.min_write_interval",
		"security.passcode",
		"security.cipher",
		"log.level",
		"log.format",
		"metrics.addr",
		"cli.output",
		"cli.account",
	}
}
