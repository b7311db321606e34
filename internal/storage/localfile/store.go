package localfile

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/oklog/ulid/v2"

	"github.com/Mesbahzade/tdesktop/internal/storage"
	"github.com/Mesbahzade/tdesktop/pkg/crypto/adaptive"
)

const (
	fileName = "settings.tds"
	saltName = "key.salt"

	DefaultBackupKeep = 2
	DefaultAppVersion = 1
)

var (
	ErrEncrypted     = errors.New("localfile: settings are encrypted, passcode required")
	ErrWrongPasscode = errors.New("localfile: wrong passcode")
	ErrBadAccountID  = errors.New("localfile: invalid account id")
)

// Config configures a file-backed settings store.
type Config struct {
	// Dir is the base directory. Each account gets a subdirectory.
	Dir string

	// BackupKeep is how many previous versions are kept as
	// settings.tds.1 .. settings.tds.N. Negative disables backups.
	BackupKeep int

	// AppVersion is written into every file header.
	AppVersion int32

	// Passcode enables encryption when non-empty.
	Passcode []byte

	// CipherType selects the AEAD; empty picks by architecture.
	CipherType adaptive.CipherType

	Logger *slog.Logger
}

// Store keeps one settings file per account under <Dir>/<userID>/.
type Store struct {
	cfg    Config
	cipher adaptive.Cipher
	logger *slog.Logger

	mu sync.Mutex // serializes writes and rotation
}

var _ storage.SettingsStore = (*Store)(nil)

// Open prepares the base directory and, when a passcode is set, derives
// the file key from it and the directory salt.
func Open(cfg Config) (*Store, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("localfile: dir is required")
	}
	if cfg.BackupKeep == 0 {
		cfg.BackupKeep = DefaultBackupKeep
	}
	if cfg.AppVersion == 0 {
		cfg.AppVersion = DefaultAppVersion
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if err := os.MkdirAll(cfg.Dir, 0o700); err != nil {
		return nil, fmt.Errorf("localfile: create dir: %w", err)
	}

	s := &Store{cfg: cfg, logger: cfg.Logger}
	if len(cfg.Passcode) > 0 {
		c, err := s.openCipher()
		if err != nil {
			return nil, err
		}
		s.cipher = c
	}
	return s, nil
}

func (s *Store) openCipher() (adaptive.Cipher, error) {
	salt, err := s.loadOrCreateSalt()
	if err != nil {
		return nil, err
	}
	master, err := adaptive.DeriveKey(s.cfg.Passcode, salt)
	if err != nil {
		return nil, fmt.Errorf("localfile: derive key: %w", err)
	}
	defer adaptive.ZeroKey(master)

	key, err := adaptive.DeriveSubkey(master, "tdesktop settings file", adaptive.KeyLength)
	if err != nil {
		return nil, fmt.Errorf("localfile: derive key: %w", err)
	}
	defer adaptive.ZeroKey(key)

	c, err := adaptive.NewWithType(key, s.cfg.CipherType)
	if err != nil {
		return nil, fmt.Errorf("localfile: cipher: %w", err)
	}
	return c, nil
}

func (s *Store) loadOrCreateSalt() ([]byte, error) {
	path := filepath.Join(s.cfg.Dir, saltName)
	salt, err := os.ReadFile(path)
	if err == nil {
		if len(salt) != adaptive.SaltLength {
			return nil, fmt.Errorf("localfile: salt file has %d bytes", len(salt))
		}
		return salt, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("localfile: read salt: %w", err)
	}

	salt, err = adaptive.NewSalt()
	if err != nil {
		return nil, err
	}
	if err := writeAtomic(s.cfg.Dir, saltName, salt); err != nil {
		return nil, fmt.Errorf("localfile: write salt: %w", err)
	}
	s.logger.Info("created key salt", "path", path)
	return salt, nil
}

// Encrypted reports whether writes are sealed.
func (s *Store) Encrypted() bool {
	return s.cipher != nil
}

func checkAccountID(userID string) error {
	if userID == "" || userID == "." || userID == ".." ||
		strings.ContainsAny(userID, `/\`+"\x00") || !filepath.IsLocal(userID) {
		return fmt.Errorf("%w: %q", ErrBadAccountID, userID)
	}
	return nil
}

func (s *Store) accountDir(userID string) string {
	return filepath.Join(s.cfg.Dir, userID)
}

func backupName(i int) string {
	return fileName + "." + strconv.Itoa(i)
}

// candidates lists the primary file followed by backups, newest first.
func (s *Store) candidates(userID string) []string {
	dir := s.accountDir(userID)
	paths := []string{filepath.Join(dir, fileName)}
	for i := 1; i <= s.cfg.BackupKeep; i++ {
		paths = append(paths, filepath.Join(dir, backupName(i)))
	}
	return paths
}

// ReadSettings returns the newest readable blob for userID. A corrupt
// primary falls back to backups; storage.ErrNotFound means no file exists.
func (s *Store) ReadSettings(ctx context.Context, userID string) ([]byte, error) {
	if err := checkAccountID(userID); err != nil {
		return nil, err
	}

	var lastErr error
	for i, path := range s.candidates(userID) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := os.ReadFile(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("localfile: read %s: %w", path, err)
		}

		blob, err := s.open(userID, data)
		if err == nil {
			if i > 0 {
				s.logger.Warn("settings restored from backup", "account", userID, "path", path)
			}
			return blob, nil
		}
		if !corrupt(err) {
			return nil, err
		}
		s.logger.Warn("skipping corrupt settings file", "path", path, "error", err)
		lastErr = err
	}

	if lastErr != nil {
		return nil, fmt.Errorf("localfile: no readable settings for %s: %w", userID, lastErr)
	}
	return nil, storage.ErrNotFound
}

func (s *Store) open(userID string, data []byte) ([]byte, error) {
	h, payload, err := decodeFile(data)
	if err != nil {
		return nil, err
	}
	if !h.Encrypted {
		return payload, nil
	}
	if s.cipher == nil {
		return nil, ErrEncrypted
	}
	plain, err := s.cipher.Decrypt(payload, []byte(userID))
	if err != nil {
		return nil, ErrWrongPasscode
	}
	return plain, nil
}

// WriteSettings writes blob as the new primary file, rotating the
// previous one into the backup chain.
func (s *Store) WriteSettings(ctx context.Context, userID string, blob []byte) error {
	if err := checkAccountID(userID); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	h := header{Version: s.cfg.AppVersion}
	payload := blob
	if s.cipher != nil {
		sealed, err := s.cipher.Encrypt(blob, []byte(userID))
		if err != nil {
			return fmt.Errorf("localfile: encrypt: %w", err)
		}
		payload = sealed
		h.Encrypted = true
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dir := s.accountDir(userID)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("localfile: create account dir: %w", err)
	}

	tmp, err := writeTemp(dir, fileName, encodeFile(h, payload))
	if err != nil {
		return err
	}
	defer os.Remove(tmp)

	if err := s.rotate(dir); err != nil {
		return err
	}
	if err := os.Rename(tmp, filepath.Join(dir, fileName)); err != nil {
		return fmt.Errorf("localfile: rename: %w", err)
	}
	return nil
}

// rotate shifts settings.tds -> .1 -> .2 ... dropping the oldest.
func (s *Store) rotate(dir string) error {
	keep := s.cfg.BackupKeep
	if keep < 0 {
		return nil
	}
	primary := filepath.Join(dir, fileName)
	if _, err := os.Stat(primary); errors.Is(err, os.ErrNotExist) {
		return nil
	}

	for i := keep - 1; i >= 1; i-- {
		from := filepath.Join(dir, backupName(i))
		to := filepath.Join(dir, backupName(i+1))
		if err := os.Rename(from, to); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("localfile: rotate backup: %w", err)
		}
	}
	if err := os.Rename(primary, filepath.Join(dir, backupName(1))); err != nil {
		return fmt.Errorf("localfile: rotate primary: %w", err)
	}
	return nil
}

// DeleteSettings removes the primary file and all backups for userID.
func (s *Store) DeleteSettings(ctx context.Context, userID string) error {
	if err := checkAccountID(userID); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, path := range s.candidates(userID) {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("localfile: delete: %w", err)
		}
	}
	return nil
}

// ListAccounts returns the sorted account ids with a settings file.
func (s *Store) ListAccounts(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.cfg.Dir)
	if err != nil {
		return nil, fmt.Errorf("localfile: list: %w", err)
	}

	var accounts []string
	for _, e := range entries {
		if !e.IsDir() || checkAccountID(e.Name()) != nil {
			continue
		}
		for _, path := range s.candidates(e.Name()) {
			if _, err := os.Stat(path); err == nil {
				accounts = append(accounts, e.Name())
				break
			}
		}
	}
	slices.Sort(accounts)
	return accounts, nil
}

// FileInfo describes one settings file on disk.
type FileInfo struct {
	Path      string `json:"path" yaml:"path"`
	Size      int64  `json:"size" yaml:"size"`
	Version   int32  `json:"version" yaml:"version"`
	Encrypted bool   `json:"encrypted" yaml:"encrypted"`
	Checksum  string `json:"checksum" yaml:"checksum"`
	Valid     bool   `json:"valid" yaml:"valid"`
	Error     string `json:"error,omitempty" yaml:"error,omitempty"`
}

// Inspect reports the primary file and every backup that exists for
// userID, newest first. Payloads are not decrypted.
func (s *Store) Inspect(ctx context.Context, userID string) ([]FileInfo, error) {
	if err := checkAccountID(userID); err != nil {
		return nil, err
	}

	var infos []FileInfo
	for _, path := range s.candidates(userID) {
		data, err := os.ReadFile(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("localfile: read %s: %w", path, err)
		}

		sum := sha256.Sum256(data)
		info := FileInfo{Path: path, Size: int64(len(data)), Checksum: hex.EncodeToString(sum[:])}
		if h, _, err := decodeFile(data); err != nil {
			info.Error = err.Error()
		} else {
			info.Valid = true
			info.Version = h.Version
			info.Encrypted = h.Encrypted
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// Close releases nothing; files are opened per call.
func (s *Store) Close() error {
	return nil
}

func writeTemp(dir, name string, data []byte) (string, error) {
	path := filepath.Join(dir, name+"."+ulid.Make().String()+".tmp")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return "", fmt.Errorf("localfile: create temp file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("localfile: write: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("localfile: sync: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("localfile: close: %w", err)
	}
	return path, nil
}

func writeAtomic(dir, name string, data []byte) error {
	tmp, err := writeTemp(dir, name, data)
	if err != nil {
		return err
	}
	defer os.Remove(tmp)
	return os.Rename(tmp, filepath.Join(dir, name))
}
