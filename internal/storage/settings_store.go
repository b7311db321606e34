package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
)

// ErrNotFound reports that no settings blob is stored for an account.
var ErrNotFound = errors.New("storage: settings not found")

// SettingsStore persists one opaque settings blob per account.
//
// Implementations must be safe for concurrent use. ReadSettings returns
// ErrNotFound when the account has never been written.
type SettingsStore interface {
	ReadSettings(ctx context.Context, userID string) ([]byte, error)
	WriteSettings(ctx context.Context, userID string, blob []byte) error
	Close() error
}

const settingsKeyPrefix = "settings/"

func settingsKey(userID string) []byte {
	return []byte(settingsKeyPrefix + userID)
}

// KVSettingsStore stores settings blobs in a KVEngine under
// "settings/<userID>".
type KVSettingsStore struct {
	kv     KVEngine
	logger *slog.Logger
}

// NewKVSettingsStore wraps kv. The store owns kv and closes it on Close.
func NewKVSettingsStore(kv KVEngine, logger *slog.Logger) *KVSettingsStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &KVSettingsStore{kv: kv, logger: logger}
}

// ReadSettings returns the stored blob for userID.
func (s *KVSettingsStore) ReadSettings(ctx context.Context, userID string) ([]byte, error) {
	if userID == "" {
		return nil, fmt.Errorf("storage: empty account id")
	}
	blob, err := s.kv.Get(ctx, settingsKey(userID))
	if errors.Is(err, ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("storage: read settings: %w", err)
	}
	return blob, nil
}

// WriteSettings replaces the stored blob for userID.
func (s *KVSettingsStore) WriteSettings(ctx context.Context, userID string, blob []byte) error {
	if userID == "" {
		return fmt.Errorf("storage: empty account id")
	}
	if err := s.kv.Set(ctx, settingsKey(userID), blob); err != nil {
		return fmt.Errorf("storage: write settings: %w", err)
	}
	s.logger.Debug("settings written", "account", userID, "bytes", len(blob))
	return nil
}

// DeleteSettings removes the blob for userID. Deleting a missing account
// is not an error.
func (s *KVSettingsStore) DeleteSettings(ctx context.Context, userID string) error {
	if err := s.kv.Delete(ctx, settingsKey(userID)); err != nil {
		return fmt.Errorf("storage: delete settings: %w", err)
	}
	return nil
}

// ListAccounts returns the sorted account ids that have a stored blob.
func (s *KVSettingsStore) ListAccounts(ctx context.Context) ([]string, error) {
	var accounts []string
	err := s.kv.Scan(ctx, []byte(settingsKeyPrefix), func(key, _ []byte) bool {
		accounts = append(accounts, strings.TrimPrefix(string(key), settingsKeyPrefix))
		return true
	})
	if err != nil {
		return nil, fmt.Errorf("storage: list accounts: %w", err)
	}
	slices.Sort(accounts)
	return accounts, nil
}

// Engine exposes the underlying KV engine for maintenance commands.
func (s *KVSettingsStore) Engine() KVEngine {
	return s.kv
}

// Close closes the underlying engine.
func (s *KVSettingsStore) Close() error {
	return s.kv.Close()
}

// MemorySettingsStore keeps blobs in a map. Used for tests and one-shot
// commands that must not touch disk.
type MemorySettingsStore struct {
	mu     sync.RWMutex
	blobs  map[string][]byte
	writes int
	closed bool
}

// NewMemorySettingsStore returns an empty in-memory store.
func NewMemorySettingsStore() *MemorySettingsStore {
	return &MemorySettingsStore{blobs: make(map[string][]byte)}
}

// ReadSettings returns a copy of the stored blob.
func (m *MemorySettingsStore) ReadSettings(ctx context.Context, userID string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, ErrClosed
	}
	blob, ok := m.blobs[userID]
	if !ok {
		return nil, ErrNotFound
	}
	return bytes.Clone(blob), nil
}

// WriteSettings stores a copy of blob.
func (m *MemorySettingsStore) WriteSettings(ctx context.Context, userID string, blob []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	m.blobs[userID] = bytes.Clone(blob)
	m.writes++
	return nil
}

// Writes returns the number of successful WriteSettings calls.
func (m *MemorySettingsStore) Writes() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.writes
}

// Close marks the store closed.
func (m *MemorySettingsStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
