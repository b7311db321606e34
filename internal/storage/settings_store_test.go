package storage

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"testing"
)

func TestKVSettingsStore(t *testing.T) {
	store := NewKVSettingsStore(newTestEngine(t), slog.Default())
	ctx := context.Background()

	if _, err := store.ReadSettings(ctx, "100"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("ReadSettings(missing) error = %v, want ErrNotFound", err)
	}

	blob := []byte{1, 2, 3, 4}
	if err := store.WriteSettings(ctx, "100", blob); err != nil {
		t.Fatal(err)
	}
	if err := store.WriteSettings(ctx, "42", []byte{9}); err != nil {
		t.Fatal(err)
	}

	got, err := store.ReadSettings(ctx, "100")
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(got, blob) {
		t.Errorf("ReadSettings() = %v, want %v", got, blob)
	}

	accounts, err := store.ListAccounts(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"100", "42"}; !slices.Equal(accounts, want) {
		t.Errorf("ListAccounts() = %v, want %v", accounts, want)
	}

	if err := store.DeleteSettings(ctx, "42"); err != nil {
		t.Fatal(err)
	}
	if _, err := store.ReadSettings(ctx, "42"); !errors.Is(err, ErrNotFound) {
		t.Errorf("ReadSettings(deleted) error = %v", err)
	}

	if err := store.WriteSettings(ctx, "", blob); err == nil {
		t.Error("expected error for empty account id")
	}
}

func TestKVSettingsStore_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	open := func() *KVSettingsStore {
		cfg := DefaultKVConfig(dir)
		cfg.Badger.GCInterval = "1h"
		engine, err := NewBadgerEngine(cfg, slog.Default())
		if err != nil {
			t.Fatal(err)
		}
		return NewKVSettingsStore(engine, nil)
	}

	store := open()
	if err := store.WriteSettings(ctx, "7", []byte("blob")); err != nil {
		t.Fatal(err)
	}
	if err := store.Close(); err != nil {
		t.Fatal(err)
	}

	store = open()
	defer store.Close()
	got, err := store.ReadSettings(ctx, "7")
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "blob" {
		t.Errorf("ReadSettings() = %q, want blob", got)
	}
}

func TestMemorySettingsStore(t *testing.T) {
	store := NewMemorySettingsStore()
	ctx := context.Background()

	if _, err := store.ReadSettings(ctx, "1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("ReadSettings(missing) error = %v", err)
	}

	blob := []byte{1, 2}
	if err := store.WriteSettings(ctx, "1", blob); err != nil {
		t.Fatal(err)
	}
	blob[0] = 99

	got, err := store.ReadSettings(ctx, "1")
	if err != nil {
		t.Fatal(err)
	}
	if got[0] != 1 {
		t.Error("store should keep its own copy of the blob")
	}
	if store.Writes() != 1 {
		t.Errorf("Writes() = %d, want 1", store.Writes())
	}

	store.Close()
	if err := store.WriteSettings(ctx, "1", blob); !errors.Is(err, ErrClosed) {
		t.Errorf("WriteSettings after close: %v", err)
	}
}
