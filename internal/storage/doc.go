// Package storage provides durable per-account storage for settings blobs.
//
// The SettingsStore interface is what sessions depend on. Two backends
// live here:
//
//   - KVSettingsStore: blobs keyed "settings/<userID>" in a KVEngine,
//     implemented by BadgerEngine (badger v3 with background value log GC)
//   - MemorySettingsStore: a map, for tests and dry runs
//
// The file backend lives in the localfile subpackage. Blobs are opaque
// here; their layout belongs to internal/core/settings.
package storage
