// Package settings implements the per-account session settings store and
// its persisted binary layout.
//
// The layout is an append-only sequence of field groups (see schema.go).
// Older blobs end early and leave the newer groups at their current values;
// newer blobs carry trailing groups that are skipped. Decode never panics on
// arbitrary input.
//
// Settings wraps a SettingsSnapshot behind getters, validated setters and
// reactive subscriptions. It performs no I/O; persistence is scheduled by the
// owning session.
package settings
