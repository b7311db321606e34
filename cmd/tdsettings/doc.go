// Package main provides the entry point for tdsettings.
//
// tdsettings reads and edits the per-account session settings of the
// desktop chat client, stored either as one file per account or in an
// embedded badger database:
//
//   - show, get, set and reset individual settings
//   - manage sound overrides, hidden sticker sections and auto-download limits
//   - decode, encode and import raw settings blobs
//   - maintain the storage backend (accounts, stats, gc, backup, restore)
//   - run an interactive shell against a live, auto-saving session
//
// Usage:
//
//	tdsettings [global flags] command [args]
//	tdsettings set archive_collapsed true
//	tdsettings -o json show
//	tdsettings --backend badger storage stats
package main
