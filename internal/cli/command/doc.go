// Package command defines the tdsettings command line.
//
// Commands are built on urfave/cli/v2:
//
//   - root.go: application, global flags and the per-run runtime
//   - store.go: backend selection and session wiring
//   - settings.go: show, get, set, reset
//   - sound.go, hidden.go, autodownload.go: collection-valued settings
//   - blob.go: raw blob decode, encode and import
//   - storage.go: backend maintenance
//   - repl.go: interactive shell over a live session
//   - version.go: build information
//
// One-shot commands open a session on an InlineExecutor with auto-save
// disabled and write once before exiting. Inside the REPL the same
// commands run against a live session whose changes are saved by the
// debounced scheduler.
package command
