// Package service ties the settings store of one account to durable
// storage.
//
//   - Session: loads settings on Start, auto-saves on change, flushes on
//     Close and migrates legacy values on MoveSettingsFrom
//   - SaveScheduler: debounced writes with unchanged-blob skipping and
//     optional write spacing
//   - Executor: Loop runs work on one goroutine; InlineExecutor runs it on
//     the caller
//
// Collaborators (store, privacy saver, logger, metrics) are injected
// through SessionConfig; nothing here reaches for a global session.
package service
