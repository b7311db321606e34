// Package logger provides structured logging for tdesktop tools.
//
// It wraps log/slog behind a small Logger interface:
//
//   - logger.go: construction, JSON or text output, global dynamic level
//   - context.go: logger, session id and account propagation via context
//   - redact.go: masking of passcodes, keys and local file paths
//
// Components that take *slog.Logger (storage engines) get one from
// Logger.Slog so both share the same handler and level.
package logger
