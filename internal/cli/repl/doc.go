// Package repl provides the interactive shell of tdsettings.
//
// A REPL reads lines, splits them into arguments with shell-style quoting
// and hands them to an Executor, which in tdsettings runs the same
// commands as the one-shot CLI against a live session:
//
//   - repl.go: read loop, builtins and argument splitting
//   - completer.go: prefix completion over command phrases
//   - history.go: bounded history persisted to a file
package repl
