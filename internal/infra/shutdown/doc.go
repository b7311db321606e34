// Package shutdown runs cleanup hooks when the process is asked to stop.
//
// Hooks run once, newest first, under a shared timeout. The settings tool
// registers one per open session so that pending saves are flushed before
// the storage backend closes.
package shutdown
