package logger

import (
	"log/slog"
	"path/filepath"
	"strings"
)

// Key patterns whose string values are fully redacted.
var sensitiveKeyPatterns = []string{
	"passcode",
	"password",
	"secret",
	"encryption_key",
	"salt",
	"credential",
}

// Keys holding local file paths. Only the base name is logged.
var pathKeys = []string{
	"sound_path",
	"sound_override",
}

// redactedValue is the placeholder for redacted sensitive data.
const redactedValue = "***REDACTED***"

// redactSensitive checks if an attribute contains sensitive data
// and redacts it if necessary.
func redactSensitive(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindString {
		strVal := a.Value.String()
		if strVal == "" {
			return a
		}
		if IsSensitiveKey(a.Key) {
			return slog.String(a.Key, redactedValue)
		}
		if isPathKey(a.Key) {
			return slog.String(a.Key, RedactPath(strVal))
		}
		return a
	}

	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		newAttrs := make([]slog.Attr, len(attrs))
		for i, attr := range attrs {
			newAttrs[i] = redactSensitive(attr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(newAttrs...)}
	}

	return a
}

// RedactPath keeps only the last element of a local path. Resource
// paths (":/sounds/...") are returned unchanged.
func RedactPath(path string) string {
	if strings.HasPrefix(path, ":/") {
		return path
	}
	base := filepath.Base(filepath.FromSlash(path))
	if base == path {
		return path
	}
	return ".../" + base
}

// IsSensitiveKey checks if a key name suggests sensitive content.
func IsSensitiveKey(key string) bool {
	keyLower := strings.ToLower(key)
	for _, pattern := range sensitiveKeyPatterns {
		if strings.Contains(keyLower, pattern) {
			return true
		}
	}
	return false
}

func isPathKey(key string) bool {
	keyLower := strings.ToLower(key)
	for _, k := range pathKeys {
		if keyLower == k {
			return true
		}
	}
	return false
}
