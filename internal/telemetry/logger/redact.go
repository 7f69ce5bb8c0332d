package logger

import (
	"log/slog"
	"strings"
)

// Key patterns whose string values must never reach the log output.
// Covers snapshot passphrases and any credential-shaped config field.
var sensitiveKeyPatterns = []string{
	"passphrase",
	"password",
	"secret",
	"credential",
	"auth",
	"bearer",
}

const redactedValue = "***REDACTED***"

// redactSensitive replaces the value of any attribute whose key looks
// credential-bearing. Groups are walked recursively.
func redactSensitive(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindString {
		if IsSensitiveKey(a.Key) && a.Value.String() != "" {
			return slog.String(a.Key, redactedValue)
		}
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
