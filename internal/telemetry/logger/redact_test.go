package logger

import (
	"log/slog"
	"testing"
)

func TestRedactSensitive(t *testing.T) {
	tests := []struct {
		name string
		attr slog.Attr
		want string
	}{
		{"passcode", slog.String("passcode", "1234"), redactedValue},
		{"nested key name", slog.String("security.passcode", "1234"), redactedValue},
		{"encryption key", slog.String("encryption_key", "abcd"), redactedValue},
		{"salt", slog.String("salt", "ff00"), redactedValue},
		{"empty passcode", slog.String("passcode", ""), ""},
		{"sound path", slog.String("sound_path", "/home/me/Music/ring.mp3"), ".../ring.mp3"},
		{"resource sound path", slog.String("sound_path", ":/sounds/msg.mp3"), ":/sounds/msg.mp3"},
		{"sound key is not secret", slog.String("key", "message"), "message"},
		{"plain field", slog.String("account", "100"), "100"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := redactSensitive(tt.attr)
			if got.Value.String() != tt.want {
				t.Errorf("redactSensitive(%s=%q) = %q, want %q", tt.attr.Key, tt.attr.Value.String(), got.Value.String(), tt.want)
			}
		})
	}
}

func TestRedactSensitive_Group(t *testing.T) {
	group := slog.Group("security", slog.String("passcode", "1234"), slog.String("cipher", "aes-gcm"))

	got := redactSensitive(group).Value.Group()
	if got[0].Value.String() != redactedValue {
		t.Errorf("grouped passcode = %q", got[0].Value.String())
	}
	if got[1].Value.String() != "aes-gcm" {
		t.Errorf("grouped cipher = %q", got[1].Value.String())
	}
}

func TestRedactSensitive_NonString(t *testing.T) {
	attr := slog.Int("passcode_length", 4)
	if got := redactSensitive(attr); got.Value.Int64() != 4 {
		t.Errorf("non-string values should pass through, got %v", got.Value)
	}
}

func TestIsSensitiveKey(t *testing.T) {
	for key, want := range map[string]bool{
		"passcode":       true,
		"PASSCODE":       true,
		"encryption_key": true,
		"key":            false,
		"account":        false,
	} {
		if got := IsSensitiveKey(key); got != want {
			t.Errorf("IsSensitiveKey(%q) = %v, want %v", key, got, want)
		}
	}
}

func TestRedactPath(t *testing.T) {
	tests := map[string]string{
		"/a/b/c.mp3":       ".../c.mp3",
		"c.mp3":            "c.mp3",
		":/sounds/msg.mp3": ":/sounds/msg.mp3",
	}
	for in, want := range tests {
		if got := RedactPath(in); got != want {
			t.Errorf("RedactPath(%q) = %q, want %q", in, got, want)
		}
	}
}
