package logger

import (
	"context"
	"testing"
)

func TestWithLogger_FromContext(t *testing.T) {
	l, _ := newBufferLogger(t, "info")

	ctx := WithLogger(context.Background(), l)
	if got := FromContext(ctx); got != l {
		t.Error("FromContext() should return the stored logger")
	}
	if FromContext(context.Background()) == nil {
		t.Error("FromContext() without logger should return the default")
	}
}

func TestContextIDs(t *testing.T) {
	ctx := WithAccount(WithSessionID(context.Background(), "01J0SESSION"), "100")

	if got := SessionIDFromContext(ctx); got != "01J0SESSION" {
		t.Errorf("SessionIDFromContext() = %q", got)
	}
	if got := AccountFromContext(ctx); got != "100" {
		t.Errorf("AccountFromContext() = %q", got)
	}
	if SessionIDFromContext(context.Background()) != "" || AccountFromContext(context.Background()) != "" {
		t.Error("empty context should carry no ids")
	}
}

func TestL(t *testing.T) {
	tests := []struct {
		name        string
		session     string
		account     string
		wantSession any
		wantAccount any
	}{
		{"both", "s1", "42", "s1", "42"},
		{"session only", "s1", "", "s1", nil},
		{"none", "", "", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, buf := newBufferLogger(t, "info")
			ctx := WithLogger(context.Background(), l)
			if tt.session != "" {
				ctx = WithSessionID(ctx, tt.session)
			}
			if tt.account != "" {
				ctx = WithAccount(ctx, tt.account)
			}

			L(ctx).Info("hello")

			entry := decodeEntry(t, buf)
			if entry["session_id"] != tt.wantSession {
				t.Errorf("session_id = %v, want %v", entry["session_id"], tt.wantSession)
			}
			if entry["account"] != tt.wantAccount {
				t.Errorf("account = %v, want %v", entry["account"], tt.wantAccount)
			}
		})
	}
}

func TestContextKeyCollision(t *testing.T) {
	ctx := context.WithValue(context.Background(), "tdesktop.session_id", "plain-string-key")
	if got := SessionIDFromContext(ctx); got != "" {
		t.Errorf("string key should not collide with typed key, got %q", got)
	}
}
