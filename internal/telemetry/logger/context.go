package logger

import "context"

type contextKey string

const (
	loggerKey    contextKey = "tdesktop.logger"
	sessionIDKey contextKey = "tdesktop.session_id"
	accountKey   contextKey = "tdesktop.account"
)

// WithLogger adds a logger to the context.
func WithLogger(ctx context.Context, l Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// FromContext extracts the logger from context.
// Returns the default logger if none is set.
func FromContext(ctx context.Context) Logger {
	if l, ok := ctx.Value(loggerKey).(Logger); ok {
		return l
	}
	return Default()
}

// WithSessionID tags the context with a session instance id.
func WithSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionIDKey, id)
}

// SessionIDFromContext extracts the session id from context.
func SessionIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(sessionIDKey).(string); ok {
		return id
	}
	return ""
}

// WithAccount tags the context with the account whose settings are
// being handled.
func WithAccount(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, accountKey, userID)
}

// AccountFromContext extracts the account id from context.
func AccountFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(accountKey).(string); ok {
		return id
	}
	return ""
}

// L returns the logger stored in ctx bound to ctx, so records carry the
// session id and account found there.
func L(ctx context.Context) Logger {
	return FromContext(ctx).WithContext(ctx)
}
