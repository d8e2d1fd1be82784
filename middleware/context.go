package middleware

import (
	"context"

	"github.com/resumelane/resumelane/session"
)

// Context key type to avoid collisions
type contextKey string

// SessionKey is the context key for the resolved session
const SessionKey contextKey = "session"

// WithSession adds a resolved session to the context
func WithSession(ctx context.Context, sess *session.Session) context.Context {
	return context.WithValue(ctx, SessionKey, sess)
}

// GetSessionFromContext retrieves the resolved session from context,
// or nil when the request is unauthenticated
func GetSessionFromContext(ctx context.Context) *session.Session {
	if val := ctx.Value(SessionKey); val != nil {
		if sess, ok := val.(*session.Session); ok {
			return sess
		}
	}
	return nil
}
