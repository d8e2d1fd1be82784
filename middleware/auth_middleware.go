package middleware

import (
	"context"
	"net/http"
	"strings"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/resumelane/resumelane/identity"
	"github.com/resumelane/resumelane/session"
	"github.com/resumelane/resumelane/utils"
	"go.uber.org/zap"
)

// TokenValidator defines the interface for validating JWT tokens
type TokenValidator interface {
	// ValidateToken validates a JWT token and returns identity claims
	ValidateToken(ctx context.Context, token string) (*identity.Claims, error)
}

// SessionResolver resolves an identity to a Session, nil when none
type SessionResolver interface {
	Resolve(ctx context.Context, ident *session.Identity) *session.Session
}

// AuthMiddleware attaches and enforces sessions on incoming requests
type AuthMiddleware struct {
	validator TokenValidator
	resolver  SessionResolver
	logger    *zap.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(validator TokenValidator, resolver SessionResolver, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		validator: validator,
		resolver:  resolver,
		logger:    logger,
	}
}

// authTokenCookieName is the cookie name for JWT tokens (Authorization header takes precedence)
// sessionCookieName is set by the auth handler after the OAuth callback
const authTokenCookieName = "auth_token"
const sessionCookieName = "session"

// AttachSession resolves the caller's session when a valid token is present
// and stashes it in the request context. It never rejects: requests without
// a token, or with one that fails validation, continue with no session and
// downstream middlewares decide what that means.
func (m *AuthMiddleware) AttachSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		token := extractToken(r)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := m.validator.ValidateToken(ctx, token)
		if err != nil {
			m.logger.Debug("token validation failed",
				zap.String("request_id", chimw.GetReqID(ctx)),
				zap.Error(err))
			next.ServeHTTP(w, r)
			return
		}

		sess := m.resolver.Resolve(ctx, &session.Identity{
			ID:    claims.Subject,
			Email: claims.Email,
			Name:  claims.Name,
		})
		if sess == nil {
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithSession(ctx, sess)))
	})
}

// RequireSession rejects requests that reached this point without a resolved
// session. Must run after AttachSession.
func (m *AuthMiddleware) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetSessionFromContext(r.Context()) == nil {
			m.logger.Warn("unauthenticated request to protected endpoint",
				zap.String("request_id", chimw.GetReqID(r.Context())),
				zap.String("path", r.URL.Path))
			_ = utils.WriteUnauthorized(w, "Authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequirePermission enforces that the session's role carries permission.
// Must run after RequireSession.
func (m *AuthMiddleware) RequirePermission(permission string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := GetSessionFromContext(r.Context())
			if sess == nil {
				_ = utils.WriteUnauthorized(w, "Authentication required")
				return
			}
			if !sess.HasPermission(permission) {
				m.logger.Warn("insufficient permissions",
					zap.String("request_id", chimw.GetReqID(r.Context())),
					zap.String("required_permission", permission),
					zap.String("role", string(sess.Role)))
				_ = utils.WriteForbidden(w, "Insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// extractToken extracts the JWT from the Authorization header ("Bearer TOKEN")
// or from the auth_token/session cookies. The header takes precedence.
func extractToken(r *http.Request) string {
	if token := extractBearerToken(r); token != "" {
		return token
	}
	for _, name := range []string{authTokenCookieName, sessionCookieName} {
		if cookie, err := r.Cookie(name); err == nil && cookie.Value != "" {
			return cookie.Value
		}
	}
	return ""
}

// extractBearerToken extracts the Bearer token from the Authorization header
func extractBearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return ""
	}

	return strings.TrimSpace(parts[1])
}
