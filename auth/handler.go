// Package auth implements the OAuth2 authorization-code dance against the
// hosted identity provider. Sign-up, sign-in and password reset all live on
// the provider's side; this service only redirects out, exchanges the code
// and pins the resulting ID token in a session cookie.
package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"net/http"
	"net/url"
	"strings"

	"github.com/resumelane/resumelane/config"
	"github.com/resumelane/resumelane/identity"
	"github.com/resumelane/resumelane/utils"
	"go.uber.org/zap"
)

const (
	// StateCookieName is the cookie name for OAuth state (CSRF)
	StateCookieName = "oauth_state"
	// SessionCookieName is the cookie name for the session token
	SessionCookieName = "session"

	stateCookieMaxAge   = 600
	sessionCookieMaxAge = 86400 * 7 // 7 days
)

// TokenExchanger exchanges OAuth2 authorization codes for tokens via the provider's token endpoint.
type TokenExchanger interface {
	ExchangeCode(ctx context.Context, code, redirectURI string) (idToken string, err error)
}

// TokenValidator validates JWT tokens and returns parsed identity claims.
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (*identity.Claims, error)
}

// Handler handles OAuth2 authentication flows (login, callback, logout).
type Handler struct {
	cfg       config.IdentityConfig
	exchanger TokenExchanger
	validator TokenValidator
	logger    *zap.Logger
}

// NewHandler creates a new auth handler with the given config, token exchanger, and validator.
func NewHandler(cfg config.IdentityConfig, exchanger TokenExchanger, validator TokenValidator, logger *zap.Logger) *Handler {
	return &Handler{
		cfg:       cfg,
		exchanger: exchanger,
		validator: validator,
		logger:    logger,
	}
}

// HandleLogin redirects to the provider's hosted UI for OAuth2 authorization.
// A ?next= query parameter, when present and a safe relative path, rides
// along in the state so the callback can land the user where they started.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if h.cfg.Domain == "" || h.cfg.ClientID == "" {
		h.logger.Error("identity provider not configured")
		_ = utils.WriteInternalServerError(w, "Authentication not configured")
		return
	}

	state, err := generateSecureState()
	if err != nil {
		h.logger.Error("failed to generate state", zap.Error(err))
		_ = utils.WriteInternalServerError(w, "Failed to initiate login")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     StateCookieName,
		Value:    state,
		Path:     "/",
		MaxAge:   stateCookieMaxAge,
		HttpOnly: true,
		Secure:   strings.HasPrefix(h.cfg.RedirectURI, "https"),
		SameSite: http.SameSiteStrictMode,
	})

	if next := r.URL.Query().Get("next"); isSafeNextPath(next) {
		http.SetCookie(w, &http.Cookie{
			Name:     nextCookieName,
			Value:    next,
			Path:     "/",
			MaxAge:   stateCookieMaxAge,
			HttpOnly: true,
			Secure:   strings.HasPrefix(h.cfg.RedirectURI, "https"),
			SameSite: http.SameSiteStrictMode,
		})
	}

	authURL := buildAuthURL(h.cfg.Domain, h.cfg.ClientID, h.cfg.RedirectURI, state)
	http.Redirect(w, r, authURL, http.StatusFound)
}

const nextCookieName = "auth_next"

// HandleCallback exchanges the authorization code for tokens, validates the JWT, and sets the session cookie
func (h *Handler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	state := r.URL.Query().Get("state")

	if code == "" {
		_ = utils.WriteBadRequest(w, "Missing authorization code", nil)
		return
	}
	if state == "" {
		_ = utils.WriteBadRequest(w, "Missing state parameter", nil)
		return
	}

	stateCookie, err := r.Cookie(StateCookieName)
	if err != nil || stateCookie.Value != state {
		_ = utils.WriteBadRequest(w, "Invalid or expired state", nil)
		return
	}

	secure := strings.HasPrefix(h.cfg.RedirectURI, "https")
	clearCookie(w, StateCookieName, secure)

	if h.exchanger == nil {
		h.logger.Error("token exchanger not configured")
		_ = utils.WriteInternalServerError(w, "Authentication not configured")
		return
	}

	idToken, err := h.exchanger.ExchangeCode(r.Context(), code, h.cfg.RedirectURI)
	if err != nil {
		h.logger.Warn("token exchange failed", zap.Error(err))
		_ = utils.WriteUnauthorized(w, "Authentication failed")
		return
	}

	if h.validator == nil {
		h.logger.Error("token validator not configured")
		_ = utils.WriteInternalServerError(w, "Authentication not configured")
		return
	}

	if _, err := h.validator.ValidateToken(r.Context(), idToken); err != nil {
		h.logger.Warn("token validation failed", zap.Error(err))
		_ = utils.WriteUnauthorized(w, "Invalid token")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    idToken,
		Path:     "/",
		MaxAge:   sessionCookieMaxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	})

	redirectURL := h.cfg.FrontEndURL
	if redirectURL == "" {
		redirectURL = "/"
	}
	if nextCookie, err := r.Cookie(nextCookieName); err == nil && isSafeNextPath(nextCookie.Value) {
		redirectURL = strings.TrimRight(h.cfg.FrontEndURL, "/") + nextCookie.Value
		clearCookie(w, nextCookieName, secure)
	}
	http.Redirect(w, r, redirectURL, http.StatusFound)
}

// HandleLogout clears the session cookie and redirects to the provider's logout endpoint
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	clearCookie(w, SessionCookieName, strings.HasPrefix(h.cfg.RedirectURI, "https"))

	logoutURL := buildLogoutURL(h.cfg.Domain, h.cfg.ClientID, h.cfg.RedirectURI)
	http.Redirect(w, r, logoutURL, http.StatusFound)
}

func clearCookie(w http.ResponseWriter, name string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// isSafeNextPath accepts only same-site relative paths. Anything that could
// be interpreted as an absolute or protocol-relative URL is rejected.
func isSafeNextPath(next string) bool {
	return next != "" && strings.HasPrefix(next, "/") && !strings.HasPrefix(next, "//")
}

func buildAuthURL(domain, clientID, redirectURI, state string) string {
	base := strings.TrimSuffix(domain, "/") + "/oauth2/authorize"
	params := url.Values{
		"response_type": {"code"},
		"client_id":     {clientID},
		"redirect_uri":  {redirectURI},
		"state":         {state},
		"scope":         {"openid email profile"},
	}
	return base + "?" + params.Encode()
}

func buildLogoutURL(domain, clientID, redirectURI string) string {
	parsed, err := url.Parse(redirectURI)
	logoutURI := redirectURI
	if err == nil {
		logoutURI = parsed.Scheme + "://" + parsed.Host
	}
	base := strings.TrimSuffix(domain, "/") + "/logout"
	params := url.Values{
		"client_id":  {clientID},
		"logout_uri": {logoutURI},
	}
	return base + "?" + params.Encode()
}

func generateSecureState() (string, error) {
	b := make([]byte, 24)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
