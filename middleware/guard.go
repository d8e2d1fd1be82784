package middleware

import (
	"net/http"
	"net/url"
	"strings"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/resumelane/resumelane/authz"
	"go.uber.org/zap"
)

// skipPrefixes are request paths the page guard never evaluates: API and
// auth endpoints enforce their own access, the rest are infrastructure.
var skipPrefixes = []string{
	"/api/",
	"/auth/",
	"/_next/",
	"/static/",
	"/assets/",
	"/public/",
	"/metrics",
	"/healthz",
	"/readyz",
}

// RouteGuard enforces the route-access table on page navigation. It runs on
// every page request, after AttachSession, and answers with redirects rather
// than JSON errors because its audience is a browser.
type RouteGuard struct {
	logger *zap.Logger
}

// NewRouteGuard creates a new RouteGuard
func NewRouteGuard(logger *zap.Logger) *RouteGuard {
	return &RouteGuard{logger: logger}
}

// Guard checks the route-access table for the request path.
//
// Unauthenticated requests to protected or unknown pages bounce to
// /login?next=<path>. Authenticated requests that are denied bounce to the
// role's home page, so a user poking at /admin lands back on /dashboard
// instead of seeing an error.
func (g *RouteGuard) Guard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path

		if shouldSkipGuard(path) {
			next.ServeHTTP(w, r)
			return
		}

		sess := GetSessionFromContext(r.Context())

		var role authz.Role
		if sess != nil {
			role = sess.Role
		}
		decision := authz.CheckRouteAccess(role, path)

		if decision.Allowed && (!decision.Rule.RequiresAuth || sess != nil) {
			next.ServeHTTP(w, r)
			return
		}

		if sess == nil {
			http.Redirect(w, r, loginRedirectURL(path), http.StatusFound)
			return
		}

		g.logger.Info("page access denied",
			zap.String("request_id", chimw.GetReqID(r.Context())),
			zap.String("path", path),
			zap.String("role", string(role)),
			zap.String("reason", decision.Reason))
		http.Redirect(w, r, authz.DefaultRedirectPath(role), http.StatusFound)
	})
}

// shouldSkipGuard reports whether the guard ignores path entirely.
// Paths with a dot in the final segment are treated as asset requests.
func shouldSkipGuard(path string) bool {
	for _, prefix := range skipPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	if last := path[strings.LastIndex(path, "/")+1:]; strings.Contains(last, ".") {
		return true
	}
	return false
}

func loginRedirectURL(path string) string {
	return "/login?next=" + url.QueryEscape(path)
}
