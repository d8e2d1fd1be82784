package middleware

import (
	"net"
	"net/http"
	"strings"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/resumelane/resumelane/ratelimit"
	"github.com/resumelane/resumelane/utils"
	"go.uber.org/zap"
)

// RateLimitMiddleware throttles API requests per client
type RateLimitMiddleware struct {
	limiter ratelimit.Limiter
	logger  *zap.Logger
}

// NewRateLimitMiddleware creates a new RateLimitMiddleware
func NewRateLimitMiddleware(limiter ratelimit.Limiter, logger *zap.Logger) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		limiter: limiter,
		logger:  logger,
	}
}

// Limit rejects requests exceeding the client's bucket with 429.
// Runs after AttachSession so authenticated clients are keyed by identity
// rather than by address.
func (m *RateLimitMiddleware) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := clientKey(r)
		if !m.limiter.Allow(key) {
			m.logger.Warn("rate limit exceeded",
				zap.String("request_id", chimw.GetReqID(r.Context())),
				zap.String("key", key),
				zap.String("path", r.URL.Path))
			_ = utils.WriteTooManyRequests(w, "")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientKey keys buckets by (client, path): session identity when present,
// remote IP otherwise. Scoping by path keeps one hot endpoint from draining
// the client's budget everywhere else.
func clientKey(r *http.Request) string {
	if sess := GetSessionFromContext(r.Context()); sess != nil {
		return "id:" + sess.Identity.ID.String() + ":" + r.URL.Path
	}
	return "ip:" + clientIP(r) + ":" + r.URL.Path
}

// clientIP extracts the originating client address, trusting proxy headers
// when present
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		ips := strings.Split(xff, ",")
		return strings.TrimSpace(ips[0])
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
