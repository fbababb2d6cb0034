package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/folioapp/folio-server/internal/http/response"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const contextKeyPrincipal contextKey = "principal"

// Principal identifies the authenticated caller for the duration of a
// request. It is attached to the context as one typed value rather
// than loose strings, so handlers can't pick up a half-populated
// identity.
type Principal struct {
	UserID string
	Email  string
}

// requireAuth is middleware that validates access tokens and attaches
// the caller's Principal to the request context. Requests without a
// valid bearer token are rejected before any handler runs, so failed
// writes can never touch the store.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			response.Unauthorized(w, "missing authorization header", s.logger)
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(w, "invalid authorization header format", s.logger)
			return
		}

		claims, err := s.authService.VerifyAccessToken(parts[1])
		if err != nil {
			response.Unauthorized(w, "invalid or expired token", s.logger)
			return
		}

		principal := Principal{UserID: claims.UserID, Email: claims.Email}
		ctx := context.WithValue(r.Context(), contextKeyPrincipal, principal)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// principalFrom extracts the authenticated Principal from the request
// context. The second return is false on unauthenticated requests.
func principalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(contextKeyPrincipal).(Principal)
	return p, ok
}

// rateLimit rejects requests once the per-IP token bucket is drained.
// A nil limiter disables limiting, which tests use.
func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.limiter != nil {
			key := getClientIP(r)
			if !s.limiter.Allow(key) {
				s.logger.Warn("Rate limit exceeded", "ip", key, "path", r.URL.Path)
				response.TooManyRequests(w, s.logger)
				return
			}
		}

		next.ServeHTTP(w, r)
	})
}

// getClientIP extracts the client IP from the request.
// middleware.RealIP has already folded X-Forwarded-For / X-Real-IP
// into RemoteAddr, so only the port needs stripping.
func getClientIP(r *http.Request) string {
	ip := r.RemoteAddr
	for i := len(ip) - 1; i >= 0; i-- {
		if ip[i] == ':' {
			return ip[:i]
		}
	}
	return ip
}
