package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/aoldacloud/console/internal/domain/auth"
	"github.com/aoldacloud/console/internal/domain/session"
)

// AuthTokenHeader is the request header carrying the console session token.
const AuthTokenHeader = "X-AUTH-TOKEN"

// AuthTokenCookie is the cookie fallback for the session token, used by
// browser clients that cannot set custom headers (e.g. plain form posts).
const AuthTokenCookie = "X-AUTH-TOKEN"

// DefaultPublicPaths are the path prefixes served without a session.
var DefaultPublicPaths = []string{
	"/api/v1.0/auth/login",
	"/api-docs",
	"/swagger-ui",
	"/favicon.ico",
	"/health",
	"/metrics",
}

// AuthMiddleware is the request authentication gate. Every request outside
// the public prefixes must present a valid session token, in the
// X-AUTH-TOKEN header or, failing that, a cookie of the same name. On
// success the resolved principal is attached to the request context; on
// failure the request is rejected with a uniform 401 envelope.
//
// Every decision is audit-logged with the client host, path, and outcome.
// The token itself is never logged.
func AuthMiddleware(sessions session.Store, metrics *Metrics, publicPaths []string) func(http.Handler) http.Handler {
	if publicPaths == nil {
		publicPaths = DefaultPublicPaths
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := LoggerFromContext(r.Context())

			if isPublicPath(r.URL.Path, publicPaths) {
				next.ServeHTTP(w, r)
				return
			}

			token := tokenFromRequest(r)
			if token == "" {
				logger.Warn("request rejected",
					"remote", IPFromContext(r.Context()),
					"path", r.URL.Path,
					"reason", "missing token",
				)
				if metrics != nil {
					metrics.AuthRejections.WithLabelValues("missing").Inc()
				}
				writeError(w, http.StatusUnauthorized, "no authentication token present")
				return
			}

			record, err := sessions.Get(r.Context(), token)
			if err != nil {
				reason := "lookup failed"
				if errors.Is(err, session.ErrSessionNotFound) {
					reason = "invalid token"
				}
				logger.Warn("request rejected",
					"remote", IPFromContext(r.Context()),
					"path", r.URL.Path,
					"token", tokenFingerprint(token),
					"reason", reason,
				)
				if metrics != nil {
					metrics.AuthRejections.WithLabelValues("invalid").Inc()
				}
				writeError(w, http.StatusUnauthorized, "invalid authentication token")
				return
			}

			logger.Info("request authenticated",
				"remote", IPFromContext(r.Context()),
				"path", r.URL.Path,
				"token", tokenFingerprint(token),
				"user_id", record.UserID,
				"username", record.Username,
			)

			ctx := auth.WithPrincipal(r.Context(), record.Principal(token))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// tokenFromRequest resolves the session token: header first, cookie second.
func tokenFromRequest(r *http.Request) string {
	if token := r.Header.Get(AuthTokenHeader); token != "" {
		return token
	}
	if cookie, err := r.Cookie(AuthTokenCookie); err == nil {
		return cookie.Value
	}
	return ""
}

// tokenFingerprint returns a short prefix of the token for audit lines.
// Enough to correlate a session across requests without writing a usable
// bearer credential into the logs.
func tokenFingerprint(token string) string {
	if len(token) > 8 {
		return token[:8]
	}
	return token
}

// isPublicPath reports whether the path falls under a public prefix.
func isPublicPath(path string, publicPaths []string) bool {
	for _, prefix := range publicPaths {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}
