package http

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"
)

// loginRateLimitEntry tracks login attempts for a single IP address.
type loginRateLimitEntry struct {
	count   int
	resetAt time.Time
}

// loginRateLimiter provides per-IP rate limiting for the login endpoint.
// It limits to maxAttempts per window per IP to slow down credential
// stuffing against the identity provider.
type loginRateLimiter struct {
	mu          sync.Mutex
	entries     map[string]*loginRateLimitEntry
	maxAttempts int
	window      time.Duration
}

// newLoginRateLimiter creates a rate limiter with the given limits.
func newLoginRateLimiter(maxAttempts int, window time.Duration) *loginRateLimiter {
	return &loginRateLimiter{
		entries:     make(map[string]*loginRateLimitEntry),
		maxAttempts: maxAttempts,
		window:      window,
	}
}

// allow checks if the given IP is allowed another login attempt.
// Returns (allowed, secondsUntilReset).
func (rl *loginRateLimiter) allow(ip string) (bool, int) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()

	// Lazy cleanup: remove expired entries.
	for k, e := range rl.entries {
		if now.After(e.resetAt) {
			delete(rl.entries, k)
		}
	}

	entry, ok := rl.entries[ip]
	if !ok {
		rl.entries[ip] = &loginRateLimitEntry{
			count:   1,
			resetAt: now.Add(rl.window),
		}
		return true, 0
	}

	// If window has expired, reset.
	if now.After(entry.resetAt) {
		entry.count = 1
		entry.resetAt = now.Add(rl.window)
		return true, 0
	}

	// Within window, check limit.
	if entry.count >= rl.maxAttempts {
		retryAfter := int(entry.resetAt.Sub(now).Seconds()) + 1
		if retryAfter < 1 {
			retryAfter = 1
		}
		return false, retryAfter
	}

	entry.count++
	return true, 0
}

// loginRateLimitMiddleware wraps the login handler with per-IP rate limiting.
// When the limit is exceeded it responds with 429 Too Many Requests and a
// Retry-After header; other endpoints are unaffected since only the login
// route is wrapped.
func loginRateLimitMiddleware(maxAttempts int, window time.Duration, next http.Handler) http.Handler {
	limiter := newLoginRateLimiter(maxAttempts, window)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientIP := IPFromContext(r.Context())
		if clientIP == "" {
			host, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				host = r.RemoteAddr
			}
			clientIP = host
		}

		allowed, retryAfter := limiter.allow(clientIP)
		if !allowed {
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			writeError(w, http.StatusTooManyRequests, "too many login attempts")
			return
		}

		next.ServeHTTP(w, r)
	})
}
