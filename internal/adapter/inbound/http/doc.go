// Package http provides the inbound HTTP transport for the console backend.
//
// It serves the versioned REST API under /api/v1.0/ and connects browser
// clients to the application services: login sessions, the identity
// directory, compute, networking, and proxy management.
//
// # Usage
//
// Create and start the transport:
//
//	transport := http.NewHTTPTransport(services, sessionStore,
//	    http.WithAddr(":8080"),
//	    http.WithTLS("cert.pem", "key.pem"),
//	    http.WithAllowedOrigins([]string{"https://console.example.com"}),
//	    http.WithLogger(logger),
//	)
//	err := transport.Start(ctx)
//
// # Authentication
//
// Every request outside the public paths must carry a session token in the
// X-AUTH-TOKEN header or, failing that, an X-AUTH-TOKEN cookie. The login
// endpoint issues the token and sets the cookie; AuthMiddleware resolves it
// against the session store and attaches the authenticated principal to the
// request context. Unknown or expired tokens get 401 inside the standard
// response envelope.
//
// # Response Envelope
//
// All API responses share one JSON shape:
//
//	{"success": true, "data": {...}, "timeStamp": "2024-01-01T00:00:00Z"}
//
// timeStamp is ISO-8601 in UTC. Errors carry success=false and a message in
// error with data=null.
//
// # Middleware Chain
//
// Requests pass through middleware in this order:
//
//  1. MetricsMiddleware - records duration and status for the full request
//  2. RequestIDMiddleware - generates/echoes X-Request-ID, enriches the logger
//  3. RealIPMiddleware - extracts client IP from X-Forwarded-For/X-Real-IP
//  4. CORSMiddleware - origin allowlist with credentials support
//  5. AuthMiddleware - the session gate
//
// The login route additionally carries a per-IP rate limit when enabled via
// WithLoginRateLimit.
//
// # Operational Endpoints
//
// /health, /metrics, and /favicon.ico sit outside the API mux and the
// session gate. /metrics serves the Prometheus registry; /health reports
// component checks and returns 503 when the identity provider is
// unreachable.
package http
