package http

import (
	"context"
	"crypto/tls"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aoldacloud/console/internal/domain/session"
	"github.com/aoldacloud/console/internal/service"
)

// Services bundles the application services the transport serves.
type Services struct {
	Auth      *service.AuthService
	Directory *service.DirectoryService
	Compute   *service.ComputeService
	Network   *service.NetworkService
	Proxy     *service.ProxyService
}

// HTTPTransport is the inbound adapter that connects the console services
// to HTTP clients.
type HTTPTransport struct {
	services       Services
	sessions       session.Store
	sessionCounter SessionCounter
	server         *http.Server
	addr           string
	allowedOrigins []string
	publicPaths    []string
	certFile       string
	keyFile        string
	cookie         CookieSettings
	loginRateMax   int
	loginRateWin   time.Duration
	logger         *slog.Logger
	metrics        *Metrics
	healthChecker  *HealthChecker
}

// Option is a functional option for configuring HTTPTransport.
type Option func(*HTTPTransport)

// WithAddr sets the listen address for the HTTP server.
// Default is "127.0.0.1:8080" (localhost only).
func WithAddr(addr string) Option {
	return func(t *HTTPTransport) {
		t.addr = addr
	}
}

// WithTLS enables TLS with the provided certificate and key files.
// If not set, the server runs without TLS (plain HTTP).
func WithTLS(certFile, keyFile string) Option {
	return func(t *HTTPTransport) {
		t.certFile = certFile
		t.keyFile = keyFile
	}
}

// WithAllowedOrigins sets the allowed origins for cross-origin browser
// requests. If empty, all requests with an Origin header are blocked.
func WithAllowedOrigins(origins []string) Option {
	return func(t *HTTPTransport) {
		t.allowedOrigins = origins
	}
}

// WithPublicPaths overrides the path prefixes served without a session.
func WithPublicPaths(paths []string) Option {
	return func(t *HTTPTransport) {
		t.publicPaths = paths
	}
}

// WithCookieSettings overrides the session cookie flags.
func WithCookieSettings(cookie CookieSettings) Option {
	return func(t *HTTPTransport) {
		t.cookie = cookie
	}
}

// WithLoginRateLimit limits login attempts per client IP to maxAttempts per
// window. Zero maxAttempts disables the limiter.
func WithLoginRateLimit(maxAttempts int, window time.Duration) Option {
	return func(t *HTTPTransport) {
		t.loginRateMax = maxAttempts
		t.loginRateWin = window
	}
}

// WithLogger sets the logger for the HTTP transport.
func WithLogger(logger *slog.Logger) Option {
	return func(t *HTTPTransport) {
		t.logger = logger
	}
}

// WithSessionCounter exposes the live session count to metrics and health.
func WithSessionCounter(counter SessionCounter) Option {
	return func(t *HTTPTransport) {
		t.sessionCounter = counter
	}
}

// WithHealthChecker sets the health checker for the /health endpoint.
func WithHealthChecker(hc *HealthChecker) Option {
	return func(t *HTTPTransport) {
		t.healthChecker = hc
	}
}

// NewHTTPTransport creates an HTTP transport adapter serving the given
// services, authenticated against the given session store.
func NewHTTPTransport(services Services, sessions session.Store, opts ...Option) *HTTPTransport {
	t := &HTTPTransport{
		services:       services,
		sessions:       sessions,
		addr:           "127.0.0.1:8080",
		allowedOrigins: []string{},
		cookie: CookieSettings{
			MaxAge: int(session.DefaultTTL.Seconds()),
		},
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// Start begins accepting HTTP connections. It blocks until the context is
// cancelled or the server fails.
func (t *HTTPTransport) Start(ctx context.Context) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	t.metrics = NewMetrics(reg, t.sessionCounter)

	apiHandler := t.routes()

	// Middleware order (outermost first):
	// 1. MetricsMiddleware - record duration and status for the full request
	// 2. RequestID - extract/generate request ID and enrich logger
	// 3. RealIP - resolve client IP for audit lines
	// 4. CORS - origin allowlist for browser clients
	// 5. Auth - the session gate; attaches the principal
	var handler http.Handler = apiHandler
	handler = AuthMiddleware(t.sessions, t.metrics, t.publicPaths)(handler)
	handler = CORSMiddleware(t.allowedOrigins)(handler)
	handler = RealIPMiddleware(handler)
	handler = RequestIDMiddleware(t.logger)(handler)
	handler = MetricsMiddleware(t.metrics)(handler)

	mux := http.NewServeMux()
	if t.healthChecker != nil {
		mux.Handle("/health", t.healthChecker.Handler())
	} else {
		mux.Handle("/health", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
		}))
	}
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{
		Registry: reg,
	}))
	// Favicon handler to prevent browser 500 errors
	mux.Handle("/favicon.ico", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	mux.Handle("/", handler)

	t.server = &http.Server{
		Addr:              t.addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	if t.certFile != "" && t.keyFile != "" {
		t.server.TLSConfig = &tls.Config{
			MinVersion: tls.VersionTLS12,
		}
	}

	errCh := make(chan error, 1)

	go func() {
		var err error
		if t.certFile != "" && t.keyFile != "" {
			t.logger.Info("starting HTTPS server", "addr", t.addr)
			err = t.server.ListenAndServeTLS(t.certFile, t.keyFile)
		} else {
			t.logger.Info("starting HTTP server", "addr", t.addr)
			err = t.server.ListenAndServe()
		}
		if err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		t.logger.Info("shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return t.server.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

// routes builds the API mux.
func (t *HTTPTransport) routes() http.Handler {
	authHandlers := NewAuthHandlers(t.services.Auth, t.cookie, t.metrics)
	identityHandlers := NewIdentityHandlers(t.services.Auth, t.services.Directory)
	computeHandlers := NewComputeHandlers(t.services.Compute)
	networkHandlers := NewNetworkHandlers(t.services.Network)
	proxyHandlers := NewProxyHandlers(t.services.Proxy)

	mux := http.NewServeMux()

	// Auth and session scope. Login is the only unauthenticated mutation,
	// so it alone carries the per-IP rate limit.
	var login http.Handler = http.HandlerFunc(authHandlers.Login)
	if t.loginRateMax > 0 {
		login = loginRateLimitMiddleware(t.loginRateMax, t.loginRateWin, login)
	}
	mux.Handle("POST /api/v1.0/auth/login", login)
	mux.HandleFunc("POST /api/v1.0/auth/logout", authHandlers.Logout)
	mux.HandleFunc("GET /api/v1.0/auth/project", authHandlers.CurrentProject)
	mux.HandleFunc("PUT /api/v1.0/auth/project", authHandlers.SwitchProject)

	// Identity directory
	mux.HandleFunc("GET /api/v1.0/projects", identityHandlers.ListProjects)
	mux.HandleFunc("GET /api/v1.0/projects/{id}", identityHandlers.GetProject)
	mux.HandleFunc("PUT /api/v1.0/projects/{id}", identityHandlers.UpdateProject)
	mux.HandleFunc("GET /api/v1.0/domains", identityHandlers.ListDomains)
	mux.HandleFunc("GET /api/v1.0/domains/{id}", identityHandlers.GetDomain)
	mux.HandleFunc("PUT /api/v1.0/domains/{id}", identityHandlers.UpdateDomain)
	mux.HandleFunc("GET /api/v1.0/users", identityHandlers.ListUsers)
	mux.HandleFunc("GET /api/v1.0/users/{id}", identityHandlers.GetUser)
	mux.HandleFunc("PUT /api/v1.0/users/{id}", identityHandlers.UpdateUser)

	// Compute
	mux.HandleFunc("GET /api/v1.0/servers", computeHandlers.ListServers)
	mux.HandleFunc("POST /api/v1.0/servers", computeHandlers.CreateServer)
	mux.HandleFunc("GET /api/v1.0/servers/{id}", computeHandlers.GetServer)
	mux.HandleFunc("PUT /api/v1.0/servers/{id}", computeHandlers.UpdateServer)
	mux.HandleFunc("DELETE /api/v1.0/servers/{id}", computeHandlers.DeleteServer)
	mux.HandleFunc("POST /api/v1.0/servers/{id}/action", computeHandlers.ServerAction)
	mux.HandleFunc("POST /api/v1.0/servers/{id}/snapshot", computeHandlers.CreateSnapshot)
	mux.HandleFunc("GET /api/v1.0/servers/{id}/metadata", computeHandlers.ServerMetadata)
	mux.HandleFunc("PUT /api/v1.0/servers/{id}/metadata", computeHandlers.UpdateServerMetadata)
	mux.HandleFunc("GET /api/v1.0/flavors", computeHandlers.ListFlavors)
	mux.HandleFunc("GET /api/v1.0/limits", computeHandlers.Limits)

	// Network
	mux.HandleFunc("GET /api/v1.0/networks", networkHandlers.ListNetworks)
	mux.HandleFunc("GET /api/v1.0/networks/{id}", networkHandlers.GetNetwork)
	mux.HandleFunc("GET /api/v1.0/subnets", networkHandlers.ListSubnets)
	mux.HandleFunc("POST /api/v1.0/subnets", networkHandlers.CreateSubnet)
	mux.HandleFunc("GET /api/v1.0/subnets/{id}", networkHandlers.GetSubnet)
	mux.HandleFunc("PUT /api/v1.0/subnets/{id}", networkHandlers.UpdateSubnet)
	mux.HandleFunc("DELETE /api/v1.0/subnets/{id}", networkHandlers.DeleteSubnet)
	mux.HandleFunc("GET /api/v1.0/ports", networkHandlers.ListPorts)
	mux.HandleFunc("POST /api/v1.0/ports", networkHandlers.CreatePort)
	mux.HandleFunc("GET /api/v1.0/ports/{id}", networkHandlers.GetPort)
	mux.HandleFunc("PUT /api/v1.0/ports/{id}", networkHandlers.UpdatePort)
	mux.HandleFunc("DELETE /api/v1.0/ports/{id}", networkHandlers.DeletePort)
	mux.HandleFunc("GET /api/v1.0/routers", networkHandlers.ListRouters)
	mux.HandleFunc("POST /api/v1.0/routers", networkHandlers.CreateRouter)
	mux.HandleFunc("GET /api/v1.0/routers/{id}", networkHandlers.GetRouter)
	mux.HandleFunc("PUT /api/v1.0/routers/{id}", networkHandlers.UpdateRouter)
	mux.HandleFunc("DELETE /api/v1.0/routers/{id}", networkHandlers.DeleteRouter)
	mux.HandleFunc("PUT /api/v1.0/routers/{id}/interfaces", networkHandlers.AddRouterInterface)
	mux.HandleFunc("DELETE /api/v1.0/routers/{id}/interfaces", networkHandlers.RemoveRouterInterface)
	mux.HandleFunc("GET /api/v1.0/floating-ips", networkHandlers.ListFloatingIPs)
	mux.HandleFunc("POST /api/v1.0/floating-ips", networkHandlers.CreateFloatingIP)
	mux.HandleFunc("GET /api/v1.0/floating-ips/{id}", networkHandlers.GetFloatingIP)
	mux.HandleFunc("DELETE /api/v1.0/floating-ips/{id}", networkHandlers.DeleteFloatingIP)
	mux.HandleFunc("PUT /api/v1.0/floating-ips/{id}/associate", networkHandlers.AssociateFloatingIP)
	mux.HandleFunc("PUT /api/v1.0/floating-ips/{id}/disassociate", networkHandlers.DisassociateFloatingIP)

	// Proxies (Heimdall)
	mux.HandleFunc("GET /api/v1.0/proxies", proxyHandlers.List)
	mux.HandleFunc("POST /api/v1.0/proxies", proxyHandlers.Create)
	mux.HandleFunc("GET /api/v1.0/proxies/{id}", proxyHandlers.Get)
	mux.HandleFunc("PUT /api/v1.0/proxies/{id}", proxyHandlers.Update)
	mux.HandleFunc("DELETE /api/v1.0/proxies/{id}", proxyHandlers.Delete)

	return mux
}
