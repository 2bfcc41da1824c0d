package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"runtime"
	"time"
)

// HealthResponse is the JSON response from the /health endpoint.
type HealthResponse struct {
	Status  string            `json:"status"`            // "healthy" or "unhealthy"
	Checks  map[string]string `json:"checks"`            // Component check results
	Version string            `json:"version,omitempty"` // Optional version info
}

// IdentityPinger exercises connectivity to the identity provider without
// credentials. *keystone.Client satisfies it.
type IdentityPinger interface {
	Ping(ctx context.Context) error
}

// HealthChecker verifies component health.
type HealthChecker struct {
	sessions SessionCounter
	identity IdentityPinger
	version  string
}

// NewHealthChecker creates a HealthChecker with optional components.
// Pass nil for components that aren't available.
func NewHealthChecker(sessions SessionCounter, identity IdentityPinger, version string) *HealthChecker {
	return &HealthChecker{
		sessions: sessions,
		identity: identity,
		version:  version,
	}
}

// Check performs health checks on all components.
func (h *HealthChecker) Check(ctx context.Context) HealthResponse {
	checks := make(map[string]string)
	healthy := true

	if h.sessions != nil {
		checks["session_store"] = fmt.Sprintf("ok: %d sessions", h.sessions.Size())
	} else {
		checks["session_store"] = "not configured"
	}

	if h.identity != nil {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		if err := h.identity.Ping(pingCtx); err != nil {
			checks["identity_provider"] = "unreachable: " + err.Error()
			healthy = false
		} else {
			checks["identity_provider"] = "ok"
		}
		cancel()
	} else {
		checks["identity_provider"] = "not configured"
	}

	checks["goroutines"] = fmt.Sprintf("%d", runtime.NumGoroutine())

	status := "healthy"
	if !healthy {
		status = "unhealthy"
	}

	return HealthResponse{
		Status:  status,
		Checks:  checks,
		Version: h.version,
	}
}

// Handler returns an HTTP handler for the health endpoint.
func (h *HealthChecker) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		health := h.Check(r.Context())

		w.Header().Set("Content-Type", "application/json")
		if health.Status != "healthy" {
			w.WriteHeader(http.StatusServiceUnavailable)
		} else {
			w.WriteHeader(http.StatusOK)
		}

		_ = json.NewEncoder(w).Encode(health)
	})
}
