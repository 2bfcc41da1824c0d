package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})
}

func TestLoginRateLimit_UnderLimit_Succeeds(t *testing.T) {
	handler := loginRateLimitMiddleware(5, 1*time.Minute, okHandler())

	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1.0/auth/login", nil)
		req.RemoteAddr = "192.168.1.100:1234"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: want 200, got %d", i+1, rec.Code)
		}
	}
}

func TestLoginRateLimit_OverLimit_Returns429(t *testing.T) {
	handler := loginRateLimitMiddleware(3, 1*time.Minute, okHandler())

	// Use up the limit.
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1.0/auth/login", nil)
		req.RemoteAddr = "10.0.0.1:5678"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: want 200, got %d", i+1, rec.Code)
		}
	}

	// Next attempt should be rate-limited.
	req := httptest.NewRequest(http.MethodPost, "/api/v1.0/auth/login", nil)
	req.RemoteAddr = "10.0.0.1:5678"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("want 429, got %d", rec.Code)
	}

	// Verify Retry-After header is present.
	retryAfter := rec.Header().Get("Retry-After")
	if retryAfter == "" {
		t.Error("missing Retry-After header")
	}

	// Verify the envelope carries the error.
	var env envelope
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	if env.Success {
		t.Error("envelope success should be false")
	}
	if env.Error != "too many login attempts" {
		t.Errorf("unexpected error message: %q", env.Error)
	}
}

func TestLoginRateLimit_DifferentIPs_IndependentLimits(t *testing.T) {
	handler := loginRateLimitMiddleware(2, 1*time.Minute, okHandler())

	// IP 1 uses its limit.
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1.0/auth/login", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("IP1 request %d: want 200, got %d", i+1, rec.Code)
		}
	}

	// IP 1 is now rate-limited.
	req := httptest.NewRequest(http.MethodPost, "/api/v1.0/auth/login", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("IP1 over limit: want 429, got %d", rec.Code)
	}

	// IP 2 should still be allowed.
	req = httptest.NewRequest(http.MethodPost, "/api/v1.0/auth/login", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("IP2: want 200, got %d", rec.Code)
	}
}

func TestLoginRateLimit_ResetsAfterWindow(t *testing.T) {
	// Use a very short window for testing.
	handler := loginRateLimitMiddleware(1, 50*time.Millisecond, okHandler())

	// Use up the limit.
	req := httptest.NewRequest(http.MethodPost, "/api/v1.0/auth/login", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("first request: want 200, got %d", rec.Code)
	}

	// Should be rate-limited.
	req = httptest.NewRequest(http.MethodPost, "/api/v1.0/auth/login", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("over limit: want 429, got %d", rec.Code)
	}

	// Wait for window to expire.
	time.Sleep(60 * time.Millisecond)

	// Should be allowed again.
	req = httptest.NewRequest(http.MethodPost, "/api/v1.0/auth/login", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("after reset: want 200, got %d", rec.Code)
	}
}

func TestLoginRateLimit_UsesForwardedIP(t *testing.T) {
	handler := RealIPMiddleware(loginRateLimitMiddleware(1, 1*time.Minute, okHandler()))

	// Two requests from the same proxy but distinct forwarded clients.
	req := httptest.NewRequest(http.MethodPost, "/api/v1.0/auth/login", nil)
	req.RemoteAddr = "10.0.0.254:1234"
	req.Header.Set("X-Forwarded-For", "203.0.113.10")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("client A: want 200, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/v1.0/auth/login", nil)
	req.RemoteAddr = "10.0.0.254:1234"
	req.Header.Set("X-Forwarded-For", "203.0.113.11")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("client B: want 200, got %d", rec.Code)
	}

	// Repeat for client A hits its limit.
	req = httptest.NewRequest(http.MethodPost, "/api/v1.0/auth/login", nil)
	req.RemoteAddr = "10.0.0.254:1234"
	req.Header.Set("X-Forwarded-For", "203.0.113.10")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("client A repeat: want 429, got %d", rec.Code)
	}
}
