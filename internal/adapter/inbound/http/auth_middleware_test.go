package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aoldacloud/console/internal/adapter/outbound/memory"
	"github.com/aoldacloud/console/internal/domain/auth"
	"github.com/aoldacloud/console/internal/domain/session"
)

func seedSession(t *testing.T, store session.Store, token string) *session.Record {
	t.Helper()
	record := &session.Record{
		ProviderToken: "ks-token",
		UserID:        "u-1",
		Username:      "alice",
		ProjectID:     "p-1",
		Enabled:       true,
		IssuedAt:      time.Now(),
	}
	if err := store.Put(context.Background(), token, record, time.Hour); err != nil {
		t.Fatalf("seed session: %v", err)
	}
	return record
}

func gateHandler(store session.Store) (http.Handler, *auth.Principal) {
	var captured auth.Principal
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if p, err := auth.PrincipalFromContext(r.Context()); err == nil {
			captured = *p
		}
		w.WriteHeader(http.StatusOK)
	})
	return AuthMiddleware(store, nil, nil)(inner), &captured
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("response is not an envelope: %v", err)
	}
	return env
}

func TestGateAllowsHeaderToken(t *testing.T) {
	t.Parallel()

	store := memory.NewSessionStore()
	seedSession(t, store, "good-token")
	handler, captured := gateHandler(store)

	req := httptest.NewRequest(http.MethodGet, "/api/v1.0/servers", nil)
	req.Header.Set(AuthTokenHeader, "good-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if captured.Username != "alice" {
		t.Errorf("expected principal attached, got %+v", captured)
	}
	if captured.Token != "good-token" {
		t.Errorf("principal must carry the console token, got %q", captured.Token)
	}
}

func TestGateFallsBackToCookie(t *testing.T) {
	t.Parallel()

	store := memory.NewSessionStore()
	seedSession(t, store, "cookie-token")
	handler, captured := gateHandler(store)

	req := httptest.NewRequest(http.MethodGet, "/api/v1.0/servers", nil)
	req.AddCookie(&http.Cookie{Name: AuthTokenCookie, Value: "cookie-token"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if captured.UserID != "u-1" {
		t.Errorf("expected principal from cookie token, got %+v", captured)
	}
}

func TestGateHeaderWinsOverCookie(t *testing.T) {
	t.Parallel()

	store := memory.NewSessionStore()
	seedSession(t, store, "header-token")
	handler, captured := gateHandler(store)

	// Cookie carries a stale token; the valid header token must win.
	req := httptest.NewRequest(http.MethodGet, "/api/v1.0/servers", nil)
	req.Header.Set(AuthTokenHeader, "header-token")
	req.AddCookie(&http.Cookie{Name: AuthTokenCookie, Value: "stale-token"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if captured.Token != "header-token" {
		t.Errorf("expected header token used, got %q", captured.Token)
	}
}

func TestGateRejectsMissingToken(t *testing.T) {
	t.Parallel()

	handler, _ := gateHandler(memory.NewSessionStore())

	req := httptest.NewRequest(http.MethodGet, "/api/v1.0/servers", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.Success {
		t.Error("error envelope must have success=false")
	}
	if env.Error != "no authentication token present" {
		t.Errorf("unexpected error message: %q", env.Error)
	}
}

func TestGateRejectsUnknownToken(t *testing.T) {
	t.Parallel()

	handler, _ := gateHandler(memory.NewSessionStore())

	req := httptest.NewRequest(http.MethodGet, "/api/v1.0/servers", nil)
	req.Header.Set(AuthTokenHeader, "never-issued")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.Error != "invalid authentication token" {
		t.Errorf("unexpected error message: %q", env.Error)
	}
}

func TestGateRejectsExpiredToken(t *testing.T) {
	t.Parallel()

	store := memory.NewSessionStoreWithConfig(10 * time.Millisecond)
	record := &session.Record{UserID: "u-1", Username: "alice", IssuedAt: time.Now()}
	if err := store.Put(context.Background(), "short-lived", record, 10*time.Millisecond); err != nil {
		t.Fatalf("seed session: %v", err)
	}
	time.Sleep(30 * time.Millisecond)

	handler, _ := gateHandler(store)
	req := httptest.NewRequest(http.MethodGet, "/api/v1.0/servers", nil)
	req.Header.Set(AuthTokenHeader, "short-lived")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for expired session, got %d", rec.Code)
	}
}

func TestGatePassesPublicPaths(t *testing.T) {
	t.Parallel()

	handler, _ := gateHandler(memory.NewSessionStore())

	for _, path := range []string{
		"/api/v1.0/auth/login",
		"/api-docs",
		"/api-docs/openapi.json",
		"/swagger-ui/index.html",
		"/favicon.ico",
	} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("public path %s rejected with %d", path, rec.Code)
		}
	}
}

func TestGateDoesNotTreatSimilarPathAsPublic(t *testing.T) {
	t.Parallel()

	handler, _ := gateHandler(memory.NewSessionStore())

	// Not under a public prefix: must require a token.
	req := httptest.NewRequest(http.MethodGet, "/api/v1.0/authz", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for non-public path, got %d", rec.Code)
	}
}
