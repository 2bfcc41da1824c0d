package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/aoldacloud/console/internal/adapter/outbound/keystone"
	"github.com/aoldacloud/console/internal/adapter/outbound/memory"
	"github.com/aoldacloud/console/internal/domain/auth"
	"github.com/aoldacloud/console/internal/domain/session"
)

type fakeProvider struct {
	session     *auth.ProviderSession
	authErr     error
	projects    []auth.ProjectRef
	projectsErr error
}

func (f *fakeProvider) AuthenticateWithPassword(ctx context.Context, username, password string) (*auth.ProviderSession, error) {
	if f.authErr != nil {
		return nil, f.authErr
	}
	return f.session, nil
}

func (f *fakeProvider) AccessibleProjects(ctx context.Context, providerToken string) ([]auth.ProjectRef, error) {
	if f.projectsErr != nil {
		return nil, f.projectsErr
	}
	return f.projects, nil
}

type fakeFactory struct {
	scopeErr error
	lastScope *auth.Principal
}

func (f *fakeFactory) Scoped(ctx context.Context, principal *auth.Principal) (*keystone.ScopedClient, error) {
	f.lastScope = principal
	if f.scopeErr != nil {
		return nil, f.scopeErr
	}
	return &keystone.ScopedClient{}, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLoginIssuesOpaqueSession(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{
		session: &auth.ProviderSession{
			TokenID:          "ks-token-secret",
			UserID:           "u-1",
			Username:         "alice",
			DomainID:         "default",
			DefaultProjectID: "p-default",
			Enabled:          true,
		},
	}
	store := memory.NewSessionStore()
	svc := NewAuthService(provider, &fakeFactory{}, store, time.Hour, discardLogger())

	result, err := svc.Login(context.Background(), "alice", "hunter2")
	if err != nil {
		t.Fatalf("Login() error: %v", err)
	}

	if len(result.AuthToken) != auth.TokenLength {
		t.Errorf("expected %d-char token, got %d", auth.TokenLength, len(result.AuthToken))
	}
	if result.AuthToken == provider.session.TokenID {
		t.Error("console token must not be the provider token")
	}
	if result.ProjectID != "p-default" {
		t.Errorf("expected default project adopted, got %q", result.ProjectID)
	}

	record, err := store.Get(context.Background(), result.AuthToken)
	if err != nil {
		t.Fatalf("session not stored: %v", err)
	}
	if record.ProviderToken != "ks-token-secret" {
		t.Errorf("record holds wrong provider token: %q", record.ProviderToken)
	}
	if record.Username != "alice" {
		t.Errorf("record holds wrong username: %q", record.Username)
	}
}

func TestLoginAdoptsFirstAccessibleProject(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{
		session: &auth.ProviderSession{
			TokenID:  "tok",
			UserID:   "u-2",
			Username: "bob",
			Enabled:  true,
		},
		projects: []auth.ProjectRef{{ID: "p-first"}, {ID: "p-second"}},
	}
	svc := NewAuthService(provider, &fakeFactory{}, memory.NewSessionStore(), time.Hour, discardLogger())

	result, err := svc.Login(context.Background(), "bob", "pw")
	if err != nil {
		t.Fatalf("Login() error: %v", err)
	}
	if result.ProjectID != "p-first" {
		t.Errorf("expected first accessible project, got %q", result.ProjectID)
	}
}

func TestLoginWithoutAnyProject(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{
		session:     &auth.ProviderSession{TokenID: "tok", UserID: "u-3", Username: "carol", DomainID: "default", Enabled: true},
		projectsErr: errors.New("identity api down"),
	}
	svc := NewAuthService(provider, &fakeFactory{}, memory.NewSessionStore(), time.Hour, discardLogger())

	// Project discovery failing must not fail the login itself.
	result, err := svc.Login(context.Background(), "carol", "pw")
	if err != nil {
		t.Fatalf("Login() error: %v", err)
	}
	if result.ProjectID != "" {
		t.Errorf("expected empty project scope, got %q", result.ProjectID)
	}
}

func TestConcurrentLoginsAreIndependent(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{
		session: &auth.ProviderSession{
			TokenID:          "tok",
			UserID:           "u-1",
			Username:         "alice",
			DefaultProjectID: "p-1",
			Enabled:          true,
		},
	}
	store := memory.NewSessionStore()
	svc := NewAuthService(provider, &fakeFactory{}, store, time.Hour, discardLogger())

	first, err := svc.Login(context.Background(), "alice", "pw")
	if err != nil {
		t.Fatalf("first Login() error: %v", err)
	}
	second, err := svc.Login(context.Background(), "alice", "pw")
	if err != nil {
		t.Fatalf("second Login() error: %v", err)
	}

	if first.AuthToken == second.AuthToken {
		t.Fatal("two logins must mint distinct tokens")
	}
	// Neither login invalidates the other.
	if _, err := store.Get(context.Background(), first.AuthToken); err != nil {
		t.Errorf("first session gone after second login: %v", err)
	}
	if _, err := store.Get(context.Background(), second.AuthToken); err != nil {
		t.Errorf("second session not stored: %v", err)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{authErr: auth.ErrAuthentication}
	store := memory.NewSessionStore()
	svc := NewAuthService(provider, &fakeFactory{}, store, time.Hour, discardLogger())

	_, err := svc.Login(context.Background(), "mallory", "wrong")
	if !errors.Is(err, auth.ErrAuthentication) {
		t.Fatalf("expected ErrAuthentication, got %v", err)
	}
	if store.Size() != 0 {
		t.Error("no session may be stored for a failed login")
	}
}

func TestLogoutDropsSession(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{
		session: &auth.ProviderSession{TokenID: "tok", UserID: "u-4", Username: "dave", Enabled: true},
	}
	store := memory.NewSessionStore()
	svc := NewAuthService(provider, &fakeFactory{}, store, time.Hour, discardLogger())

	result, err := svc.Login(context.Background(), "dave", "pw")
	if err != nil {
		t.Fatalf("Login() error: %v", err)
	}

	record, _ := store.Get(context.Background(), result.AuthToken)
	ctx := auth.WithPrincipal(context.Background(), record.Principal(result.AuthToken))

	if err := svc.Logout(ctx); err != nil {
		t.Fatalf("Logout() error: %v", err)
	}
	if _, err := store.Get(context.Background(), result.AuthToken); !errors.Is(err, session.ErrSessionNotFound) {
		t.Errorf("expected session gone, got %v", err)
	}

	// A second logout with the same token is a no-op.
	if err := svc.Logout(ctx); err != nil {
		t.Errorf("repeated Logout() error: %v", err)
	}
}

func TestSwitchProjectVerifiesScopeFirst(t *testing.T) {
	t.Parallel()

	store := memory.NewSessionStore()
	record := &session.Record{
		ProviderToken: "tok",
		UserID:        "u-5",
		Username:      "erin",
		ProjectID:     "p-old",
		Enabled:       true,
		IssuedAt:      time.Now(),
	}
	if err := store.Put(context.Background(), "console-token", record, time.Hour); err != nil {
		t.Fatalf("seed session: %v", err)
	}
	ctx := auth.WithPrincipal(context.Background(), record.Principal("console-token"))

	factory := &fakeFactory{scopeErr: auth.ErrScoping}
	svc := NewAuthService(&fakeProvider{}, factory, store, time.Hour, discardLogger())

	if _, err := svc.SwitchProject(ctx, "p-forbidden"); !errors.Is(err, auth.ErrScoping) {
		t.Fatalf("expected ErrScoping, got %v", err)
	}
	if factory.lastScope.ProjectID != "p-forbidden" {
		t.Errorf("scope check ran against %q", factory.lastScope.ProjectID)
	}

	// The rejected switch must leave the session untouched.
	got, err := store.Get(context.Background(), "console-token")
	if err != nil {
		t.Fatalf("session lost: %v", err)
	}
	if got.ProjectID != "p-old" {
		t.Errorf("session project changed to %q after rejected switch", got.ProjectID)
	}
}

func TestSwitchProjectReplacesRecordUnderSameToken(t *testing.T) {
	t.Parallel()

	store := memory.NewSessionStore()
	record := &session.Record{
		ProviderToken: "tok",
		UserID:        "u-6",
		Username:      "frank",
		ProjectID:     "p-old",
		Enabled:       true,
		IssuedAt:      time.Now(),
	}
	if err := store.Put(context.Background(), "console-token", record, time.Hour); err != nil {
		t.Fatalf("seed session: %v", err)
	}
	ctx := auth.WithPrincipal(context.Background(), record.Principal("console-token"))

	provider := &fakeProvider{projects: []auth.ProjectRef{{ID: "p-old"}, {ID: "p-new"}}}
	svc := NewAuthService(provider, &fakeFactory{}, store, time.Hour, discardLogger())

	scope, err := svc.SwitchProject(ctx, "p-new")
	if err != nil {
		t.Fatalf("SwitchProject() error: %v", err)
	}
	if scope.CurrentProjectID != "p-new" {
		t.Errorf("expected current project p-new, got %q", scope.CurrentProjectID)
	}
	if len(scope.Available) != 2 {
		t.Errorf("expected 2 available projects, got %d", len(scope.Available))
	}

	got, err := store.Get(context.Background(), "console-token")
	if err != nil {
		t.Fatalf("session lost after switch: %v", err)
	}
	if got.ProjectID != "p-new" {
		t.Errorf("expected record re-scoped to p-new, got %q", got.ProjectID)
	}
	if got.ProviderToken != "tok" {
		t.Errorf("provider token must survive the switch, got %q", got.ProviderToken)
	}
}

func TestCurrentProjectRequiresPrincipal(t *testing.T) {
	t.Parallel()

	svc := NewAuthService(&fakeProvider{}, &fakeFactory{}, memory.NewSessionStore(), time.Hour, discardLogger())
	if _, err := svc.CurrentProject(context.Background()); !errors.Is(err, auth.ErrNoPrincipal) {
		t.Fatalf("expected ErrNoPrincipal, got %v", err)
	}
}
