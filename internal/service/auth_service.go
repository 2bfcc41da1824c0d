package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gophercloud/gophercloud/v2/openstack/identity/v3/projects"

	"github.com/aoldacloud/console/internal/adapter/outbound/keystone"
	"github.com/aoldacloud/console/internal/domain/auth"
	"github.com/aoldacloud/console/internal/domain/session"
)

// ClientFactory builds tenant-scoped OpenStack clients for a principal.
// *keystone.Client satisfies it.
type ClientFactory interface {
	Scoped(ctx context.Context, principal *auth.Principal) (*keystone.ScopedClient, error)
}

// LoginResult is what a successful login hands back to the caller. The
// identity-provider token never appears here; callers only ever see the
// console token.
type LoginResult struct {
	AuthToken string    `json:"authToken"`
	UserID    string    `json:"userId"`
	Username  string    `json:"username"`
	ProjectID string    `json:"projectId"`
	DomainID  string    `json:"domainId"`
	Enabled   bool      `json:"enabled"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// ProjectScope describes the caller's current project plus the projects
// they could switch to.
type ProjectScope struct {
	CurrentProjectID string            `json:"currentProjectId"`
	Available        []auth.ProjectRef `json:"available"`
}

// AuthService owns login, session issuance, and scope management.
type AuthService struct {
	provider auth.IdentityProvider
	factory  ClientFactory
	sessions session.Store
	ttl      time.Duration
	logger   *slog.Logger
}

// NewAuthService creates a new AuthService. A non-positive ttl falls back
// to the default session lifetime.
func NewAuthService(provider auth.IdentityProvider, factory ClientFactory, sessions session.Store, ttl time.Duration, logger *slog.Logger) *AuthService {
	if ttl <= 0 {
		ttl = session.DefaultTTL
	}
	return &AuthService{
		provider: provider,
		factory:  factory,
		sessions: sessions,
		ttl:      ttl,
		logger:   logger,
	}
}

// Login authenticates the user against the identity provider, adopts a
// project scope, and issues a console session token.
//
// Scope adoption: the provider's default project wins; when the user has
// none, the first entry of their accessible project list is adopted. A user
// with no projects at all still gets a session, scoped to their domain only.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	ps, err := s.provider.AuthenticateWithPassword(ctx, username, password)
	if err != nil {
		s.logger.Warn("login rejected", "username", username, "error", err)
		return nil, err
	}

	projectID := ps.ProjectID
	if projectID == "" {
		projectID = ps.DefaultProjectID
	}
	if projectID == "" {
		// Best effort. A user with zero projects can still browse
		// domain-scoped views.
		refs, listErr := s.provider.AccessibleProjects(ctx, ps.TokenID)
		switch {
		case listErr != nil:
			s.logger.Warn("could not list accessible projects at login",
				"username", username, "error", listErr)
		case len(refs) > 0:
			projectID = refs[0].ID
		}
	}

	token := auth.GenerateToken(ps.UserID)
	now := time.Now()
	record := &session.Record{
		ProviderToken: ps.TokenID,
		UserID:        ps.UserID,
		Username:      ps.Username,
		ProjectID:     projectID,
		DomainID:      ps.DomainID,
		Enabled:       ps.Enabled,
		IssuedAt:      now,
	}
	if err := s.sessions.Put(ctx, token, record, s.ttl); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}

	s.logger.Info("login succeeded",
		"username", ps.Username,
		"user_id", ps.UserID,
		"project_id", projectID,
	)

	return &LoginResult{
		AuthToken: token,
		UserID:    ps.UserID,
		Username:  ps.Username,
		ProjectID: projectID,
		DomainID:  ps.DomainID,
		Enabled:   ps.Enabled,
		ExpiresAt: now.Add(s.ttl),
	}, nil
}

// Logout drops the caller's session. Unknown tokens are not an error; the
// outcome is the same either way.
func (s *AuthService) Logout(ctx context.Context) error {
	principal, err := auth.PrincipalFromContext(ctx)
	if err != nil {
		return err
	}
	if err := s.sessions.Delete(ctx, principal.Token); err != nil && !errors.Is(err, session.ErrSessionNotFound) {
		return fmt.Errorf("drop session: %w", err)
	}
	s.logger.Info("logout", "user_id", principal.UserID, "username", principal.Username)
	return nil
}

// CurrentProject returns the caller's active project and the projects
// available to them.
func (s *AuthService) CurrentProject(ctx context.Context) (*ProjectScope, error) {
	principal, err := auth.PrincipalFromContext(ctx)
	if err != nil {
		return nil, err
	}
	refs, err := s.provider.AccessibleProjects(ctx, principal.ProviderToken)
	if err != nil {
		return nil, err
	}
	return &ProjectScope{
		CurrentProjectID: principal.ProjectID,
		Available:        refs,
	}, nil
}

// SwitchProject re-scopes the caller's session to another project. The
// target scope is verified against the identity provider before the session
// record is replaced; on failure the existing session is left untouched.
// The console token itself never changes.
func (s *AuthService) SwitchProject(ctx context.Context, projectID string) (*ProjectScope, error) {
	principal, err := auth.PrincipalFromContext(ctx)
	if err != nil {
		return nil, err
	}

	candidate := *principal
	candidate.ProjectID = projectID
	if _, err := s.factory.Scoped(ctx, &candidate); err != nil {
		s.logger.Warn("project switch rejected",
			"user_id", principal.UserID,
			"project_id", projectID,
			"error", err,
		)
		return nil, err
	}

	record := &session.Record{
		ProviderToken: principal.ProviderToken,
		UserID:        principal.UserID,
		Username:      principal.Username,
		ProjectID:     projectID,
		DomainID:      principal.DomainID,
		Enabled:       principal.Enabled,
		IssuedAt:      time.Now(),
	}
	if err := s.sessions.Put(ctx, principal.Token, record, s.ttl); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}

	s.logger.Info("project switched",
		"user_id", principal.UserID,
		"project_id", projectID,
	)

	scope := &ProjectScope{CurrentProjectID: projectID}
	if refs, listErr := s.provider.AccessibleProjects(ctx, principal.ProviderToken); listErr == nil {
		scope.Available = refs
	}
	return scope, nil
}

// Projects lists the projects visible to the caller's scope.
func (s *AuthService) Projects(ctx context.Context) ([]projects.Project, error) {
	sc, principal, err := s.scoped(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("listing projects", "user_id", principal.UserID)
	return sc.Projects(ctx)
}

// Project fetches one project.
func (s *AuthService) Project(ctx context.Context, id string) (*projects.Project, error) {
	sc, _, err := s.scoped(ctx)
	if err != nil {
		return nil, err
	}
	return sc.Project(ctx, id)
}

// UpdateProject updates a project's name, description, or enabled flag.
func (s *AuthService) UpdateProject(ctx context.Context, id string, opts projects.UpdateOpts) (*projects.Project, error) {
	sc, principal, err := s.scoped(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Info("updating project", "user_id", principal.UserID, "target_project_id", id)
	return sc.UpdateProject(ctx, id, opts)
}

// scoped resolves the request principal and builds a scoped client for it.
func (s *AuthService) scoped(ctx context.Context) (*keystone.ScopedClient, *auth.Principal, error) {
	principal, err := auth.PrincipalFromContext(ctx)
	if err != nil {
		return nil, nil, err
	}
	sc, err := s.factory.Scoped(ctx, principal)
	if err != nil {
		return nil, nil, err
	}
	return sc, principal, nil
}
