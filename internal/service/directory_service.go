package service

import (
	"context"
	"log/slog"

	"github.com/gophercloud/gophercloud/v2/openstack/identity/v3/domains"
	"github.com/gophercloud/gophercloud/v2/openstack/identity/v3/users"

	"github.com/aoldacloud/console/internal/adapter/outbound/keystone"
	"github.com/aoldacloud/console/internal/domain/auth"
)

// DirectoryService exposes the identity directory (domains and users) to
// the console. All calls run under the caller's scope; visibility is
// whatever the identity provider grants that scope.
type DirectoryService struct {
	factory ClientFactory
	logger  *slog.Logger
}

// NewDirectoryService creates a new DirectoryService.
func NewDirectoryService(factory ClientFactory, logger *slog.Logger) *DirectoryService {
	return &DirectoryService{factory: factory, logger: logger}
}

// Domains lists the domains visible to the caller.
func (s *DirectoryService) Domains(ctx context.Context) ([]domains.Domain, error) {
	sc, _, err := s.scoped(ctx)
	if err != nil {
		return nil, err
	}
	return sc.Domains(ctx)
}

// Domain fetches one domain.
func (s *DirectoryService) Domain(ctx context.Context, id string) (*domains.Domain, error) {
	sc, _, err := s.scoped(ctx)
	if err != nil {
		return nil, err
	}
	return sc.Domain(ctx, id)
}

// UpdateDomain updates a domain's mutable attributes.
func (s *DirectoryService) UpdateDomain(ctx context.Context, id string, opts domains.UpdateOpts) (*domains.Domain, error) {
	sc, principal, err := s.scoped(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Info("updating domain", "user_id", principal.UserID, "domain_id", id)
	return sc.UpdateDomain(ctx, id, opts)
}

// Users lists the users visible to the caller.
func (s *DirectoryService) Users(ctx context.Context) ([]users.User, error) {
	sc, _, err := s.scoped(ctx)
	if err != nil {
		return nil, err
	}
	return sc.Users(ctx)
}

// User fetches one user.
func (s *DirectoryService) User(ctx context.Context, id string) (*users.User, error) {
	sc, _, err := s.scoped(ctx)
	if err != nil {
		return nil, err
	}
	return sc.User(ctx, id)
}

// UpdateUser updates a user's mutable attributes.
func (s *DirectoryService) UpdateUser(ctx context.Context, id string, opts users.UpdateOpts) (*users.User, error) {
	sc, principal, err := s.scoped(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Info("updating user", "user_id", principal.UserID, "target_user_id", id)
	return sc.UpdateUser(ctx, id, opts)
}

func (s *DirectoryService) scoped(ctx context.Context) (*keystone.ScopedClient, *auth.Principal, error) {
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
