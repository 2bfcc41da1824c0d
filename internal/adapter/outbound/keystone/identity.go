package keystone

import (
	"context"
	"fmt"

	"github.com/gophercloud/gophercloud/v2/openstack/identity/v3/domains"
	"github.com/gophercloud/gophercloud/v2/openstack/identity/v3/projects"
	"github.com/gophercloud/gophercloud/v2/openstack/identity/v3/users"
)

// Identity directory operations, executed with the caller's scope. These are
// mechanical pass-throughs; authorization is entirely Keystone's problem.

// Projects lists the projects visible to this scope.
func (s *ScopedClient) Projects(ctx context.Context) ([]projects.Project, error) {
	identity, err := s.Identity()
	if err != nil {
		return nil, err
	}
	pages, err := projects.List(identity, projects.ListOpts{}).AllPages(ctx)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return projects.ExtractProjects(pages)
}

// Project fetches a single project by ID.
func (s *ScopedClient) Project(ctx context.Context, id string) (*projects.Project, error) {
	identity, err := s.Identity()
	if err != nil {
		return nil, err
	}
	project, err := projects.Get(ctx, identity, id).Extract()
	if err != nil {
		return nil, fmt.Errorf("get project %s: %w", id, err)
	}
	return project, nil
}

// UpdateProject updates a project's name, description, or enabled flag.
func (s *ScopedClient) UpdateProject(ctx context.Context, id string, opts projects.UpdateOpts) (*projects.Project, error) {
	identity, err := s.Identity()
	if err != nil {
		return nil, err
	}
	project, err := projects.Update(ctx, identity, id, opts).Extract()
	if err != nil {
		return nil, fmt.Errorf("update project %s: %w", id, err)
	}
	return project, nil
}

// Domains lists the domains visible to this scope.
func (s *ScopedClient) Domains(ctx context.Context) ([]domains.Domain, error) {
	identity, err := s.Identity()
	if err != nil {
		return nil, err
	}
	pages, err := domains.List(identity, domains.ListOpts{}).AllPages(ctx)
	if err != nil {
		return nil, fmt.Errorf("list domains: %w", err)
	}
	return domains.ExtractDomains(pages)
}

// Domain fetches a single domain by ID.
func (s *ScopedClient) Domain(ctx context.Context, id string) (*domains.Domain, error) {
	identity, err := s.Identity()
	if err != nil {
		return nil, err
	}
	domain, err := domains.Get(ctx, identity, id).Extract()
	if err != nil {
		return nil, fmt.Errorf("get domain %s: %w", id, err)
	}
	return domain, nil
}

// UpdateDomain updates a domain's name, description, or enabled flag.
func (s *ScopedClient) UpdateDomain(ctx context.Context, id string, opts domains.UpdateOpts) (*domains.Domain, error) {
	identity, err := s.Identity()
	if err != nil {
		return nil, err
	}
	domain, err := domains.Update(ctx, identity, id, opts).Extract()
	if err != nil {
		return nil, fmt.Errorf("update domain %s: %w", id, err)
	}
	return domain, nil
}

// Users lists the users visible to this scope.
func (s *ScopedClient) Users(ctx context.Context) ([]users.User, error) {
	identity, err := s.Identity()
	if err != nil {
		return nil, err
	}
	pages, err := users.List(identity, users.ListOpts{}).AllPages(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users.ExtractUsers(pages)
}

// User fetches a single user by ID.
func (s *ScopedClient) User(ctx context.Context, id string) (*users.User, error) {
	identity, err := s.Identity()
	if err != nil {
		return nil, err
	}
	user, err := users.Get(ctx, identity, id).Extract()
	if err != nil {
		return nil, fmt.Errorf("get user %s: %w", id, err)
	}
	return user, nil
}

// UpdateUser updates a user's mutable attributes.
func (s *ScopedClient) UpdateUser(ctx context.Context, id string, opts users.UpdateOpts) (*users.User, error) {
	identity, err := s.Identity()
	if err != nil {
		return nil, err
	}
	user, err := users.Update(ctx, identity, id, opts).Extract()
	if err != nil {
		return nil, fmt.Errorf("update user %s: %w", id, err)
	}
	return user, nil
}
