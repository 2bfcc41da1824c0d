package service

import (
	"context"
	"log/slog"

	"github.com/gophercloud/gophercloud/v2/openstack/compute/v2/flavors"
	"github.com/gophercloud/gophercloud/v2/openstack/compute/v2/limits"
	"github.com/gophercloud/gophercloud/v2/openstack/compute/v2/servers"

	"github.com/aoldacloud/console/internal/adapter/outbound/keystone"
	"github.com/aoldacloud/console/internal/adapter/outbound/nova"
	"github.com/aoldacloud/console/internal/domain/auth"
)

// ComputeService relays server, flavor, and quota operations to the compute
// API under the caller's scope.
type ComputeService struct {
	factory ClientFactory
	logger  *slog.Logger
}

// NewComputeService creates a new ComputeService.
func NewComputeService(factory ClientFactory, logger *slog.Logger) *ComputeService {
	return &ComputeService{factory: factory, logger: logger}
}

// Servers lists the caller's servers.
func (s *ComputeService) Servers(ctx context.Context) ([]servers.Server, error) {
	sc, _, err := s.scoped(ctx)
	if err != nil {
		return nil, err
	}
	return nova.ListServers(ctx, sc)
}

// Server fetches one server.
func (s *ComputeService) Server(ctx context.Context, id string) (*servers.Server, error) {
	sc, _, err := s.scoped(ctx)
	if err != nil {
		return nil, err
	}
	return nova.GetServer(ctx, sc, id)
}

// CreateServer boots a new server.
func (s *ComputeService) CreateServer(ctx context.Context, in nova.ServerCreate) (*servers.Server, error) {
	sc, principal, err := s.scoped(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Info("creating server",
		"user_id", principal.UserID,
		"name", in.Name,
		"flavor_id", in.FlavorID,
	)
	return nova.CreateServer(ctx, sc, in)
}

// UpdateServer renames a server or replaces metadata.
func (s *ComputeService) UpdateServer(ctx context.Context, id string, in nova.ServerUpdate) (*servers.Server, error) {
	sc, _, err := s.scoped(ctx)
	if err != nil {
		return nil, err
	}
	return nova.UpdateServer(ctx, sc, id, in)
}

// DeleteServer deletes a server.
func (s *ComputeService) DeleteServer(ctx context.Context, id string) error {
	sc, principal, err := s.scoped(ctx)
	if err != nil {
		return err
	}
	s.logger.Info("deleting server", "user_id", principal.UserID, "server_id", id)
	return nova.DeleteServer(ctx, sc, id)
}

// ServerAction performs a named power/state action on a server.
func (s *ComputeService) ServerAction(ctx context.Context, id, action string) error {
	sc, principal, err := s.scoped(ctx)
	if err != nil {
		return err
	}
	s.logger.Info("server action",
		"user_id", principal.UserID,
		"server_id", id,
		"action", action,
	)
	return nova.ServerAction(ctx, sc, id, action)
}

// CreateSnapshot creates an image from a server.
func (s *ComputeService) CreateSnapshot(ctx context.Context, id, name string) (string, error) {
	sc, principal, err := s.scoped(ctx)
	if err != nil {
		return "", err
	}
	s.logger.Info("creating snapshot", "user_id", principal.UserID, "server_id", id, "name", name)
	return nova.CreateSnapshot(ctx, sc, id, name)
}

// ServerMetadata returns a server's metadata.
func (s *ComputeService) ServerMetadata(ctx context.Context, id string) (map[string]string, error) {
	sc, _, err := s.scoped(ctx)
	if err != nil {
		return nil, err
	}
	return nova.ServerMetadata(ctx, sc, id)
}

// UpdateServerMetadata merges the given keys into a server's metadata and
// returns the result.
func (s *ComputeService) UpdateServerMetadata(ctx context.Context, id string, md map[string]string) (map[string]string, error) {
	sc, principal, err := s.scoped(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Info("updating server metadata", "user_id", principal.UserID, "server_id", id)
	return nova.UpdateServerMetadata(ctx, sc, id, md)
}

// Flavors lists the flavors available to the caller.
func (s *ComputeService) Flavors(ctx context.Context) ([]flavors.Flavor, error) {
	sc, _, err := s.scoped(ctx)
	if err != nil {
		return nil, err
	}
	return nova.ListFlavors(ctx, sc)
}

// Limits returns the caller's absolute compute quotas and usage.
func (s *ComputeService) Limits(ctx context.Context) (*limits.Absolute, error) {
	sc, _, err := s.scoped(ctx)
	if err != nil {
		return nil, err
	}
	return nova.AbsoluteLimits(ctx, sc)
}

func (s *ComputeService) scoped(ctx context.Context) (*keystone.ScopedClient, *auth.Principal, error) {
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
