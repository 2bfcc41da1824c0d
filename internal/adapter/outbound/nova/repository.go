// Package nova is the outbound adapter for the OpenStack compute API.
// Every operation is a mechanical pass-through executed with the caller's
// tenant scope.
package nova

import (
	"context"
	"fmt"
	"strings"

	"github.com/gophercloud/gophercloud/v2/openstack/compute/v2/flavors"
	"github.com/gophercloud/gophercloud/v2/openstack/compute/v2/limits"
	"github.com/gophercloud/gophercloud/v2/openstack/compute/v2/servers"

	"github.com/aoldacloud/console/internal/adapter/outbound/keystone"
)

// ServerCreate holds the console-facing inputs for booting a server.
type ServerCreate struct {
	Name       string            `json:"name" validate:"required"`
	ImageID    string            `json:"imageId" validate:"required"`
	FlavorID   string            `json:"flavorId" validate:"required"`
	NetworkIDs []string          `json:"networkIds"`
	Metadata   map[string]string `json:"metadata"`
}

// ServerUpdate holds the mutable server attributes.
type ServerUpdate struct {
	Name     string            `json:"name"`
	Metadata map[string]string `json:"metadata"`
}

// ListServers returns all servers visible to the scope.
func ListServers(ctx context.Context, sc *keystone.ScopedClient) ([]servers.Server, error) {
	compute, err := sc.Compute()
	if err != nil {
		return nil, err
	}
	pages, err := servers.List(compute, servers.ListOpts{}).AllPages(ctx)
	if err != nil {
		return nil, fmt.Errorf("list servers: %w", err)
	}
	return servers.ExtractServers(pages)
}

// GetServer fetches a single server by ID.
func GetServer(ctx context.Context, sc *keystone.ScopedClient, id string) (*servers.Server, error) {
	compute, err := sc.Compute()
	if err != nil {
		return nil, err
	}
	server, err := servers.Get(ctx, compute, id).Extract()
	if err != nil {
		return nil, fmt.Errorf("get server %s: %w", id, err)
	}
	return server, nil
}

// CreateServer boots a new server.
func CreateServer(ctx context.Context, sc *keystone.ScopedClient, in ServerCreate) (*servers.Server, error) {
	compute, err := sc.Compute()
	if err != nil {
		return nil, err
	}
	opts := servers.CreateOpts{
		Name:      in.Name,
		ImageRef:  in.ImageID,
		FlavorRef: in.FlavorID,
		Metadata:  in.Metadata,
	}
	var networks []servers.Network
	for _, id := range in.NetworkIDs {
		networks = append(networks, servers.Network{UUID: id})
	}
	if networks != nil {
		opts.Networks = networks
	}
	server, err := servers.Create(ctx, compute, opts, nil).Extract()
	if err != nil {
		return nil, fmt.Errorf("create server: %w", err)
	}
	return server, nil
}

// UpdateServer renames a server and/or replaces metadata keys.
func UpdateServer(ctx context.Context, sc *keystone.ScopedClient, id string, in ServerUpdate) (*servers.Server, error) {
	compute, err := sc.Compute()
	if err != nil {
		return nil, err
	}
	if in.Name != "" {
		if _, err := servers.Update(ctx, compute, id, servers.UpdateOpts{Name: in.Name}).Extract(); err != nil {
			return nil, fmt.Errorf("update server %s: %w", id, err)
		}
	}
	if in.Metadata != nil {
		if _, err := servers.UpdateMetadata(ctx, compute, id, servers.MetadataOpts(in.Metadata)).Extract(); err != nil {
			return nil, fmt.Errorf("update server %s metadata: %w", id, err)
		}
	}
	return GetServer(ctx, sc, id)
}

// DeleteServer deletes a server.
func DeleteServer(ctx context.Context, sc *keystone.ScopedClient, id string) error {
	compute, err := sc.Compute()
	if err != nil {
		return err
	}
	if err := servers.Delete(ctx, compute, id).ExtractErr(); err != nil {
		return fmt.Errorf("delete server %s: %w", id, err)
	}
	return nil
}

// ErrUnknownAction is returned for a server action the console doesn't support.
var ErrUnknownAction = fmt.Errorf("unknown server action")

// ServerAction performs a named power/state action on a server.
// Supported: start, stop, reboot, hard-reboot, pause, unpause, suspend,
// resume, lock, unlock.
func ServerAction(ctx context.Context, sc *keystone.ScopedClient, id, action string) error {
	compute, err := sc.Compute()
	if err != nil {
		return err
	}

	var actionErr error
	switch strings.ToLower(action) {
	case "start":
		actionErr = servers.Start(ctx, compute, id).ExtractErr()
	case "stop":
		actionErr = servers.Stop(ctx, compute, id).ExtractErr()
	case "reboot":
		actionErr = servers.Reboot(ctx, compute, id, servers.RebootOpts{Type: servers.SoftReboot}).ExtractErr()
	case "hard-reboot":
		actionErr = servers.Reboot(ctx, compute, id, servers.RebootOpts{Type: servers.HardReboot}).ExtractErr()
	case "pause":
		actionErr = servers.Pause(ctx, compute, id).ExtractErr()
	case "unpause":
		actionErr = servers.Unpause(ctx, compute, id).ExtractErr()
	case "suspend":
		actionErr = servers.Suspend(ctx, compute, id).ExtractErr()
	case "resume":
		actionErr = servers.Resume(ctx, compute, id).ExtractErr()
	case "lock":
		actionErr = servers.Lock(ctx, compute, id).ExtractErr()
	case "unlock":
		actionErr = servers.Unlock(ctx, compute, id).ExtractErr()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}
	if actionErr != nil {
		return fmt.Errorf("server %s action %q: %w", id, action, actionErr)
	}
	return nil
}

// CreateSnapshot creates an image from a running server and returns the
// image ID.
func CreateSnapshot(ctx context.Context, sc *keystone.ScopedClient, id, name string) (string, error) {
	compute, err := sc.Compute()
	if err != nil {
		return "", err
	}
	imageID, err := servers.CreateImage(ctx, compute, id, servers.CreateImageOpts{Name: name}).ExtractImageID()
	if err != nil {
		return "", fmt.Errorf("snapshot server %s: %w", id, err)
	}
	return imageID, nil
}

// ServerMetadata returns a server's metadata map.
func ServerMetadata(ctx context.Context, sc *keystone.ScopedClient, id string) (map[string]string, error) {
	compute, err := sc.Compute()
	if err != nil {
		return nil, err
	}
	md, err := servers.Metadata(ctx, compute, id).Extract()
	if err != nil {
		return nil, fmt.Errorf("get server %s metadata: %w", id, err)
	}
	return md, nil
}

// UpdateServerMetadata replaces or adds the given metadata keys on a server
// and returns the resulting metadata map. Keys not named are left alone.
func UpdateServerMetadata(ctx context.Context, sc *keystone.ScopedClient, id string, md map[string]string) (map[string]string, error) {
	compute, err := sc.Compute()
	if err != nil {
		return nil, err
	}
	updated, err := servers.UpdateMetadata(ctx, compute, id, servers.MetadataOpts(md)).Extract()
	if err != nil {
		return nil, fmt.Errorf("update server %s metadata: %w", id, err)
	}
	return updated, nil
}

// ListFlavors returns the flavors available to the scope.
func ListFlavors(ctx context.Context, sc *keystone.ScopedClient) ([]flavors.Flavor, error) {
	compute, err := sc.Compute()
	if err != nil {
		return nil, err
	}
	pages, err := flavors.ListDetail(compute, flavors.ListOpts{}).AllPages(ctx)
	if err != nil {
		return nil, fmt.Errorf("list flavors: %w", err)
	}
	return flavors.ExtractFlavors(pages)
}

// AbsoluteLimits returns the project's absolute compute quotas and usage.
func AbsoluteLimits(ctx context.Context, sc *keystone.ScopedClient) (*limits.Absolute, error) {
	compute, err := sc.Compute()
	if err != nil {
		return nil, err
	}
	l, err := limits.Get(ctx, compute, limits.GetOpts{}).Extract()
	if err != nil {
		return nil, fmt.Errorf("get limits: %w", err)
	}
	return &l.Absolute, nil
}
