package neutron

import (
	"context"
	"fmt"

	"github.com/gophercloud/gophercloud/v2/openstack/networking/v2/ports"

	"github.com/aoldacloud/console/internal/adapter/outbound/keystone"
)

// PortCreate holds the console-facing inputs for creating a port.
type PortCreate struct {
	NetworkID    string `json:"networkId" validate:"required"`
	Name         string `json:"name"`
	SubnetID     string `json:"subnetId"`
	FixedIP      string `json:"fixedIp"`
	AdminStateUp *bool  `json:"adminStateUp"`
}

// PortUpdate holds the mutable port attributes.
type PortUpdate struct {
	Name         *string `json:"name"`
	AdminStateUp *bool   `json:"adminStateUp"`
}

// ListPorts returns the ports visible to the scope.
func ListPorts(ctx context.Context, sc *keystone.ScopedClient) ([]ports.Port, error) {
	network, err := sc.Network()
	if err != nil {
		return nil, err
	}
	pages, err := ports.List(network, ports.ListOpts{}).AllPages(ctx)
	if err != nil {
		return nil, fmt.Errorf("list ports: %w", err)
	}
	return ports.ExtractPorts(pages)
}

// GetPort fetches a single port.
func GetPort(ctx context.Context, sc *keystone.ScopedClient, id string) (*ports.Port, error) {
	network, err := sc.Network()
	if err != nil {
		return nil, err
	}
	port, err := ports.Get(ctx, network, id).Extract()
	if err != nil {
		return nil, fmt.Errorf("get port %s: %w", id, err)
	}
	return port, nil
}

// CreatePort creates a port, optionally pinned to a fixed IP on a subnet.
func CreatePort(ctx context.Context, sc *keystone.ScopedClient, in PortCreate) (*ports.Port, error) {
	network, err := sc.Network()
	if err != nil {
		return nil, err
	}
	opts := ports.CreateOpts{
		NetworkID:    in.NetworkID,
		Name:         in.Name,
		AdminStateUp: in.AdminStateUp,
	}
	if in.SubnetID != "" {
		opts.FixedIPs = []ports.IP{{SubnetID: in.SubnetID, IPAddress: in.FixedIP}}
	}
	port, err := ports.Create(ctx, network, opts).Extract()
	if err != nil {
		return nil, fmt.Errorf("create port: %w", err)
	}
	return port, nil
}

// UpdatePort updates the mutable attributes of a port.
func UpdatePort(ctx context.Context, sc *keystone.ScopedClient, id string, in PortUpdate) (*ports.Port, error) {
	network, err := sc.Network()
	if err != nil {
		return nil, err
	}
	opts := ports.UpdateOpts{
		Name:         in.Name,
		AdminStateUp: in.AdminStateUp,
	}
	port, err := ports.Update(ctx, network, id, opts).Extract()
	if err != nil {
		return nil, fmt.Errorf("update port %s: %w", id, err)
	}
	return port, nil
}

// DeletePort deletes a port.
func DeletePort(ctx context.Context, sc *keystone.ScopedClient, id string) error {
	network, err := sc.Network()
	if err != nil {
		return err
	}
	if err := ports.Delete(ctx, network, id).ExtractErr(); err != nil {
		return fmt.Errorf("delete port %s: %w", id, err)
	}
	return nil
}
