// Package neutron is the outbound adapter for the OpenStack networking API.
// Like the compute adapter it is a mechanical pass-through: each function
// resolves a network service client from the caller's scope and forwards
// the call.
package neutron

import (
	"context"
	"fmt"

	gophercloud "github.com/gophercloud/gophercloud/v2"
	"github.com/gophercloud/gophercloud/v2/openstack/networking/v2/networks"
	"github.com/gophercloud/gophercloud/v2/openstack/networking/v2/subnets"

	"github.com/aoldacloud/console/internal/adapter/outbound/keystone"
)

// SubnetCreate holds the console-facing inputs for creating a subnet.
type SubnetCreate struct {
	NetworkID  string `json:"networkId" validate:"required"`
	Name       string `json:"name"`
	CIDR       string `json:"cidr" validate:"required,cidr"`
	GatewayIP  string `json:"gatewayIp"`
	EnableDHCP *bool  `json:"enableDhcp"`
}

// SubnetUpdate holds the mutable subnet attributes.
type SubnetUpdate struct {
	Name       *string `json:"name"`
	GatewayIP  *string `json:"gatewayIp"`
	EnableDHCP *bool   `json:"enableDhcp"`
}

// ListNetworks returns the networks visible to the scope.
func ListNetworks(ctx context.Context, sc *keystone.ScopedClient) ([]networks.Network, error) {
	network, err := sc.Network()
	if err != nil {
		return nil, err
	}
	pages, err := networks.List(network, networks.ListOpts{}).AllPages(ctx)
	if err != nil {
		return nil, fmt.Errorf("list networks: %w", err)
	}
	return networks.ExtractNetworks(pages)
}

// GetNetwork fetches a single network.
func GetNetwork(ctx context.Context, sc *keystone.ScopedClient, id string) (*networks.Network, error) {
	network, err := sc.Network()
	if err != nil {
		return nil, err
	}
	n, err := networks.Get(ctx, network, id).Extract()
	if err != nil {
		return nil, fmt.Errorf("get network %s: %w", id, err)
	}
	return n, nil
}

// ListSubnets returns the subnets visible to the scope.
func ListSubnets(ctx context.Context, sc *keystone.ScopedClient) ([]subnets.Subnet, error) {
	network, err := sc.Network()
	if err != nil {
		return nil, err
	}
	pages, err := subnets.List(network, subnets.ListOpts{}).AllPages(ctx)
	if err != nil {
		return nil, fmt.Errorf("list subnets: %w", err)
	}
	return subnets.ExtractSubnets(pages)
}

// GetSubnet fetches a single subnet.
func GetSubnet(ctx context.Context, sc *keystone.ScopedClient, id string) (*subnets.Subnet, error) {
	network, err := sc.Network()
	if err != nil {
		return nil, err
	}
	subnet, err := subnets.Get(ctx, network, id).Extract()
	if err != nil {
		return nil, fmt.Errorf("get subnet %s: %w", id, err)
	}
	return subnet, nil
}

// CreateSubnet creates an IPv4 subnet on a network.
func CreateSubnet(ctx context.Context, sc *keystone.ScopedClient, in SubnetCreate) (*subnets.Subnet, error) {
	network, err := sc.Network()
	if err != nil {
		return nil, err
	}
	opts := subnets.CreateOpts{
		NetworkID:  in.NetworkID,
		Name:       in.Name,
		CIDR:       in.CIDR,
		IPVersion:  gophercloud.IPv4,
		EnableDHCP: in.EnableDHCP,
	}
	if in.GatewayIP != "" {
		opts.GatewayIP = &in.GatewayIP
	}
	subnet, err := subnets.Create(ctx, network, opts).Extract()
	if err != nil {
		return nil, fmt.Errorf("create subnet: %w", err)
	}
	return subnet, nil
}

// UpdateSubnet updates the mutable attributes of a subnet.
func UpdateSubnet(ctx context.Context, sc *keystone.ScopedClient, id string, in SubnetUpdate) (*subnets.Subnet, error) {
	network, err := sc.Network()
	if err != nil {
		return nil, err
	}
	opts := subnets.UpdateOpts{
		Name:       in.Name,
		GatewayIP:  in.GatewayIP,
		EnableDHCP: in.EnableDHCP,
	}
	subnet, err := subnets.Update(ctx, network, id, opts).Extract()
	if err != nil {
		return nil, fmt.Errorf("update subnet %s: %w", id, err)
	}
	return subnet, nil
}

// DeleteSubnet deletes a subnet.
func DeleteSubnet(ctx context.Context, sc *keystone.ScopedClient, id string) error {
	network, err := sc.Network()
	if err != nil {
		return err
	}
	if err := subnets.Delete(ctx, network, id).ExtractErr(); err != nil {
		return fmt.Errorf("delete subnet %s: %w", id, err)
	}
	return nil
}
