package neutron

import (
	"context"
	"fmt"

	"github.com/gophercloud/gophercloud/v2/openstack/networking/v2/extensions/layer3/floatingips"

	"github.com/aoldacloud/console/internal/adapter/outbound/keystone"
)

// FloatingIPCreate holds the console-facing inputs for allocating a
// floating IP.
type FloatingIPCreate struct {
	FloatingNetworkID string `json:"floatingNetworkId" validate:"required"`
	PortID            string `json:"portId"`
}

// ListFloatingIPs returns the floating IPs visible to the scope.
func ListFloatingIPs(ctx context.Context, sc *keystone.ScopedClient) ([]floatingips.FloatingIP, error) {
	network, err := sc.Network()
	if err != nil {
		return nil, err
	}
	pages, err := floatingips.List(network, floatingips.ListOpts{}).AllPages(ctx)
	if err != nil {
		return nil, fmt.Errorf("list floating ips: %w", err)
	}
	return floatingips.ExtractFloatingIPs(pages)
}

// GetFloatingIP fetches a single floating IP.
func GetFloatingIP(ctx context.Context, sc *keystone.ScopedClient, id string) (*floatingips.FloatingIP, error) {
	network, err := sc.Network()
	if err != nil {
		return nil, err
	}
	fip, err := floatingips.Get(ctx, network, id).Extract()
	if err != nil {
		return nil, fmt.Errorf("get floating ip %s: %w", id, err)
	}
	return fip, nil
}

// CreateFloatingIP allocates a floating IP from an external network,
// optionally already associated with a port.
func CreateFloatingIP(ctx context.Context, sc *keystone.ScopedClient, in FloatingIPCreate) (*floatingips.FloatingIP, error) {
	network, err := sc.Network()
	if err != nil {
		return nil, err
	}
	opts := floatingips.CreateOpts{
		FloatingNetworkID: in.FloatingNetworkID,
		PortID:            in.PortID,
	}
	fip, err := floatingips.Create(ctx, network, opts).Extract()
	if err != nil {
		return nil, fmt.Errorf("create floating ip: %w", err)
	}
	return fip, nil
}

// AssociateFloatingIP attaches a floating IP to a port.
func AssociateFloatingIP(ctx context.Context, sc *keystone.ScopedClient, id, portID string) (*floatingips.FloatingIP, error) {
	network, err := sc.Network()
	if err != nil {
		return nil, err
	}
	fip, err := floatingips.Update(ctx, network, id, floatingips.UpdateOpts{PortID: &portID}).Extract()
	if err != nil {
		return nil, fmt.Errorf("associate floating ip %s: %w", id, err)
	}
	return fip, nil
}

// DisassociateFloatingIP detaches a floating IP from its port.
func DisassociateFloatingIP(ctx context.Context, sc *keystone.ScopedClient, id string) (*floatingips.FloatingIP, error) {
	network, err := sc.Network()
	if err != nil {
		return nil, err
	}
	fip, err := floatingips.Update(ctx, network, id, floatingips.UpdateOpts{PortID: new(string)}).Extract()
	if err != nil {
		return nil, fmt.Errorf("disassociate floating ip %s: %w", id, err)
	}
	return fip, nil
}

// DeleteFloatingIP releases a floating IP.
func DeleteFloatingIP(ctx context.Context, sc *keystone.ScopedClient, id string) error {
	network, err := sc.Network()
	if err != nil {
		return err
	}
	if err := floatingips.Delete(ctx, network, id).ExtractErr(); err != nil {
		return fmt.Errorf("delete floating ip %s: %w", id, err)
	}
	return nil
}
