package neutron

import (
	"context"
	"fmt"

	"github.com/gophercloud/gophercloud/v2/openstack/networking/v2/extensions/layer3/routers"

	"github.com/aoldacloud/console/internal/adapter/outbound/keystone"
)

// RouterCreate holds the console-facing inputs for creating a router.
type RouterCreate struct {
	Name              string `json:"name" validate:"required"`
	ExternalNetworkID string `json:"externalNetworkId"`
	AdminStateUp      *bool  `json:"adminStateUp"`
}

// RouterUpdate holds the mutable router attributes.
type RouterUpdate struct {
	Name         *string `json:"name"`
	AdminStateUp *bool   `json:"adminStateUp"`
}

// ListRouters returns the routers visible to the scope.
func ListRouters(ctx context.Context, sc *keystone.ScopedClient) ([]routers.Router, error) {
	network, err := sc.Network()
	if err != nil {
		return nil, err
	}
	pages, err := routers.List(network, routers.ListOpts{}).AllPages(ctx)
	if err != nil {
		return nil, fmt.Errorf("list routers: %w", err)
	}
	return routers.ExtractRouters(pages)
}

// GetRouter fetches a single router.
func GetRouter(ctx context.Context, sc *keystone.ScopedClient, id string) (*routers.Router, error) {
	network, err := sc.Network()
	if err != nil {
		return nil, err
	}
	router, err := routers.Get(ctx, network, id).Extract()
	if err != nil {
		return nil, fmt.Errorf("get router %s: %w", id, err)
	}
	return router, nil
}

// CreateRouter creates a router, optionally with an external gateway.
func CreateRouter(ctx context.Context, sc *keystone.ScopedClient, in RouterCreate) (*routers.Router, error) {
	network, err := sc.Network()
	if err != nil {
		return nil, err
	}
	opts := routers.CreateOpts{
		Name:         in.Name,
		AdminStateUp: in.AdminStateUp,
	}
	if in.ExternalNetworkID != "" {
		opts.GatewayInfo = &routers.GatewayInfo{NetworkID: in.ExternalNetworkID}
	}
	router, err := routers.Create(ctx, network, opts).Extract()
	if err != nil {
		return nil, fmt.Errorf("create router: %w", err)
	}
	return router, nil
}

// UpdateRouter updates the mutable attributes of a router.
func UpdateRouter(ctx context.Context, sc *keystone.ScopedClient, id string, in RouterUpdate) (*routers.Router, error) {
	network, err := sc.Network()
	if err != nil {
		return nil, err
	}
	opts := routers.UpdateOpts{
		AdminStateUp: in.AdminStateUp,
	}
	if in.Name != nil {
		opts.Name = *in.Name
	}
	router, err := routers.Update(ctx, network, id, opts).Extract()
	if err != nil {
		return nil, fmt.Errorf("update router %s: %w", id, err)
	}
	return router, nil
}

// DeleteRouter deletes a router.
func DeleteRouter(ctx context.Context, sc *keystone.ScopedClient, id string) error {
	network, err := sc.Network()
	if err != nil {
		return err
	}
	if err := routers.Delete(ctx, network, id).ExtractErr(); err != nil {
		return fmt.Errorf("delete router %s: %w", id, err)
	}
	return nil
}

// AddRouterInterface attaches a subnet to a router.
func AddRouterInterface(ctx context.Context, sc *keystone.ScopedClient, id, subnetID string) (*routers.InterfaceInfo, error) {
	network, err := sc.Network()
	if err != nil {
		return nil, err
	}
	info, err := routers.AddInterface(ctx, network, id, routers.AddInterfaceOpts{SubnetID: subnetID}).Extract()
	if err != nil {
		return nil, fmt.Errorf("add interface to router %s: %w", id, err)
	}
	return info, nil
}

// RemoveRouterInterface detaches a subnet from a router.
func RemoveRouterInterface(ctx context.Context, sc *keystone.ScopedClient, id, subnetID string) error {
	network, err := sc.Network()
	if err != nil {
		return err
	}
	if _, err := routers.RemoveInterface(ctx, network, id, routers.RemoveInterfaceOpts{SubnetID: subnetID}).Extract(); err != nil {
		return fmt.Errorf("remove interface from router %s: %w", id, err)
	}
	return nil
}
