package service

import (
	"context"
	"log/slog"

	"github.com/gophercloud/gophercloud/v2/openstack/networking/v2/extensions/layer3/floatingips"
	"github.com/gophercloud/gophercloud/v2/openstack/networking/v2/extensions/layer3/routers"
	"github.com/gophercloud/gophercloud/v2/openstack/networking/v2/networks"
	"github.com/gophercloud/gophercloud/v2/openstack/networking/v2/ports"
	"github.com/gophercloud/gophercloud/v2/openstack/networking/v2/subnets"

	"github.com/aoldacloud/console/internal/adapter/outbound/keystone"
	"github.com/aoldacloud/console/internal/adapter/outbound/neutron"
	"github.com/aoldacloud/console/internal/domain/auth"
)

// NetworkService relays network, subnet, port, router, and floating IP
// operations to the networking API under the caller's scope.
type NetworkService struct {
	factory ClientFactory
	logger  *slog.Logger
}

// NewNetworkService creates a new NetworkService.
func NewNetworkService(factory ClientFactory, logger *slog.Logger) *NetworkService {
	return &NetworkService{factory: factory, logger: logger}
}

// Networks lists the networks visible to the caller.
func (s *NetworkService) Networks(ctx context.Context) ([]networks.Network, error) {
	sc, _, err := s.scoped(ctx)
	if err != nil {
		return nil, err
	}
	return neutron.ListNetworks(ctx, sc)
}

// Network fetches one network.
func (s *NetworkService) Network(ctx context.Context, id string) (*networks.Network, error) {
	sc, _, err := s.scoped(ctx)
	if err != nil {
		return nil, err
	}
	return neutron.GetNetwork(ctx, sc, id)
}

// Subnets lists the subnets visible to the caller.
func (s *NetworkService) Subnets(ctx context.Context) ([]subnets.Subnet, error) {
	sc, _, err := s.scoped(ctx)
	if err != nil {
		return nil, err
	}
	return neutron.ListSubnets(ctx, sc)
}

// Subnet fetches one subnet.
func (s *NetworkService) Subnet(ctx context.Context, id string) (*subnets.Subnet, error) {
	sc, _, err := s.scoped(ctx)
	if err != nil {
		return nil, err
	}
	return neutron.GetSubnet(ctx, sc, id)
}

// CreateSubnet creates a subnet.
func (s *NetworkService) CreateSubnet(ctx context.Context, in neutron.SubnetCreate) (*subnets.Subnet, error) {
	sc, principal, err := s.scoped(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Info("creating subnet",
		"user_id", principal.UserID,
		"network_id", in.NetworkID,
		"cidr", in.CIDR,
	)
	return neutron.CreateSubnet(ctx, sc, in)
}

// UpdateSubnet updates a subnet.
func (s *NetworkService) UpdateSubnet(ctx context.Context, id string, in neutron.SubnetUpdate) (*subnets.Subnet, error) {
	sc, _, err := s.scoped(ctx)
	if err != nil {
		return nil, err
	}
	return neutron.UpdateSubnet(ctx, sc, id, in)
}

// DeleteSubnet deletes a subnet.
func (s *NetworkService) DeleteSubnet(ctx context.Context, id string) error {
	sc, principal, err := s.scoped(ctx)
	if err != nil {
		return err
	}
	s.logger.Info("deleting subnet", "user_id", principal.UserID, "subnet_id", id)
	return neutron.DeleteSubnet(ctx, sc, id)
}

// Ports lists the ports visible to the caller.
func (s *NetworkService) Ports(ctx context.Context) ([]ports.Port, error) {
	sc, _, err := s.scoped(ctx)
	if err != nil {
		return nil, err
	}
	return neutron.ListPorts(ctx, sc)
}

// Port fetches one port.
func (s *NetworkService) Port(ctx context.Context, id string) (*ports.Port, error) {
	sc, _, err := s.scoped(ctx)
	if err != nil {
		return nil, err
	}
	return neutron.GetPort(ctx, sc, id)
}

// CreatePort creates a port.
func (s *NetworkService) CreatePort(ctx context.Context, in neutron.PortCreate) (*ports.Port, error) {
	sc, principal, err := s.scoped(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Info("creating port", "user_id", principal.UserID, "network_id", in.NetworkID)
	return neutron.CreatePort(ctx, sc, in)
}

// UpdatePort updates a port.
func (s *NetworkService) UpdatePort(ctx context.Context, id string, in neutron.PortUpdate) (*ports.Port, error) {
	sc, _, err := s.scoped(ctx)
	if err != nil {
		return nil, err
	}
	return neutron.UpdatePort(ctx, sc, id, in)
}

// DeletePort deletes a port.
func (s *NetworkService) DeletePort(ctx context.Context, id string) error {
	sc, principal, err := s.scoped(ctx)
	if err != nil {
		return err
	}
	s.logger.Info("deleting port", "user_id", principal.UserID, "port_id", id)
	return neutron.DeletePort(ctx, sc, id)
}

// Routers lists the routers visible to the caller.
func (s *NetworkService) Routers(ctx context.Context) ([]routers.Router, error) {
	sc, _, err := s.scoped(ctx)
	if err != nil {
		return nil, err
	}
	return neutron.ListRouters(ctx, sc)
}

// Router fetches one router.
func (s *NetworkService) Router(ctx context.Context, id string) (*routers.Router, error) {
	sc, _, err := s.scoped(ctx)
	if err != nil {
		return nil, err
	}
	return neutron.GetRouter(ctx, sc, id)
}

// CreateRouter creates a router.
func (s *NetworkService) CreateRouter(ctx context.Context, in neutron.RouterCreate) (*routers.Router, error) {
	sc, principal, err := s.scoped(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Info("creating router", "user_id", principal.UserID, "name", in.Name)
	return neutron.CreateRouter(ctx, sc, in)
}

// UpdateRouter updates a router.
func (s *NetworkService) UpdateRouter(ctx context.Context, id string, in neutron.RouterUpdate) (*routers.Router, error) {
	sc, _, err := s.scoped(ctx)
	if err != nil {
		return nil, err
	}
	return neutron.UpdateRouter(ctx, sc, id, in)
}

// DeleteRouter deletes a router.
func (s *NetworkService) DeleteRouter(ctx context.Context, id string) error {
	sc, principal, err := s.scoped(ctx)
	if err != nil {
		return err
	}
	s.logger.Info("deleting router", "user_id", principal.UserID, "router_id", id)
	return neutron.DeleteRouter(ctx, sc, id)
}

// AddRouterInterface attaches a subnet to a router.
func (s *NetworkService) AddRouterInterface(ctx context.Context, id, subnetID string) (*routers.InterfaceInfo, error) {
	sc, principal, err := s.scoped(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Info("attaching router interface",
		"user_id", principal.UserID,
		"router_id", id,
		"subnet_id", subnetID,
	)
	return neutron.AddRouterInterface(ctx, sc, id, subnetID)
}

// RemoveRouterInterface detaches a subnet from a router.
func (s *NetworkService) RemoveRouterInterface(ctx context.Context, id, subnetID string) error {
	sc, principal, err := s.scoped(ctx)
	if err != nil {
		return err
	}
	s.logger.Info("detaching router interface",
		"user_id", principal.UserID,
		"router_id", id,
		"subnet_id", subnetID,
	)
	return neutron.RemoveRouterInterface(ctx, sc, id, subnetID)
}

// FloatingIPs lists the floating IPs visible to the caller.
func (s *NetworkService) FloatingIPs(ctx context.Context) ([]floatingips.FloatingIP, error) {
	sc, _, err := s.scoped(ctx)
	if err != nil {
		return nil, err
	}
	return neutron.ListFloatingIPs(ctx, sc)
}

// FloatingIP fetches one floating IP.
func (s *NetworkService) FloatingIP(ctx context.Context, id string) (*floatingips.FloatingIP, error) {
	sc, _, err := s.scoped(ctx)
	if err != nil {
		return nil, err
	}
	return neutron.GetFloatingIP(ctx, sc, id)
}

// CreateFloatingIP allocates a floating IP.
func (s *NetworkService) CreateFloatingIP(ctx context.Context, in neutron.FloatingIPCreate) (*floatingips.FloatingIP, error) {
	sc, principal, err := s.scoped(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Info("allocating floating ip",
		"user_id", principal.UserID,
		"floating_network_id", in.FloatingNetworkID,
	)
	return neutron.CreateFloatingIP(ctx, sc, in)
}

// AssociateFloatingIP attaches a floating IP to a port.
func (s *NetworkService) AssociateFloatingIP(ctx context.Context, id, portID string) (*floatingips.FloatingIP, error) {
	sc, _, err := s.scoped(ctx)
	if err != nil {
		return nil, err
	}
	return neutron.AssociateFloatingIP(ctx, sc, id, portID)
}

// DisassociateFloatingIP detaches a floating IP from its port.
func (s *NetworkService) DisassociateFloatingIP(ctx context.Context, id string) (*floatingips.FloatingIP, error) {
	sc, _, err := s.scoped(ctx)
	if err != nil {
		return nil, err
	}
	return neutron.DisassociateFloatingIP(ctx, sc, id)
}

// DeleteFloatingIP releases a floating IP.
func (s *NetworkService) DeleteFloatingIP(ctx context.Context, id string) error {
	sc, principal, err := s.scoped(ctx)
	if err != nil {
		return err
	}
	s.logger.Info("releasing floating ip", "user_id", principal.UserID, "floating_ip_id", id)
	return neutron.DeleteFloatingIP(ctx, sc, id)
}

func (s *NetworkService) scoped(ctx context.Context) (*keystone.ScopedClient, *auth.Principal, error) {
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
