package keystone

import (
	"context"
	"fmt"

	gophercloud "github.com/gophercloud/gophercloud/v2"
	"github.com/gophercloud/gophercloud/v2/openstack"

	"github.com/aoldacloud/console/internal/domain/auth"
)

// ScopedClient is a tenant-scoped handle on the OpenStack APIs. It wraps a
// provider client whose token has been re-scoped to the principal's
// project/domain; the compute, network, and identity service clients it
// hands out all act within that scope.
type ScopedClient struct {
	provider *gophercloud.ProviderClient
	eo       gophercloud.EndpointOpts
}

// Scoped re-presents the principal's cached provider token to Keystone,
// re-scoped to the principal's project (or domain when no project is set),
// and returns a scoped client. This runs on every call by design: the legacy
// console trades an identity-provider round trip per request for not having
// to manage service client lifetimes.
//
// Returns an error wrapping auth.ErrScoping when the token is expired or
// revoked upstream, or when the target scope is not accessible. Scope is
// never silently downgraded.
func (c *Client) Scoped(ctx context.Context, principal *auth.Principal) (*ScopedClient, error) {
	opts := gophercloud.AuthOptions{
		IdentityEndpoint: c.authURL,
		TokenID:          principal.ProviderToken,
	}
	switch {
	case principal.ProjectID != "":
		opts.Scope = &gophercloud.AuthScope{ProjectID: principal.ProjectID}
	case principal.DomainID != "":
		opts.Scope = &gophercloud.AuthScope{DomainID: principal.DomainID}
	}

	provider, err := openstack.AuthenticatedClient(ctx, opts)
	if err != nil {
		c.logger.Warn("token re-scope rejected",
			"user_id", principal.UserID,
			"project_id", principal.ProjectID,
			"error", err,
		)
		return nil, fmt.Errorf("%w: %v", auth.ErrScoping, err)
	}
	provider.HTTPClient.Timeout = c.timeout

	return &ScopedClient{provider: provider, eo: c.endpointOpts()}, nil
}

// Identity returns an identity v3 service client bound to this scope.
func (s *ScopedClient) Identity() (*gophercloud.ServiceClient, error) {
	client, err := openstack.NewIdentityV3(s.provider, s.eo)
	if err != nil {
		return nil, fmt.Errorf("identity endpoint: %w", err)
	}
	return client, nil
}

// Compute returns a compute v2 service client bound to this scope.
func (s *ScopedClient) Compute() (*gophercloud.ServiceClient, error) {
	client, err := openstack.NewComputeV2(s.provider, s.eo)
	if err != nil {
		return nil, fmt.Errorf("compute endpoint: %w", err)
	}
	return client, nil
}

// Network returns a networking v2 service client bound to this scope.
func (s *ScopedClient) Network() (*gophercloud.ServiceClient, error) {
	client, err := openstack.NewNetworkV2(s.provider, s.eo)
	if err != nil {
		return nil, fmt.Errorf("network endpoint: %w", err)
	}
	return client, nil
}
