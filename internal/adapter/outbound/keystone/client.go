// Package keystone is the outbound adapter for the OpenStack identity
// service. It implements password authentication, accessible-project
// discovery, and the scoped client factory used to reach the compute and
// networking APIs with the caller's tenant scope.
package keystone

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	gophercloud "github.com/gophercloud/gophercloud/v2"
	"github.com/gophercloud/gophercloud/v2/openstack"
	"github.com/gophercloud/gophercloud/v2/openstack/identity/v3/projects"
	"github.com/gophercloud/gophercloud/v2/openstack/identity/v3/tokens"
	"github.com/gophercloud/gophercloud/v2/openstack/identity/v3/users"

	"github.com/aoldacloud/console/internal/domain/auth"
)

// DefaultTimeout bounds every round trip to Keystone. The credential broker
// itself defines no timeout policy; the transport does.
const DefaultTimeout = 30 * time.Second

// Client talks to a Keystone v3 endpoint.
type Client struct {
	authURL    string
	domainName string
	region     string
	timeout    time.Duration
	logger     *slog.Logger
}

// Option is a functional option for configuring the Client.
type Option func(*Client)

// WithRegion selects the service catalog region for compute/network endpoints.
func WithRegion(region string) Option {
	return func(c *Client) { c.region = region }
}

// WithTimeout bounds HTTP round trips to the provider.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithLogger sets the logger for the client.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// New creates a Keystone client for the given v3 auth URL. domainName is the
// domain used for password authentication (the legacy console always used
// "Default"-style named domains).
func New(authURL, domainName string, opts ...Option) *Client {
	c := &Client{
		authURL:    authURL,
		domainName: domainName,
		timeout:    DefaultTimeout,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// newProvider builds an unauthenticated provider client with the configured
// HTTP timeout applied.
func (c *Client) newProvider() (*gophercloud.ProviderClient, error) {
	provider, err := openstack.NewClient(c.authURL)
	if err != nil {
		return nil, fmt.Errorf("new provider client: %w", err)
	}
	provider.HTTPClient = http.Client{Timeout: c.timeout}
	return provider, nil
}

// endpointOpts returns the catalog lookup options for service clients.
func (c *Client) endpointOpts() gophercloud.EndpointOpts {
	return gophercloud.EndpointOpts{
		Region:       c.region,
		Availability: gophercloud.AvailabilityPublic,
	}
}

// AuthenticateWithPassword exchanges a username/password pair for an
// unscoped provider token and the owning user record. The full user record
// is fetched after authentication because the token response omits the
// default project and enabled flag.
func (c *Client) AuthenticateWithPassword(ctx context.Context, username, password string) (*auth.ProviderSession, error) {
	provider, err := c.newProvider()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", auth.ErrAuthentication, err)
	}
	identity, err := openstack.NewIdentityV3(provider, gophercloud.EndpointOpts{})
	if err != nil {
		return nil, fmt.Errorf("%w: identity endpoint: %v", auth.ErrAuthentication, err)
	}

	result := tokens.Create(ctx, identity, &tokens.AuthOptions{
		Username:   username,
		Password:   password,
		DomainName: c.domainName,
	})
	token, err := result.ExtractToken()
	if err != nil {
		c.logger.Warn("keystone password authentication rejected", "username", username, "error", err)
		return nil, fmt.Errorf("%w: %v", auth.ErrAuthentication, err)
	}
	tokenUser, err := result.ExtractUser()
	if err != nil {
		return nil, fmt.Errorf("%w: extract user: %v", auth.ErrAuthentication, err)
	}

	sess := &auth.ProviderSession{
		TokenID:   token.ID,
		ExpiresAt: token.ExpiresAt,
		UserID:    tokenUser.ID,
		Username:  tokenUser.Name,
		DomainID:  tokenUser.Domain.ID,
		Enabled:   true,
	}
	if project, err := result.ExtractProject(); err == nil && project != nil {
		sess.ProjectID = project.ID
	}

	// Best-effort enrichment from the full user record; some deployments
	// deny users.Get to regular members, in which case the token data above
	// is all we have.
	if err := provider.SetTokenAndAuthResult(result); err == nil {
		if full, err := users.Get(ctx, identity, tokenUser.ID).Extract(); err == nil {
			sess.DefaultProjectID = full.DefaultProjectID
			sess.Enabled = full.Enabled
			if full.DomainID != "" {
				sess.DomainID = full.DomainID
			}
		} else {
			c.logger.Debug("user record lookup failed, using token data", "user_id", tokenUser.ID, "error", err)
		}
	}

	return sess, nil
}

// AccessibleProjects lists the projects reachable by the given provider
// token (GET /v3/auth/projects). Order is whatever Keystone returns.
func (c *Client) AccessibleProjects(ctx context.Context, providerToken string) ([]auth.ProjectRef, error) {
	provider, err := openstack.AuthenticatedClient(ctx, gophercloud.AuthOptions{
		IdentityEndpoint: c.authURL,
		TokenID:          providerToken,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", auth.ErrAuthentication, err)
	}
	identity, err := openstack.NewIdentityV3(provider, gophercloud.EndpointOpts{})
	if err != nil {
		return nil, fmt.Errorf("identity endpoint: %w", err)
	}

	pages, err := projects.ListAvailable(identity).AllPages(ctx)
	if err != nil {
		return nil, fmt.Errorf("list accessible projects: %w", err)
	}
	list, err := projects.ExtractProjects(pages)
	if err != nil {
		return nil, fmt.Errorf("extract projects: %w", err)
	}

	refs := make([]auth.ProjectRef, 0, len(list))
	for _, p := range list {
		refs = append(refs, auth.ProjectRef{
			ID:       p.ID,
			Name:     p.Name,
			DomainID: p.DomainID,
			Enabled:  p.Enabled,
		})
	}
	return refs, nil
}

// Compile-time interface verification.
var _ auth.IdentityProvider = (*Client)(nil)
