package auth

import (
	"context"
	"time"
)

// ProviderSession is the result of a password authentication against the
// identity provider: the issued token plus the user record it belongs to.
type ProviderSession struct {
	// TokenID is the provider-issued token.
	TokenID string
	// ExpiresAt is the provider-side expiry of the token.
	ExpiresAt time.Time
	// UserID and Username identify the authenticated user.
	UserID   string
	Username string
	// DomainID is the domain the user belongs to.
	DomainID string
	// DefaultProjectID is the user's default project, empty when unset.
	DefaultProjectID string
	// ProjectID is the project the token itself is scoped to, empty for an
	// unscoped token.
	ProjectID string
	// Enabled is the provider-side enabled flag for the user.
	Enabled bool
}

// ProjectRef is a lightweight reference to a provider project.
type ProjectRef struct {
	ID       string
	Name     string
	DomainID string
	Enabled  bool
}

// IdentityProvider is the outbound port to the identity service.
// This interface is defined in the domain to avoid circular imports.
// Implementation: Keystone via gophercloud.
type IdentityProvider interface {
	// AuthenticateWithPassword exchanges credentials for a provider token
	// and the owning user record. Returns an error wrapping
	// ErrAuthentication when the provider rejects the credentials or is
	// unreachable.
	AuthenticateWithPassword(ctx context.Context, username, password string) (*ProviderSession, error)

	// AccessibleProjects lists the projects the given provider token can
	// reach. Order is provider-defined; callers must not rely on it.
	AccessibleProjects(ctx context.Context, providerToken string) ([]ProjectRef, error)
}
