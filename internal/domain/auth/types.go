// Package auth contains the domain types and logic for authentication.
package auth

import (
	"context"

	"github.com/aoldacloud/console/internal/ctxkey"
)

// Principal is the resolved identity and scope for the current request.
// It is owned by the session cache for the session's lifetime and referenced
// by the authentication gate for the duration of one request.
type Principal struct {
	// Token is the opaque session token the console issued at login.
	Token string
	// ProviderToken is the Keystone-issued token replayed to scope
	// downstream API calls. Bearer-equivalent; never logged at error level.
	ProviderToken string
	// UserID is the Keystone user identifier.
	UserID string
	// Username is the display name of the user.
	Username string
	// ProjectID is the active project scope for downstream calls.
	ProjectID string
	// DomainID is the active domain scope for downstream calls.
	DomainID string
	// Enabled reflects the upstream user's enabled flag at login time.
	Enabled bool
}

// principalKey is the shared context key for the request principal.
var principalKey = ctxkey.PrincipalKey{}

// WithPrincipal returns a child context carrying the principal.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// PrincipalFromContext retrieves the authenticated principal from the context.
// Returns ErrNoPrincipal when the request never passed the authentication gate.
func PrincipalFromContext(ctx context.Context) (*Principal, error) {
	p, ok := ctx.Value(principalKey).(*Principal)
	if !ok || p == nil {
		return nil, ErrNoPrincipal
	}
	return p, nil
}
