package auth

import "errors"

// Sentinel errors for the credential broker.
var (
	// ErrAuthentication is returned when the identity provider rejects the
	// supplied credentials or is unreachable at login. Surfaces as 401.
	ErrAuthentication = errors.New("authentication failed")

	// ErrNoPrincipal is returned when no authenticated principal is present
	// in the request context.
	ErrNoPrincipal = errors.New("no authenticated principal in context")

	// ErrScoping is returned when the provider rejects a replayed token or
	// the target project/domain is not accessible to the principal.
	// Propagates as an authorization failure; scope is never silently
	// downgraded.
	ErrScoping = errors.New("scoping failed")
)
