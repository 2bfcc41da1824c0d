// Package session manages cached login sessions keyed by opaque token.
package session

import (
	"time"

	"github.com/aoldacloud/console/internal/domain/auth"
)

// DefaultTTL is the default session time-to-live, matching the legacy
// console's three-hour window.
const DefaultTTL = 3 * time.Hour

// Record is the cached value keyed by opaque session token. It carries the
// Keystone-issued token and the project/domain scope resolved at login.
// Records are immutable once written; a scope change writes a new record.
type Record struct {
	// ProviderToken is the Keystone token replayed on every downstream call.
	ProviderToken string
	// UserID is the Keystone user identifier the token was issued to.
	UserID string
	// Username is the user's display name.
	Username string
	// ProjectID is the project scope adopted at login.
	ProjectID string
	// DomainID is the domain scope adopted at login.
	DomainID string
	// Enabled is the upstream user's enabled flag at login time.
	Enabled bool
	// IssuedAt is when the record was written (UTC).
	IssuedAt time.Time
}

// Principal builds the request principal for a record resolved under the
// given opaque token.
func (r *Record) Principal(token string) *auth.Principal {
	return &auth.Principal{
		Token:         token,
		ProviderToken: r.ProviderToken,
		UserID:        r.UserID,
		Username:      r.Username,
		ProjectID:     r.ProjectID,
		DomainID:      r.DomainID,
		Enabled:       r.Enabled,
	}
}
