package session

import (
	"context"
	"errors"
	"time"
)

// Store provides session persistence with a per-entry time-to-live.
// This interface is defined in the domain to avoid circular imports.
// Implementations must guarantee atomic per-key put/get; records written
// under distinct tokens never interact.
type Store interface {
	// Put stores a record under the opaque token, overwriting any existing
	// entry and restarting the TTL countdown.
	Put(ctx context.Context, token string, record *Record, ttl time.Duration) error

	// Get retrieves the record for a token.
	// Returns ErrSessionNotFound when the entry is absent or expired;
	// absence is a normal outcome, not a failure.
	Get(ctx context.Context, token string) (*Record, error)

	// Delete removes a record. Deleting an absent token is not an error;
	// logout is idempotent.
	Delete(ctx context.Context, token string) error
}

// ErrSessionNotFound is returned when a session doesn't exist or is expired.
var ErrSessionNotFound = errors.New("session not found")
