// Package ctxkey defines shared context key types used across multiple packages.
// This package should have no dependencies on other internal packages to avoid import cycles.
package ctxkey

// LoggerKey is the context key type for the enriched logger.
// Used by HTTP middleware to store and retrieve the logger with request_id fields.
type LoggerKey struct{}

// PrincipalKey is the context key type for the authenticated principal.
// The authentication gate stores the resolved principal under this key and
// services read it back to scope downstream API calls. The principal is an
// explicit context value, never ambient global state.
type PrincipalKey struct{}
