// Package config provides configuration types for the console.
package config

import (
	"time"
)

// Config is the top-level configuration for the console backend.
type Config struct {
	// Server configures the HTTP server listener.
	Server ServerConfig `yaml:"server" mapstructure:"server"`

	// Keystone configures the OpenStack identity provider.
	Keystone KeystoneConfig `yaml:"keystone" mapstructure:"keystone"`

	// Heimdall configures the proxy manager sibling service.
	// Optional: when the base URL is empty, proxy endpoints return 502.
	Heimdall HeimdallConfig `yaml:"heimdall" mapstructure:"heimdall"`

	// DevMode enables development features (verbose logging, etc).
	DevMode bool `yaml:"dev_mode" mapstructure:"dev_mode"`
}

// ServerConfig configures the HTTP server.
// TLS termination is expected at a reverse proxy; pass cert/key paths only
// when the console itself must listen on HTTPS.
type ServerConfig struct {
	// HTTPAddr is the address to listen on (e.g., "127.0.0.1:8080", "0.0.0.0:8080").
	// Defaults to "127.0.0.1:8080" (localhost only) if empty.
	HTTPAddr string `yaml:"http_addr" mapstructure:"http_addr" validate:"omitempty,hostname_port"`

	// LogLevel sets the minimum log level.
	// Valid values: "debug", "info", "warn", "error".
	// Defaults to "info" if empty. DevMode=true overrides to "debug".
	LogLevel string `yaml:"log_level" mapstructure:"log_level" validate:"omitempty,oneof=debug info warn warning error"`

	// SessionTTL is the duration before sessions expire (e.g., "3h", "30m").
	// Defaults to "3h" if not specified.
	SessionTTL string `yaml:"session_ttl" mapstructure:"session_ttl" validate:"omitempty"`

	// PublicPaths are path prefixes served without a session.
	// Defaults to the login endpoint, API docs, and favicon when empty.
	PublicPaths []string `yaml:"public_paths" mapstructure:"public_paths"`

	// AllowedOrigins is the browser origin allowlist for cross-site requests.
	// Empty means cross-origin browser requests are blocked.
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`

	// TLSCertFile and TLSKeyFile enable HTTPS when both are set.
	TLSCertFile string `yaml:"tls_cert_file" mapstructure:"tls_cert_file"`
	TLSKeyFile  string `yaml:"tls_key_file" mapstructure:"tls_key_file"`

	// Cookie configures the session cookie flags.
	Cookie CookieConfig `yaml:"cookie" mapstructure:"cookie"`

	// LoginRateLimit caps login attempts per client IP per LoginRateWindow.
	// Zero applies the default of 10; set negative to disable.
	LoginRateLimit int `yaml:"login_rate_limit" mapstructure:"login_rate_limit"`

	// LoginRateWindow is the window for LoginRateLimit (e.g., "1m").
	// Defaults to "1m".
	LoginRateWindow string `yaml:"login_rate_window" mapstructure:"login_rate_window" validate:"omitempty"`
}

// CookieConfig configures the session cookie the login endpoint sets.
// The defaults match what existing frontend clients expect: a script-readable
// cookie sent cross-site over plain HTTP. Tighten Secure/HTTPOnly once every
// client is behind TLS.
type CookieConfig struct {
	// Secure marks the cookie HTTPS-only. Default: false.
	Secure bool `yaml:"secure" mapstructure:"secure"`

	// HTTPOnly hides the cookie from frontend scripts. Default: false.
	HTTPOnly bool `yaml:"http_only" mapstructure:"http_only"`
}

// KeystoneConfig configures the OpenStack identity endpoint.
type KeystoneConfig struct {
	// AuthURL is the Keystone v3 endpoint (e.g., "https://keystone:5000/v3").
	AuthURL string `yaml:"auth_url" mapstructure:"auth_url" validate:"required,url"`

	// DomainName is the domain logins authenticate against.
	// Defaults to "Default".
	DomainName string `yaml:"domain_name" mapstructure:"domain_name"`

	// Region selects the service catalog region. Empty means any region.
	Region string `yaml:"region" mapstructure:"region"`

	// Timeout bounds each identity/compute/network API round trip (e.g., "30s").
	// Defaults to "30s".
	Timeout string `yaml:"timeout" mapstructure:"timeout" validate:"omitempty"`
}

// HeimdallConfig configures the proxy manager client.
type HeimdallConfig struct {
	// BaseURL is the Heimdall endpoint (e.g., "http://heimdall:8081").
	BaseURL string `yaml:"base_url" mapstructure:"base_url" validate:"omitempty,url"`

	// Timeout bounds each Heimdall round trip (e.g., "10s").
	// Defaults to "10s".
	Timeout string `yaml:"timeout" mapstructure:"timeout" validate:"omitempty"`
}

// SetDefaults applies default values for optional fields.
func (c *Config) SetDefaults() {
	if c.Server.HTTPAddr == "" {
		c.Server.HTTPAddr = "127.0.0.1:8080"
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = "info"
	}
	if c.Server.SessionTTL == "" {
		c.Server.SessionTTL = "3h"
	}
	if c.Server.LoginRateLimit == 0 {
		c.Server.LoginRateLimit = 10
	}
	if c.Server.LoginRateWindow == "" {
		c.Server.LoginRateWindow = "1m"
	}
	if c.Keystone.DomainName == "" {
		c.Keystone.DomainName = "Default"
	}
	if c.Keystone.Timeout == "" {
		c.Keystone.Timeout = "30s"
	}
	if c.Heimdall.Timeout == "" {
		c.Heimdall.Timeout = "10s"
	}
}

// SetDevDefaults applies permissive development defaults.
// Only has an effect when DevMode is true.
func (c *Config) SetDevDefaults() {
	if !c.DevMode {
		return
	}
	c.Server.LogLevel = "debug"
	if len(c.Server.AllowedOrigins) == 0 {
		c.Server.AllowedOrigins = []string{"http://localhost:3000"}
	}
}

// SessionTTLDuration parses the session TTL, falling back to 3h on error.
func (c *Config) SessionTTLDuration() time.Duration {
	d, err := time.ParseDuration(c.Server.SessionTTL)
	if err != nil || d <= 0 {
		return 3 * time.Hour
	}
	return d
}

// KeystoneTimeout parses the Keystone timeout, falling back to 30s on error.
func (c *Config) KeystoneTimeout() time.Duration {
	d, err := time.ParseDuration(c.Keystone.Timeout)
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}

// LoginRateWindowDuration parses the login rate window, falling back to 1m
// on error.
func (c *Config) LoginRateWindowDuration() time.Duration {
	d, err := time.ParseDuration(c.Server.LoginRateWindow)
	if err != nil || d <= 0 {
		return time.Minute
	}
	return d
}

// HeimdallTimeout parses the Heimdall timeout, falling back to 10s on error.
func (c *Config) HeimdallTimeout() time.Duration {
	d, err := time.ParseDuration(c.Heimdall.Timeout)
	if err != nil || d <= 0 {
		return 10 * time.Second
	}
	return d
}
