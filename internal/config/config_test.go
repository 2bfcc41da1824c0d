package config

import (
	"testing"
	"time"
)

func TestConfig_SetDefaults(t *testing.T) {
	t.Parallel()

	var cfg Config
	cfg.SetDefaults()

	if cfg.Server.HTTPAddr != "127.0.0.1:8080" {
		t.Errorf("HTTPAddr = %q, want %q", cfg.Server.HTTPAddr, "127.0.0.1:8080")
	}
	if cfg.Server.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want %q", cfg.Server.LogLevel, "info")
	}
	if cfg.Server.SessionTTL != "3h" {
		t.Errorf("SessionTTL = %q, want %q", cfg.Server.SessionTTL, "3h")
	}
	if cfg.Keystone.DomainName != "Default" {
		t.Errorf("DomainName = %q, want %q", cfg.Keystone.DomainName, "Default")
	}
	if cfg.Keystone.Timeout != "30s" {
		t.Errorf("Keystone.Timeout = %q, want %q", cfg.Keystone.Timeout, "30s")
	}
	if cfg.Heimdall.Timeout != "10s" {
		t.Errorf("Heimdall.Timeout = %q, want %q", cfg.Heimdall.Timeout, "10s")
	}
	if cfg.Server.LoginRateLimit != 10 {
		t.Errorf("LoginRateLimit = %d, want 10", cfg.Server.LoginRateLimit)
	}
	if cfg.Server.LoginRateWindow != "1m" {
		t.Errorf("LoginRateWindow = %q, want %q", cfg.Server.LoginRateWindow, "1m")
	}
}

func TestConfig_SetDefaults_NegativeLoginRateLimitDisables(t *testing.T) {
	t.Parallel()

	cfg := Config{Server: ServerConfig{LoginRateLimit: -1}}
	cfg.SetDefaults()

	if cfg.Server.LoginRateLimit != -1 {
		t.Errorf("LoginRateLimit = %d, want -1 (disabled)", cfg.Server.LoginRateLimit)
	}
}

func TestConfig_SetDefaults_PreservesExistingValues(t *testing.T) {
	t.Parallel()

	cfg := Config{
		Server: ServerConfig{
			HTTPAddr:   ":9090",
			SessionTTL: "1h",
		},
		Keystone: KeystoneConfig{
			DomainName: "corp",
		},
	}

	cfg.SetDefaults()

	if cfg.Server.HTTPAddr != ":9090" {
		t.Errorf("HTTPAddr overwritten: %q", cfg.Server.HTTPAddr)
	}
	if cfg.Server.SessionTTL != "1h" {
		t.Errorf("SessionTTL overwritten: %q", cfg.Server.SessionTTL)
	}
	if cfg.Keystone.DomainName != "corp" {
		t.Errorf("DomainName overwritten: %q", cfg.Keystone.DomainName)
	}
}

func TestConfig_SetDevDefaults(t *testing.T) {
	t.Parallel()

	cfg := Config{DevMode: true}
	cfg.SetDefaults()
	cfg.SetDevDefaults()

	if cfg.Server.LogLevel != "debug" {
		t.Errorf("dev mode LogLevel = %q, want debug", cfg.Server.LogLevel)
	}
	if len(cfg.Server.AllowedOrigins) == 0 {
		t.Error("dev mode should allow a local frontend origin")
	}
}

func TestConfig_SetDevDefaults_NoOpWhenDisabled(t *testing.T) {
	t.Parallel()

	var cfg Config
	cfg.SetDefaults()
	cfg.SetDevDefaults()

	if cfg.Server.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.Server.LogLevel)
	}
	if len(cfg.Server.AllowedOrigins) != 0 {
		t.Error("non-dev mode must not add origins")
	}
}

func TestConfig_DurationAccessors(t *testing.T) {
	t.Parallel()

	var cfg Config
	cfg.SetDefaults()

	if got := cfg.SessionTTLDuration(); got != 3*time.Hour {
		t.Errorf("SessionTTLDuration() = %v, want 3h", got)
	}
	if got := cfg.KeystoneTimeout(); got != 30*time.Second {
		t.Errorf("KeystoneTimeout() = %v, want 30s", got)
	}
	if got := cfg.HeimdallTimeout(); got != 10*time.Second {
		t.Errorf("HeimdallTimeout() = %v, want 10s", got)
	}

	if got := cfg.LoginRateWindowDuration(); got != time.Minute {
		t.Errorf("LoginRateWindowDuration() = %v, want 1m", got)
	}

	// Garbage falls back rather than breaking startup.
	cfg.Server.SessionTTL = "not-a-duration"
	if got := cfg.SessionTTLDuration(); got != 3*time.Hour {
		t.Errorf("SessionTTLDuration() fallback = %v, want 3h", got)
	}
}
