package config

import (
	"strings"
	"testing"
)

func validConfig() Config {
	cfg := Config{
		Keystone: KeystoneConfig{
			AuthURL: "https://keystone.example.com:5000/v3",
		},
	}
	cfg.SetDefaults()
	return cfg
}

func TestValidate_ValidConfig(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}
}

func TestValidate_MissingAuthURL(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.Keystone.AuthURL = ""

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for missing auth_url")
	}
	if !strings.Contains(err.Error(), "AuthURL") {
		t.Errorf("error should name the field: %v", err)
	}
}

func TestValidate_BadAuthURL(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.Keystone.AuthURL = "not a url"

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for malformed auth_url")
	}
}

func TestValidate_BadListenAddr(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.Server.HTTPAddr = "no-port-here"

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for bad http_addr")
	}
}

func TestValidate_BadLogLevel(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.Server.LogLevel = "verbose"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for bad log level")
	}
	if !strings.Contains(err.Error(), "one of") {
		t.Errorf("error should list valid levels: %v", err)
	}
}

func TestValidate_BadDuration(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.Server.SessionTTL = "three hours"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for bad session_ttl")
	}
	if !strings.Contains(err.Error(), "session_ttl") {
		t.Errorf("error should name the field: %v", err)
	}
}

func TestValidate_NegativeDuration(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.Keystone.Timeout = "-5s"

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for negative timeout")
	}
}

func TestValidate_TLSPairEnforced(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.Server.TLSCertFile = "/etc/console/tls.crt"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for cert without key")
	}
	if !strings.Contains(err.Error(), "together") {
		t.Errorf("unexpected message: %v", err)
	}

	cfg.Server.TLSKeyFile = "/etc/console/tls.key"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("cert+key pair rejected: %v", err)
	}
}

func TestValidate_BadHeimdallURL(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.Heimdall.BaseURL = "::: nope"

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for bad heimdall base_url")
	}
}
