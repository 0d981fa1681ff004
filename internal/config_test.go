package internal

import (
	"strings"
	"testing"
	"time"
)

func TestAuthConfig_DisabledMode(t *testing.T) {
	cfg := AuthConfig{Mode: "disabled", Token: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("disabled mode should pass: %v", err)
	}
	if cfg.AuthEnabled() {
		t.Error("disabled mode should not be enabled")
	}
}

func TestAuthConfig_EmptyModeDefaultsDisabled(t *testing.T) {
	cfg := AuthConfig{Mode: "", Token: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty mode should default to disabled: %v", err)
	}
	if cfg.Mode != AuthModeDisabled {
		t.Errorf("mode = %q, want %q", cfg.Mode, AuthModeDisabled)
	}
}

func TestAuthConfig_TokenModeValid(t *testing.T) {
	cfg := AuthConfig{Mode: "token", Token: "mysecret"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("token mode with token should pass: %v", err)
	}
	if !cfg.AuthEnabled() {
		t.Error("token mode should be enabled")
	}
}

func TestAuthConfig_TokenModeEmptyToken(t *testing.T) {
	cfg := AuthConfig{Mode: "token", Token: ""}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("token mode with empty token should fail")
	}
	if !strings.Contains(err.Error(), "token is empty") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestAuthConfig_InvalidMode(t *testing.T) {
	cfg := AuthConfig{Mode: "magic", Token: "x"}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("invalid mode should fail validation")
	}
}

func TestFullConfig_AuthValidationCalled(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Auth.Mode = "token"
	cfg.Auth.Token = ""
	err := cfg.Validate()
	if err == nil {
		t.Fatal("full config validate should catch auth error")
	}
}

func TestDefaultConfig_Valid(t *testing.T) {
	if err := NewDefaultConfig().Validate(); err != nil {
		t.Fatalf("default config should be valid: %v", err)
	}
}

func TestStoreConfig(t *testing.T) {
	cfg := StoreConfig{}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty driver should default: %v", err)
	}
	if cfg.Driver != "memory" {
		t.Errorf("driver = %q, want memory", cfg.Driver)
	}

	if err := (&StoreConfig{Driver: "sqlite"}).Validate(); err != nil {
		t.Errorf("sqlite should be accepted: %v", err)
	}
	if err := (&StoreConfig{Driver: "postgres"}).Validate(); err == nil {
		t.Error("unknown driver should fail validation")
	}
}

func TestIDConfig(t *testing.T) {
	cfg := IDConfig{}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty strategy should default: %v", err)
	}
	if cfg.Strategy != IDStrategyClock {
		t.Errorf("strategy = %q", cfg.Strategy)
	}
	if err := (&IDConfig{Strategy: "uuid"}).Validate(); err == nil {
		t.Error("unknown strategy should fail validation")
	}
	if err := (&IDConfig{Strategy: IDStrategySequence, Start: -1}).Validate(); err == nil {
		t.Error("negative start should fail validation")
	}
}

func TestEventsConfig_NegativeThrottle(t *testing.T) {
	if err := (&EventsConfig{ListThrottle: -time.Second}).Validate(); err == nil {
		t.Error("negative throttle should fail validation")
	}
}

func TestHTTPConfig_PortRange(t *testing.T) {
	if err := (&HTTPConfig{Port: 70000}).Validate(); err == nil {
		t.Error("port out of range should fail validation")
	}
	if got := (&HTTPConfig{Port: 9000}).Address(); got != ":9000" {
		t.Errorf("address = %q", got)
	}
}
