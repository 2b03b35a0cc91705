package config

import (
	"os"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	for _, key := range []string{
		"PORT", "GIN_MODE", "SESSION_SECRET", "SESSION_BACKEND", "SESSION_TTL_MINUTES",
		"DEMO_USERNAME", "DEMO_PASSWORD_HASH", "LOGIN_FAILURE_DELAY_MS", "METRICS_ENABLED",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Port != "3000" {
		t.Fatalf("Port = %q, want 3000", cfg.Port)
	}
	if !cfg.UsesInsecureSecret() {
		t.Fatal("expected the lab default secret to be in use")
	}
	if cfg.SessionBackend != SessionBackendMemory {
		t.Fatalf("SessionBackend = %q, want memory", cfg.SessionBackend)
	}
	if cfg.DemoUsername != "testuser" {
		t.Fatalf("DemoUsername = %q, want testuser", cfg.DemoUsername)
	}
	if got := cfg.LoginFailureDelay(); got != 500*time.Millisecond {
		t.Fatalf("LoginFailureDelay = %v, want 500ms", got)
	}
	if got := cfg.SessionTTL(); got != 120*time.Minute {
		t.Fatalf("SessionTTL = %v, want 2h", got)
	}
	if cfg.MetricsEnabled {
		t.Fatal("metrics should be disabled by default")
	}
}

func TestLoadOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("PORT", "8081")
	t.Setenv("SESSION_SECRET", "s3cret")
	t.Setenv("SESSION_BACKEND", "Redis")
	t.Setenv("LOGIN_FAILURE_DELAY_MS", "50")
	t.Setenv("METRICS_ENABLED", "true")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, http://b.test,")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Port != "8081" || cfg.SessionSecret != "s3cret" {
		t.Fatalf("unexpected overrides: %#v", cfg)
	}
	if cfg.SessionBackend != SessionBackendRedis {
		t.Fatalf("SessionBackend = %q, want redis", cfg.SessionBackend)
	}
	if got := cfg.LoginFailureDelay(); got != 50*time.Millisecond {
		t.Fatalf("LoginFailureDelay = %v, want 50ms", got)
	}
	if !cfg.MetricsEnabled {
		t.Fatal("expected metrics to be enabled")
	}
	origins := cfg.AllowedOrigins()
	if len(origins) != 2 || origins[0] != "http://a.test" || origins[1] != "http://b.test" {
		t.Fatalf("unexpected origins: %#v", origins)
	}
}

func TestValidateRejectsDefaultSecretInRelease(t *testing.T) {
	cfg := &Config{
		GinMode:        "release",
		SessionSecret:  InsecureDefaultSecret,
		SessionBackend: SessionBackendMemory,
		DemoUsername:   "testuser",
	}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected release mode to reject the default secret")
	}

	cfg.SessionSecret = "a-real-secret"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateRejectsUnknownBackend(t *testing.T) {
	cfg := &Config{
		GinMode:        "debug",
		SessionSecret:  InsecureDefaultSecret,
		SessionBackend: "memcached",
		DemoUsername:   "testuser",
	}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected unknown backend to be rejected")
	}
}

func TestValidateRejectsMalformedOrigin(t *testing.T) {
	cfg := &Config{
		GinMode:            "debug",
		SessionSecret:      InsecureDefaultSecret,
		SessionBackend:     SessionBackendMemory,
		DemoUsername:       "testuser",
		CORSAllowedOrigins: "localhost:3000",
	}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected origin without scheme to be rejected")
	}
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatal(err)
		}
	})
}
