package config

import (
	"testing"
	"time"
)

func TestParseLifetime(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want time.Duration
	}{
		{"30d", 30 * 24 * time.Hour},
		{"90d", 90 * 24 * time.Hour},
		{"1d", 24 * time.Hour},
		{"15m", 15 * time.Minute},
		{"12h", 12 * time.Hour},
		{" 7d ", 7 * 24 * time.Hour},
	}
	for _, tc := range cases {
		got, err := ParseLifetime(tc.in)
		if err != nil {
			t.Fatalf("ParseLifetime(%q) error: %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseLifetime(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}

	for _, bad := range []string{"", "xd", "30days", "d"} {
		if _, err := ParseLifetime(bad); err == nil {
			t.Fatalf("ParseLifetime(%q) expected error", bad)
		}
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Server.Port != "5000" {
		t.Fatalf("default port: %q", cfg.Server.Port)
	}
	if cfg.Database.Type != "mongodb" {
		t.Fatalf("default db type: %q", cfg.Database.Type)
	}
	if cfg.JWT.ExpiresIn != 30*24*time.Hour {
		t.Fatalf("default access lifetime: %v", cfg.JWT.ExpiresIn)
	}
	if cfg.JWT.RefreshExpiresIn != 90*24*time.Hour {
		t.Fatalf("default refresh lifetime: %v", cfg.JWT.RefreshExpiresIn)
	}
	if cfg.RateLimit.Requests != 100 || cfg.RateLimit.Window != 15*time.Minute {
		t.Fatalf("default rate limit: %d per %v", cfg.RateLimit.Requests, cfg.RateLimit.Window)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "8081")
	t.Setenv("JWT_EXPIRES_IN", "12h")
	t.Setenv("NODE_ENV", "production")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Server.Port != "8081" {
		t.Fatalf("port override: %q", cfg.Server.Port)
	}
	if cfg.JWT.ExpiresIn != 12*time.Hour {
		t.Fatalf("access lifetime override: %v", cfg.JWT.ExpiresIn)
	}
	if cfg.Server.Env != "production" {
		t.Fatalf("env override: %q", cfg.Server.Env)
	}
}
