package main

import (
	"testing"
)

func TestParseFlagsDefaultsLeaveOverridesUnset(t *testing.T) {
	overrides, err := parseFlags(nil)
	if err != nil {
		t.Fatalf("parseFlags returned error: %v", err)
	}

	if overrides.ConfigFile != "" || overrides.Port != nil || overrides.StorageBackend != nil ||
		overrides.DatabaseDSN != nil || overrides.SeedFile != nil || overrides.LogLevel != nil {
		t.Fatalf("expected no string overrides, got %+v", overrides)
	}
	if overrides.RateLimitRPS != nil || overrides.RateLimitBurst != nil {
		t.Fatalf("expected rate limit overrides to be unset")
	}
}

func TestParseFlagsAppliesValues(t *testing.T) {
	overrides, err := parseFlags([]string{
		"--config", "planner.yaml",
		"--port", "9100",
		"--storage", "sqlite",
		"--dsn", "file:news.db",
		"--seed", "seed.yaml",
		"--log-level", "debug",
		"--rate-limit-rps", "0",
		"--rate-limit-burst", "5",
	})
	if err != nil {
		t.Fatalf("parseFlags returned error: %v", err)
	}

	if overrides.ConfigFile != "planner.yaml" {
		t.Fatalf("unexpected config file %q", overrides.ConfigFile)
	}
	checks := map[string]*string{
		"9100":         overrides.Port,
		"sqlite":       overrides.StorageBackend,
		"file:news.db": overrides.DatabaseDSN,
		"seed.yaml":    overrides.SeedFile,
		"debug":        overrides.LogLevel,
	}
	for want, got := range checks {
		if got == nil || *got != want {
			t.Fatalf("expected override %q, got %v", want, got)
		}
	}
	if overrides.RateLimitRPS == nil || *overrides.RateLimitRPS != 0 {
		t.Fatalf("expected rps override 0")
	}
	if overrides.RateLimitBurst == nil || *overrides.RateLimitBurst != 5 {
		t.Fatalf("expected burst override 5")
	}
}

func TestParseFlagsRejectsUnknownBackend(t *testing.T) {
	if _, err := parseFlags([]string{"--storage", "mongodb"}); err == nil {
		t.Fatalf("expected error for unsupported storage backend")
	}
}
