package config

import (
	"os"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Anthropic.Model != "claude-3-5-sonnet-20241022" {
		t.Errorf("default model = %q", cfg.Anthropic.Model)
	}
	if cfg.Cache.Backend != "memory" {
		t.Errorf("default cache backend = %q, want memory", cfg.Cache.Backend)
	}
	if cfg.Engine.MaxConcurrency != 3 {
		t.Errorf("default engine concurrency = %d, want 3", cfg.Engine.MaxConcurrency)
	}
}

func TestLoadOverridesFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("ANTHROPIC_API_KEY", "sk-test-123")
	t.Setenv("CACHE_BACKEND", "REDIS")
	t.Setenv("CACHE_TTL_SECONDS", "120")
	t.Setenv("ENGINE_MAX_CONCURRENCY", "8")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Anthropic.APIKey != "sk-test-123" {
		t.Errorf("APIKey = %q", cfg.Anthropic.APIKey)
	}
	if cfg.Cache.Backend != "redis" {
		t.Errorf("Cache.Backend = %q, want lowercased redis", cfg.Cache.Backend)
	}
	if cfg.Cache.TTL != 120*time.Second {
		t.Errorf("Cache.TTL = %v", cfg.Cache.TTL)
	}
	if cfg.Engine.MaxConcurrency != 8 {
		t.Errorf("Engine.MaxConcurrency = %d", cfg.Engine.MaxConcurrency)
	}
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"ANTHROPIC_API_KEY", "ANTHROPIC_MODEL", "ANTHROPIC_BASE_URL",
		"CACHE_BACKEND", "CACHE_REDIS_ADDR", "CACHE_TTL_SECONDS",
		"ENGINE_MAX_CONCURRENCY", "LOG_LEVEL",
	} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}
