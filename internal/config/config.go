// Package config loads runtime configuration for the summarization core from
// environment variables (and an optional .env file), applying defaults the
// same way the rest of the stack does.
package config

import "time"

// AnthropicConfig holds the settings needed to talk to the Claude Messages API.
type AnthropicConfig struct {
	APIKey      string        `yaml:"api_key"`
	Model       string        `yaml:"model"`
	BaseURL     string        `yaml:"base_url,omitempty"`
	MaxTokens   int           `yaml:"max_tokens"`
	Temperature float64       `yaml:"temperature"`
	Timeout     time.Duration `yaml:"timeout"`
}

// RateLimitConfig tunes the LLM client's per-process pacing and retry policy.
type RateLimitConfig struct {
	RequestsPerSecond float64       `yaml:"requests_per_second"`
	BurstSize         int           `yaml:"burst_size"`
	MaxRetries        int           `yaml:"max_retries"`
	BaseDelay         time.Duration `yaml:"base_delay"`
	MaxDelay          time.Duration `yaml:"max_delay"`
}

// CacheBackendConfig selects and configures the storage backend of the
// summary cache. The permission cache does not use it (see
// PermissionCacheConfig).
type CacheBackendConfig struct {
	// Backend is "memory" or "redis".
	Backend  string        `yaml:"backend"`
	Addr     string        `yaml:"addr,omitempty"`
	Password string        `yaml:"password,omitempty"`
	DB       int           `yaml:"db,omitempty"`
	TTL      time.Duration `yaml:"ttl"`
	Capacity int           `yaml:"capacity"`
}

// PermissionCacheConfig tunes the LRU permission cache.
type PermissionCacheConfig struct {
	Capacity int           `yaml:"capacity"`
	TTL      time.Duration `yaml:"ttl"`
}

// PromptConfig tunes prompt construction and truncation.
type PromptConfig struct {
	MaxContextTokens int `yaml:"max_context_tokens"`
	ReservedTokens   int `yaml:"reserved_tokens"`
}

// EngineConfig tunes the summarization engine's concurrency and batching.
type EngineConfig struct {
	MaxConcurrency  int `yaml:"max_concurrency"`
	MinMessageCount int `yaml:"min_message_count"`
}

// ObsConfig configures OpenTelemetry export.
type ObsConfig struct {
	OTLP           string `yaml:"otlp,omitempty"`
	ServiceName    string `yaml:"service_name"`
	ServiceVersion string `yaml:"service_version"`
	Environment    string `yaml:"environment"`
}

// Config is the fully-resolved runtime configuration for the summarization
// core process.
type Config struct {
	Anthropic      AnthropicConfig
	RateLimit      RateLimitConfig
	Cache          CacheBackendConfig
	PermissionCache PermissionCacheConfig
	Prompt         PromptConfig
	Engine         EngineConfig
	Obs            ObsConfig

	LogPath     string
	LogLevel    string
	LogPayloads bool
	TruncateLogBytes int
}
