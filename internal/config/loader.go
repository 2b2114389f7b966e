package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Load reads configuration from environment variables (optionally .env).
// Use Overload so .env values override existing OS environment variables,
// matching local-dev expectations.
func Load() (Config, error) {
	_ = godotenv.Overload()

	cfg := Config{}

	// Defaults that are awkward to represent as zero-values.
	cfg.Anthropic.Model = "claude-3-5-sonnet-20241022"
	cfg.Anthropic.MaxTokens = 1024
	cfg.Anthropic.Temperature = 0.3
	cfg.Anthropic.Timeout = 60 * time.Second
	cfg.RateLimit.RequestsPerSecond = 10
	cfg.RateLimit.BurstSize = 1
	cfg.RateLimit.MaxRetries = 3
	cfg.RateLimit.BaseDelay = time.Second
	cfg.RateLimit.MaxDelay = 30 * time.Second
	cfg.Cache.Backend = "memory"
	cfg.Cache.TTL = time.Hour
	cfg.Cache.Capacity = 1000
	cfg.PermissionCache.Capacity = 500
	cfg.PermissionCache.TTL = 5 * time.Minute
	cfg.Prompt.MaxContextTokens = 8000
	cfg.Prompt.ReservedTokens = 1000
	cfg.Engine.MaxConcurrency = 3
	cfg.Engine.MinMessageCount = 1
	cfg.Obs.ServiceName = "summarization-core"
	cfg.Obs.ServiceVersion = "dev"
	cfg.Obs.Environment = "development"

	if v := trimmed("ANTHROPIC_API_KEY"); v != "" {
		cfg.Anthropic.APIKey = v
	}
	if v := trimmed("ANTHROPIC_MODEL"); v != "" {
		cfg.Anthropic.Model = v
	}
	if v := trimmed("ANTHROPIC_BASE_URL"); v != "" {
		cfg.Anthropic.BaseURL = v
	}
	if v := trimmed("ANTHROPIC_MAX_TOKENS"); v != "" {
		if n, err := parseInt(v); err == nil {
			cfg.Anthropic.MaxTokens = n
		}
	}
	if v := trimmed("ANTHROPIC_TEMPERATURE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Anthropic.Temperature = f
		}
	}
	if v := trimmed("ANTHROPIC_TIMEOUT_SECONDS"); v != "" {
		if n, err := parseInt(v); err == nil {
			cfg.Anthropic.Timeout = time.Duration(n) * time.Second
		}
	}

	if v := trimmed("RATE_LIMIT_RPS"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.RateLimit.RequestsPerSecond = f
		}
	}
	if v := trimmed("RATE_LIMIT_BURST"); v != "" {
		if n, err := parseInt(v); err == nil {
			cfg.RateLimit.BurstSize = n
		}
	}
	if v := trimmed("RATE_LIMIT_MAX_RETRIES"); v != "" {
		if n, err := parseInt(v); err == nil {
			cfg.RateLimit.MaxRetries = n
		}
	}

	if v := trimmed("CACHE_BACKEND"); v != "" {
		cfg.Cache.Backend = strings.ToLower(v)
	}
	if v := trimmed("CACHE_REDIS_ADDR"); v != "" {
		cfg.Cache.Addr = v
	}
	if v := trimmed("CACHE_REDIS_PASSWORD"); v != "" {
		cfg.Cache.Password = v
	}
	if v := trimmed("CACHE_REDIS_DB"); v != "" {
		if n, err := parseInt(v); err == nil {
			cfg.Cache.DB = n
		}
	}
	if v := trimmed("CACHE_TTL_SECONDS"); v != "" {
		if n, err := parseInt(v); err == nil {
			cfg.Cache.TTL = time.Duration(n) * time.Second
		}
	}
	if v := trimmed("CACHE_CAPACITY"); v != "" {
		if n, err := parseInt(v); err == nil {
			cfg.Cache.Capacity = n
		}
	}

	if v := trimmed("PERMISSION_CACHE_CAPACITY"); v != "" {
		if n, err := parseInt(v); err == nil {
			cfg.PermissionCache.Capacity = n
		}
	}
	if v := trimmed("PERMISSION_CACHE_TTL_SECONDS"); v != "" {
		if n, err := parseInt(v); err == nil {
			cfg.PermissionCache.TTL = time.Duration(n) * time.Second
		}
	}

	if v := trimmed("PROMPT_MAX_CONTEXT_TOKENS"); v != "" {
		if n, err := parseInt(v); err == nil {
			cfg.Prompt.MaxContextTokens = n
		}
	}
	if v := trimmed("PROMPT_RESERVED_TOKENS"); v != "" {
		if n, err := parseInt(v); err == nil {
			cfg.Prompt.ReservedTokens = n
		}
	}

	if v := trimmed("ENGINE_MAX_CONCURRENCY"); v != "" {
		if n, err := parseInt(v); err == nil {
			cfg.Engine.MaxConcurrency = n
		}
	}
	if v := trimmed("ENGINE_MIN_MESSAGE_COUNT"); v != "" {
		if n, err := parseInt(v); err == nil {
			cfg.Engine.MinMessageCount = n
		}
	}

	cfg.LogPath = trimmed("LOG_PATH")
	cfg.LogLevel = trimmed("LOG_LEVEL")
	if v := trimmed("LOG_PAYLOADS"); v != "" {
		cfg.LogPayloads = strings.EqualFold(v, "true") || v == "1" || strings.EqualFold(v, "yes")
	}
	if v := trimmed("LOG_TRUNCATE_BYTES"); v != "" {
		if n, err := parseInt(v); err == nil {
			cfg.TruncateLogBytes = n
		}
	}

	cfg.Obs.OTLP = trimmed("OTEL_EXPORTER_OTLP_ENDPOINT")
	if v := trimmed("OTEL_SERVICE_NAME"); v != "" {
		cfg.Obs.ServiceName = v
	}
	if v := trimmed("OTEL_SERVICE_VERSION"); v != "" {
		cfg.Obs.ServiceVersion = v
	}
	if v := trimmed("DEPLOYMENT_ENVIRONMENT"); v != "" {
		cfg.Obs.Environment = v
	}

	return cfg, nil
}

func trimmed(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func parseInt(s string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(s))
}
