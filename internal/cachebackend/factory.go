package cachebackend

import (
	"fmt"

	"github.com/summarybot/corebot/internal/config"
)

// New builds the configured Backend implementation, mirroring the Python
// original's create_cache() factory (see SPEC_FULL.md §C). Unlike the
// Python original — which raises for "redis" because it was never
// implemented — this factory returns a fully working Redis backend.
func New(cfg config.CacheBackendConfig) (Backend, error) {
	switch cfg.Backend {
	case "", "memory":
		return NewMemory(cfg.Capacity), nil
	case "redis":
		return NewRedis(RedisOptions{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB})
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}
