package kv

import (
	"fmt"

	"fuizlet/internal/config"
)

// NewStoreFromConfig creates a Store implementation based on the local
// store config type.
func NewStoreFromConfig(cfg config.LocalStoreConfig) (Store, error) {
	switch cfg.Type {
	case "memory":
		return NewMemory(), nil
	case "sqlite":
		if cfg.Path == "" {
			return nil, fmt.Errorf("sqlite store requires path to be set")
		}
		return NewSQLite(cfg.Path)
	default:
		return nil, fmt.Errorf("unknown local store type: %s", cfg.Type)
	}
}
