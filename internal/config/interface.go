package config

import "context"

// Loader is the interface for a format-specific rule loader.
type Loader interface {
	// Load reads every rule file reachable from paths and translates them
	// into one format-agnostic model.
	Load(ctx context.Context, paths ...string) (*Model, error)
}
