package config

import "context"

// Loader is the interface for a format-specific configuration loader.
type Loader interface {
	// Load reads configuration from the given paths, translates it into the
	// format-agnostic plan, and validates it. Exactly one build plan must be
	// found across all paths.
	Load(ctx context.Context, paths ...string) (*Plan, error)
}
