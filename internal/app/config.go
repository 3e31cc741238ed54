package app

import "errors"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ConfigPath string // hcl file or directory

	LogFormat string
	LogLevel  string

	// DryRun prints the packager invocation without touching the
	// filesystem or spawning any subprocess.
	DryRun bool

	// SkipToolchain skips the pip/packager ensure step.
	SkipToolchain bool

	// UpdateLock re-resolves the packager release even when a lock file
	// already pins one.
	UpdateLock bool
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.ConfigPath == "" {
		return nil, errors.New("ConfigPath is a required configuration field and cannot be empty")
	}

	return &cfg, nil
}
