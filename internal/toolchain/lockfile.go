package toolchain

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// LockFileName is the file recording the resolved packager version next to
// the configuration, so repeated builds install the same release.
const LockFileName = "packforge.lock.yaml"

// Lock pins the packager to the release that was resolved at lock time.
type Lock struct {
	Packager   string    `yaml:"packager"`
	Version    string    `yaml:"version"`
	ResolvedAt time.Time `yaml:"resolved_at"`
}

// ReadLock loads a lock file. A missing file returns (nil, nil).
func ReadLock(path string) (*Lock, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read lock file %s: %w", path, err)
	}

	var lock Lock
	if err := yaml.Unmarshal(data, &lock); err != nil {
		return nil, fmt.Errorf("failed to parse lock file %s: %w", path, err)
	}
	if lock.Packager == "" || lock.Version == "" {
		return nil, fmt.Errorf("lock file %s is incomplete", path)
	}
	return &lock, nil
}

// WriteLock persists the lock atomically enough for a single-writer tool:
// the file is small and rewritten whole.
func WriteLock(path string, lock *Lock) error {
	data, err := yaml.Marshal(lock)
	if err != nil {
		return fmt.Errorf("failed to encode lock file: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write lock file %s: %w", path, err)
	}
	return nil
}
