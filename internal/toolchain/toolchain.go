// Package toolchain makes sure the packaging dependency is present and
// current before a build: it upgrades pip itself, decides which packager
// release to install, and drives the install through the interpreter.
package toolchain

import (
	"context"
	"fmt"
	"time"

	"github.com/luulek/packforge/internal/config"
	"github.com/luulek/packforge/internal/ctxlog"
	"github.com/luulek/packforge/internal/proc"
	"github.com/luulek/packforge/internal/pypi"
)

// PackagerProject is the PyPI project name of the compiler the orchestrator
// wraps.
const PackagerProject = "nuitka"

// Ensurer installs and upgrades the packaging toolchain for a build plan.
type Ensurer struct {
	Runner   proc.Runner
	Resolver pypi.VersionResolver

	// LockPath is where the resolved version is recorded. Empty disables
	// the lock file entirely.
	LockPath string

	// UpdateLock forces re-resolution even when a lock file exists.
	UpdateLock bool

	// Now is the clock used for lock timestamps. Nil means time.Now.
	Now func() time.Time
}

// Ensure upgrades pip and installs the packager. Any failure halts the
// build; there are no retries.
func (e *Ensurer) Ensure(ctx context.Context, tc config.Toolchain) error {
	logger := ctxlog.FromContext(ctx)
	logger.Info("🔧 Ensuring packaging toolchain.", "python", tc.Python)

	// pip upgrades itself first so the packager install sees a current
	// installer.
	pipSelf := proc.Command{
		Name: tc.Python,
		Args: []string{"-m", "pip", "install", "--upgrade", "pip"},
	}
	if err := e.Runner.Run(ctx, pipSelf); err != nil {
		return fmt.Errorf("failed to upgrade pip: %w", err)
	}

	spec, upgrade := e.packagerSpec(ctx, tc)
	args := []string{"-m", "pip", "install"}
	if upgrade {
		args = append(args, "--upgrade")
	}
	args = append(args, spec)

	install := proc.Command{Name: tc.Python, Args: args}
	if err := e.Runner.Run(ctx, install); err != nil {
		return fmt.Errorf("failed to install %s: %w", spec, err)
	}

	logger.Info("✅ Packaging toolchain ready.", "requirement", spec)
	return nil
}

// packagerSpec decides the pip requirement to install. Precedence: a pinned
// version from the plan, then the lock file, then a fresh resolution against
// PyPI. When resolution is impossible the original always-latest behavior is
// the fallback, signalled by upgrade=true.
func (e *Ensurer) packagerSpec(ctx context.Context, tc config.Toolchain) (spec string, upgrade bool) {
	logger := ctxlog.FromContext(ctx)

	if tc.Version != "" {
		logger.Debug("Packager version pinned in configuration.", "version", tc.Version)
		return PackagerProject + "==" + tc.Version, false
	}

	if e.LockPath != "" && !e.UpdateLock {
		lock, err := ReadLock(e.LockPath)
		if err != nil {
			logger.Warn("Ignoring unreadable lock file.", "path", e.LockPath, "error", err)
		} else if lock != nil && lock.Packager == PackagerProject {
			logger.Debug("Packager version taken from lock file.", "version", lock.Version)
			return PackagerProject + "==" + lock.Version, false
		}
	}

	if e.Resolver != nil {
		version, err := e.Resolver.LatestVersion(ctx, PackagerProject)
		if err == nil {
			e.writeLock(ctx, version)
			return PackagerProject + "==" + version, false
		}
		logger.Warn("Could not resolve latest release, falling back to pip's latest.", "error", err)
	}

	return PackagerProject, true
}

func (e *Ensurer) writeLock(ctx context.Context, version string) {
	if e.LockPath == "" {
		return
	}
	logger := ctxlog.FromContext(ctx)

	now := time.Now
	if e.Now != nil {
		now = e.Now
	}
	lock := &Lock{Packager: PackagerProject, Version: version, ResolvedAt: now().UTC()}
	if err := WriteLock(e.LockPath, lock); err != nil {
		// A missing lock only costs reproducibility, not this build.
		logger.Warn("Failed to write lock file.", "path", e.LockPath, "error", err)
		return
	}
	logger.Info("🔒 Locked packager release.", "version", version, "path", e.LockPath)
}
