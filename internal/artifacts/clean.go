// Package artifacts removes stale build output so every packaging run starts
// from a clean filesystem state.
package artifacts

import (
	"context"
	"path/filepath"

	"github.com/luulek/packforge/internal/config"
	"github.com/luulek/packforge/internal/ctxlog"
	"github.com/luulek/packforge/internal/fsutil"
)

// Clean removes the intermediate directories the packaging tool derives from
// the entry script's name, along with the configured output directory.
// Directories that do not exist are skipped silently; a failed removal halts
// the build.
func Clean(ctx context.Context, workDir string, plan *config.Plan) error {
	logger := ctxlog.FromContext(ctx)

	targets := append(plan.DerivedArtifactDirs(), plan.OutputDir)
	for _, dir := range targets {
		path := dir
		if !filepath.IsAbs(path) {
			path = filepath.Join(workDir, dir)
		}
		removed, err := fsutil.EnsureAbsent(path)
		if err != nil {
			return err
		}
		if removed {
			logger.Info("🧹 Removed stale artifact directory.", "path", path)
		} else {
			logger.Debug("Artifact directory already absent.", "path", path)
		}
	}
	return nil
}
