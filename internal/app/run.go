package app

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/luulek/packforge/internal/artifacts"
	"github.com/luulek/packforge/internal/ctxlog"
	"github.com/luulek/packforge/internal/nuitka"
	"github.com/luulek/packforge/internal/pipeline"
	"github.com/luulek/packforge/internal/report"
	"github.com/luulek/packforge/internal/toolchain"
)

// Run executes the build flow: clean stale artifacts, ensure the packaging
// toolchain, invoke the packager, report completion. Stages run strictly in
// order and the first failure aborts the run.
func (a *App) Run(ctx context.Context) error {
	buildID := uuid.NewString()
	logger := a.logger.With("build_id", buildID)
	ctx = ctxlog.WithLogger(ctx, logger)
	logger.Debug("App.Run method started.")

	if a.appConfig.DryRun {
		cmdLine := a.plan.Toolchain.Python + " " + strings.Join(nuitka.Args(a.plan), " ")
		logger.Info("Dry run: packager would be invoked as follows.")
		fmt.Fprintln(a.outW, cmdLine)
		return nil
	}

	var stages []pipeline.Stage

	stages = append(stages, pipeline.Stage{
		Name: "clean",
		Run: func(ctx context.Context) error {
			return artifacts.Clean(ctx, a.workDir, a.plan)
		},
	})

	if a.appConfig.SkipToolchain {
		logger.Info("Skipping toolchain stage on request.")
	} else {
		ensurer := &toolchain.Ensurer{
			Runner:     a.runner,
			Resolver:   a.resolver,
			LockPath:   filepath.Join(a.workDir, toolchain.LockFileName),
			UpdateLock: a.appConfig.UpdateLock,
		}
		stages = append(stages, pipeline.Stage{
			Name: "toolchain",
			Run: func(ctx context.Context) error {
				return ensurer.Ensure(ctx, a.plan.Toolchain)
			},
		})
	}

	stages = append(stages, pipeline.Stage{
		Name: "package",
		Run: func(ctx context.Context) error {
			return nuitka.Build(ctx, a.runner, a.plan)
		},
	})

	stages = append(stages, pipeline.Stage{
		Name: "report",
		Run: func(ctx context.Context) error {
			return report.Completion(ctx, a.outW, a.inR, a.plan, buildID)
		},
	})

	logger.Info("🚀 Starting build.", "build", a.plan.Name, "script", a.plan.Script)
	if err := pipeline.New(stages...).Run(ctx); err != nil {
		return fmt.Errorf("build failed: %w", err)
	}

	logger.Debug("App.Run method finished.")
	return nil
}
