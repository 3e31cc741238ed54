package nuitka

import (
	"context"
	"errors"
	"fmt"

	"github.com/luulek/packforge/internal/config"
	"github.com/luulek/packforge/internal/ctxlog"
	"github.com/luulek/packforge/internal/proc"
)

// Build invokes the compiler as a blocking subprocess with inherited console
// I/O. The exit status is inspected: a failed compile fails the build
// instead of falling through to the completion report.
func Build(ctx context.Context, runner proc.Runner, plan *config.Plan) error {
	logger := ctxlog.FromContext(ctx)

	cmd := proc.Command{Name: plan.Toolchain.Python, Args: Args(plan)}
	logger.Info("📦 Invoking packager.", "script", plan.Script, "output", plan.OutputFilename)
	logger.Debug("Packager command line assembled.", "command", cmd.String())

	if err := runner.Run(ctx, cmd); err != nil {
		var exitErr *proc.ExitError
		if errors.As(err, &exitErr) {
			return fmt.Errorf("packaging of %s failed with status %d", plan.Script, exitErr.Code)
		}
		return fmt.Errorf("packaging of %s failed: %w", plan.Script, err)
	}

	logger.Info("✅ Packager finished.", "output_dir", plan.OutputDir)
	return nil
}
