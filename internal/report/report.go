// Package report prints the end-of-build summary and, when configured,
// holds the console open until the user acknowledges it.
package report

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/gookit/color"
	"github.com/luulek/packforge/internal/config"
	"github.com/luulek/packforge/internal/ctxlog"
)

// Completion writes the success summary for a finished build. It only runs
// after the packaging stage succeeded. When the plan asks for it, the call
// blocks until a line is read from in, mirroring a double-clicked build
// script that would otherwise close its window.
func Completion(ctx context.Context, out io.Writer, in io.Reader, plan *config.Plan, buildID string) error {
	logger := ctxlog.FromContext(ctx)

	artifact := filepath.Join(plan.OutputDir, plan.OutputFilename)
	fmt.Fprintln(out, color.Success.Sprint("Build complete."))
	fmt.Fprintf(out, "  Artifact: %s\n", color.Bold.Sprint(artifact))
	fmt.Fprintf(out, "  Build ID: %s\n", buildID)
	logger.Info("🏁 Build complete.", "artifact", artifact)

	if plan.PauseOnExit && in != nil {
		fmt.Fprint(out, "Press Enter to exit...")
		if _, err := bufio.NewReader(in).ReadString('\n'); err != nil && err != io.EOF {
			return fmt.Errorf("failed to wait for acknowledgement: %w", err)
		}
	}
	return nil
}
