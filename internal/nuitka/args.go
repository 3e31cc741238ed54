// Package nuitka builds the compiler's argument list from a build plan and
// drives the packaging invocation.
package nuitka

import (
	"fmt"

	"github.com/luulek/packforge/internal/config"
)

// Args renders the deterministic argument list for one packaging run. The
// entry script is always the final argument.
func Args(plan *config.Plan) []string {
	args := []string{"-m", "nuitka"}

	if plan.Standalone {
		args = append(args, "--standalone")
	}
	args = append(args, "--windows-console-mode="+plan.ConsoleMode)

	for _, d := range plan.DataDirs {
		args = append(args, fmt.Sprintf("--include-data-dir=%s=%s", d.Source, d.Target))
	}
	if plan.Icon != "" {
		args = append(args, "--windows-icon-from-ico="+plan.Icon)
	}

	args = append(args, "--output-dir="+plan.OutputDir)

	if plan.Toolchain.AssumeYesDownloads {
		args = append(args, "--assume-yes-for-downloads")
	}
	if plan.RemoveOutput {
		args = append(args, "--remove-output")
	}

	args = append(args, "--output-filename="+plan.OutputFilename)
	args = append(args, plan.Script)
	return args
}
