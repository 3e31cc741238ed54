package nuitka

import (
	"context"
	"testing"

	"github.com/luulek/packforge/internal/proc"
	"github.com/stretchr/testify/require"
)

type recordingRunner struct {
	commands []proc.Command
	err      error
}

func (r *recordingRunner) Run(ctx context.Context, cmd proc.Command) error {
	r.commands = append(r.commands, cmd)
	return r.err
}

func TestBuild_InvokesInterpreterWithPlanArgs(t *testing.T) {
	t.Parallel()

	runner := &recordingRunner{}
	plan := basePlan()

	err := Build(context.Background(), runner, plan)

	require.NoError(t, err)
	require.Len(t, runner.commands, 1)
	require.Equal(t, "python", runner.commands[0].Name)
	require.Equal(t, Args(plan), runner.commands[0].Args)
}

// TestBuild_SurfacesNonZeroExit verifies that a failed compile fails the
// build instead of being swallowed.
func TestBuild_SurfacesNonZeroExit(t *testing.T) {
	t.Parallel()

	runner := &recordingRunner{
		err: &proc.ExitError{Cmd: proc.Command{Name: "python"}, Code: 1},
	}

	err := Build(context.Background(), runner, basePlan())

	require.Error(t, err)
	require.Contains(t, err.Error(), "failed with status 1")
}
