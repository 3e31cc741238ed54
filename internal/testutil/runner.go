package testutil

import (
	"context"
	"strings"
	"sync"

	"github.com/luulek/packforge/internal/proc"
)

// FakeRunner records every command it is asked to run instead of spawning a
// subprocess. An optional ErrFn injects failures per command.
type FakeRunner struct {
	mu       sync.Mutex
	Commands []proc.Command
	ErrFn    func(cmd proc.Command) error
}

// Run implements proc.Runner.
func (f *FakeRunner) Run(ctx context.Context, cmd proc.Command) error {
	f.mu.Lock()
	f.Commands = append(f.Commands, cmd)
	f.mu.Unlock()

	if f.ErrFn != nil {
		return f.ErrFn(cmd)
	}
	return nil
}

// CommandLines renders each recorded command as a single string, in order.
func (f *FakeRunner) CommandLines() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	lines := make([]string, 0, len(f.Commands))
	for _, cmd := range f.Commands {
		lines = append(lines, cmd.String())
	}
	return lines
}

// FailCommandsContaining returns an ErrFn that fails any command whose
// rendered line contains the given substring.
func FailCommandsContaining(substr string, err error) func(proc.Command) error {
	return func(cmd proc.Command) error {
		if strings.Contains(cmd.String(), substr) {
			return err
		}
		return nil
	}
}

// StaticResolver is a pypi.VersionResolver returning a fixed answer.
type StaticResolver struct {
	Version string
	Err     error
}

// LatestVersion implements pypi.VersionResolver.
func (r *StaticResolver) LatestVersion(ctx context.Context, project string) (string, error) {
	if r.Err != nil {
		return "", r.Err
	}
	return r.Version, nil
}
