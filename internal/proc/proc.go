// Package proc abstracts blocking subprocess execution behind a small Runner
// interface so the build stages can be exercised in tests without spawning
// real interpreter or packager processes.
package proc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/luulek/packforge/internal/ctxlog"
)

// Command describes one external invocation.
type Command struct {
	// Name is the program to run, resolved against PATH.
	Name string

	// Args are the program arguments, excluding the program name itself.
	Args []string

	// Dir is the working directory. Empty means the current directory.
	Dir string
}

// String renders the command the way a user would type it.
func (c Command) String() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// Runner executes a command and blocks until it exits.
type Runner interface {
	Run(ctx context.Context, cmd Command) error
}

// ExitError reports a command that ran but exited with a non-zero status.
type ExitError struct {
	Cmd  Command
	Code int
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return fmt.Sprintf("%s exited with status %d", e.Cmd.Name, e.Code)
}

// Local runs commands on the local machine with inherited console I/O, the
// way an interactive build script would.
type Local struct {
	// Stdout and Stderr override the inherited streams when non-nil.
	Stdout io.Writer
	Stderr io.Writer
}

// Run implements the Runner interface. The child inherits the parent's
// console streams so tool diagnostics reach the user directly.
func (l *Local) Run(ctx context.Context, cmd Command) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Spawning subprocess.", "command", cmd.String())

	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	c.Dir = cmd.Dir
	c.Stdin = os.Stdin
	c.Stdout = l.Stdout
	c.Stderr = l.Stderr
	if c.Stdout == nil {
		c.Stdout = os.Stdout
	}
	if c.Stderr == nil {
		c.Stderr = os.Stderr
	}

	err := c.Run()
	if err == nil {
		return nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &ExitError{Cmd: cmd, Code: exitErr.ExitCode()}
	}
	return fmt.Errorf("failed to start %s: %w", cmd.Name, err)
}
