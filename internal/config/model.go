package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/flytam/filenamify"
)

// Console mode values accepted by a build plan. They map one-to-one onto the
// packaging tool's --windows-console-mode choices.
const (
	ConsoleDisable = "disable"
	ConsoleForce   = "force"
	ConsoleAttach  = "attach"
)

// Plan is the unified, format-agnostic representation of a single build:
// which script to compile, what the artifact should be called, and how the
// packaging toolchain is driven.
type Plan struct {
	// Name is the label of the build block this plan was loaded from.
	Name string

	// Script is the path to the application entry script.
	Script string

	// OutputFilename is the display name of the produced executable.
	OutputFilename string

	// OutputDir is the directory the final artifact is placed under.
	OutputDir string

	// Standalone bundles the full runtime instead of requiring a separate
	// interpreter install on the target machine.
	Standalone bool

	// ConsoleMode controls the terminal window of the packaged executable.
	ConsoleMode string

	// Icon is an optional .ico resource embedded into the executable.
	Icon string

	// DataDirs are auxiliary asset directories bundled into the package.
	DataDirs []DataDir

	// RemoveOutput deletes intermediate build output after packaging,
	// leaving only the final artifact.
	RemoveOutput bool

	// PauseOnExit blocks on a keypress after the completion report.
	PauseOnExit bool

	// Toolchain configures the interpreter and packager installation.
	Toolchain Toolchain
}

// DataDir maps a source directory into the package at a target relative path.
type DataDir struct {
	Source string
	Target string
}

// Toolchain holds the interpreter command and packager version policy.
type Toolchain struct {
	// Python is the interpreter command used for pip and the packager.
	Python string

	// Version pins the packager to an exact release. Empty means the
	// latest release is resolved and locked at build time.
	Version string

	// AssumeYesDownloads suppresses the packager's interactive prompts for
	// auxiliary downloads.
	AssumeYesDownloads bool
}

// DerivedArtifactDirs returns the intermediate directories the packaging
// tool creates next to the output dir, named after the entry script. These
// are the directories a clean pass must remove.
func (p *Plan) DerivedArtifactDirs() []string {
	base := strings.TrimSuffix(filepath.Base(p.Script), filepath.Ext(p.Script))
	return []string{
		base + ".build",
		base + ".dist",
		base + ".onefile-build",
	}
}

// Normalize applies defaults and sanitizes user-provided values. It is
// called once by the loader after decoding.
func (p *Plan) Normalize() error {
	if p.ConsoleMode == "" {
		p.ConsoleMode = ConsoleDisable
	}
	if p.OutputDir == "" {
		p.OutputDir = "Compiled"
	}
	if p.Toolchain.Python == "" {
		p.Toolchain.Python = "python"
	}
	if p.OutputFilename != "" {
		safe, err := filenamify.FilenamifyV2(p.OutputFilename)
		if err != nil {
			return fmt.Errorf("failed to sanitize output filename %q: %w", p.OutputFilename, err)
		}
		p.OutputFilename = safe
	}
	return nil
}

// Validate checks that the plan is complete enough to drive a build.
func (p *Plan) Validate() error {
	if p.Script == "" {
		return fmt.Errorf("build %q: script is required", p.Name)
	}
	if p.OutputFilename == "" {
		return fmt.Errorf("build %q: output_filename is required", p.Name)
	}
	switch p.ConsoleMode {
	case ConsoleDisable, ConsoleForce, ConsoleAttach:
	default:
		return fmt.Errorf("build %q: invalid console mode %q", p.Name, p.ConsoleMode)
	}
	for _, d := range p.DataDirs {
		if d.Source == "" || d.Target == "" {
			return fmt.Errorf("build %q: data_dir requires both source and target", p.Name)
		}
	}
	return nil
}
