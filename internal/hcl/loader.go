package hcl

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/luulek/packforge/internal/config"
	"github.com/luulek/packforge/internal/ctxlog"
	"github.com/luulek/packforge/internal/fsutil"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL configuration loader.
func NewLoader() *Loader {
	return &Loader{}
}

// fileRoot is a struct used to decode all top-level blocks from any file.
type fileRoot struct {
	Builds []*buildBlock `hcl:"build,block"`
	Remain hcl.Body      `hcl:",remain"`
}

// buildBlock mirrors a `build` block from a user's configuration file.
type buildBlock struct {
	Name           string          `hcl:"name,label"`
	Script         string          `hcl:"script"`
	OutputFilename string          `hcl:"output_filename"`
	OutputDir      string          `hcl:"output_dir,optional"`
	Standalone     *bool           `hcl:"standalone,optional"`
	ConsoleMode    string          `hcl:"console,optional"`
	Icon           string          `hcl:"icon,optional"`
	RemoveOutput   *bool           `hcl:"remove_output,optional"`
	PauseOnExit    bool            `hcl:"pause_on_exit,optional"`
	DataDirs       []*dataDirBlock `hcl:"data_dir,block"`
	Toolchain      *toolchainBlock `hcl:"toolchain,block"`
}

// dataDirBlock mirrors a repeated `data_dir` block.
type dataDirBlock struct {
	Source string `hcl:"source"`
	Target string `hcl:"target"`
}

// toolchainBlock mirrors the optional `toolchain` block.
type toolchainBlock struct {
	Python             string `hcl:"python,optional"`
	Version            string `hcl:"version,optional"`
	AssumeYesDownloads *bool  `hcl:"assume_yes_downloads,optional"`
}

// Load orchestrates the entire HCL configuration loading process. It is
// agnostic to the origin of the paths and merges build blocks from any file,
// requiring exactly one across all of them.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Plan, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	hclFiles, err := l.findAllHCLFiles(paths)
	if err != nil {
		return nil, err
	}
	if len(hclFiles) == 0 {
		return nil, fmt.Errorf("no .hcl configuration files found in %v", paths)
	}
	logger.Debug("Discovered HCL files.", "count", len(hclFiles))

	parser := hclparse.NewParser()
	var blocks []*buildBlock

	for _, file := range hclFiles {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		evalCtx, err := newEvalContext(file)
		if err != nil {
			return nil, err
		}

		var root fileRoot
		diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &root)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}
		blocks = append(blocks, root.Builds...)
	}

	if len(blocks) == 0 {
		return nil, fmt.Errorf("no build block found in %v", paths)
	}
	if len(blocks) > 1 {
		return nil, fmt.Errorf("found %d build blocks, expected exactly one", len(blocks))
	}

	plan := translatePlan(blocks[0])
	if err := plan.Normalize(); err != nil {
		return nil, err
	}
	if err := plan.Validate(); err != nil {
		return nil, err
	}

	logger.Debug("HCL loading complete.", "build", plan.Name, "script", plan.Script)
	return plan, nil
}

// translatePlan converts a decoded build block into the format-agnostic plan.
// Tri-state booleans default to true when omitted, matching the packaging
// workflow the tool automates.
func translatePlan(b *buildBlock) *config.Plan {
	plan := &config.Plan{
		Name:           b.Name,
		Script:         b.Script,
		OutputFilename: b.OutputFilename,
		OutputDir:      b.OutputDir,
		Standalone:     boolOr(b.Standalone, true),
		ConsoleMode:    b.ConsoleMode,
		Icon:           b.Icon,
		RemoveOutput:   boolOr(b.RemoveOutput, true),
		PauseOnExit:    b.PauseOnExit,
	}
	for _, d := range b.DataDirs {
		plan.DataDirs = append(plan.DataDirs, config.DataDir{Source: d.Source, Target: d.Target})
	}
	if tc := b.Toolchain; tc != nil {
		plan.Toolchain = config.Toolchain{
			Python:             tc.Python,
			Version:            tc.Version,
			AssumeYesDownloads: boolOr(tc.AssumeYesDownloads, true),
		}
	} else {
		plan.Toolchain = config.Toolchain{AssumeYesDownloads: true}
	}
	return plan
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

// findAllHCLFiles walks all given paths and returns a flat list of all .hcl files found.
func (l *Loader) findAllHCLFiles(paths []string) ([]string, error) {
	var allFiles []string
	seen := make(map[string]struct{})

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, fmt.Errorf("configuration path does not exist: %s", path)
			}
			return nil, fmt.Errorf("failed to inspect configuration path %s: %w", path, err)
		}

		var files []string
		if info.IsDir() {
			files, err = fsutil.FindFilesByExtension(path, ".hcl")
			if err != nil {
				return nil, fmt.Errorf("failed to scan %s for HCL files: %w", path, err)
			}
		} else {
			files = []string{path}
		}

		for _, f := range files {
			abs, err := filepath.Abs(f)
			if err != nil {
				return nil, err
			}
			if _, ok := seen[abs]; ok {
				continue
			}
			seen[abs] = struct{}{}
			allFiles = append(allFiles, f)
		}
	}

	return allFiles, nil
}
