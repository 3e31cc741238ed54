// Package pipeline executes named build stages strictly in order. Every
// stage blocks until complete; the first error aborts the run. There is no
// parallelism anywhere in a packaging run: the filesystem is the only shared
// resource and this process is its sole writer.
package pipeline

import (
	"context"
	"fmt"

	"github.com/luulek/packforge/internal/ctxlog"
)

// Stage is one named, sequential unit of the build flow.
type Stage struct {
	Name string
	Run  func(ctx context.Context) error
}

// Pipeline is an ordered list of stages.
type Pipeline struct {
	stages []Stage
}

// New creates a pipeline that runs the given stages in the given order.
func New(stages ...Stage) *Pipeline {
	return &Pipeline{stages: stages}
}

// Run executes all stages sequentially. The returned error names the stage
// that failed.
func (p *Pipeline) Run(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)

	for _, stage := range p.stages {
		if err := ctx.Err(); err != nil {
			return err
		}
		logger.Info("▶️ Stage starting.", "stage", stage.Name)
		if err := stage.Run(ctx); err != nil {
			return fmt.Errorf("stage %s failed: %w", stage.Name, err)
		}
		logger.Debug("Stage finished.", "stage", stage.Name)
	}
	return nil
}
