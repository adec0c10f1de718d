package deploy

import (
	"context"
	"fmt"

	"github.com/reviewapps-dev/railstasks/internal/logging"
	"github.com/reviewapps-dev/railstasks/internal/tree"
)

type Pipeline struct {
	steps  []Step
	runner TaskRunner
	tree   tree.Comparer
	logger *logging.TaskLogger
}

func NewPipeline(runner TaskRunner, cmp tree.Comparer, logger *logging.TaskLogger) *Pipeline {
	return &Pipeline{
		runner: runner,
		tree:   cmp,
		logger: logger,
	}
}

func (p *Pipeline) AddStep(s Step) {
	p.steps = append(p.steps, s)
}

// ForOptions adds the steps requested by opts: migrate first, then assets.
func (p *Pipeline) ForOptions(opts Options) *Pipeline {
	if opts.Migrate {
		p.AddStep(&MigrateStep{})
	}
	if opts.Assets {
		p.AddStep(&AssetPrecompileStep{})
	}
	return p
}

// TaskResult records what one step did.
type TaskResult struct {
	Name   string `json:"name"`
	Status Status `json:"status"`
}

type Report struct {
	Changed bool         `json:"changed"`
	Tasks   []TaskResult `json:"tasks"`
}

// Run executes every step in order. Changed is true if any step ran.
// The first failing step stops the pipeline; the report then covers the
// steps completed before it.
func (p *Pipeline) Run(ctx context.Context, opts Options) (*Report, error) {
	sctx := &StepContext{
		Options: opts,
		Runner:  p.runner,
		Tree:    p.tree,
		Logger:  p.logger,
	}

	report := &Report{Tasks: []TaskResult{}}
	if len(p.steps) == 0 {
		p.logger.Log("nothing requested for %s", opts.Path)
		return report, nil
	}

	for _, step := range p.steps {
		select {
		case <-ctx.Done():
			return report, fmt.Errorf("cancelled before %s: %w", step.Name(), ctx.Err())
		default:
		}

		p.logger.Log("step: %s", step.Name())
		status, err := step.Run(ctx, sctx)
		if err != nil {
			p.logger.Log("step %s failed: %v", step.Name(), err)
			return report, fmt.Errorf("step %s: %w", step.Name(), err)
		}

		report.Tasks = append(report.Tasks, TaskResult{Name: step.Name(), Status: status})
		report.Changed = report.Changed || status.Changed()
	}

	return report, nil
}
