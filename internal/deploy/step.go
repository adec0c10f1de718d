package deploy

import (
	"context"

	"github.com/reviewapps-dev/railstasks/internal/logging"
	"github.com/reviewapps-dev/railstasks/internal/tree"
)

// Status is the outcome of a single step.
type Status string

const (
	StatusRan     Status = "ran"
	StatusSkipped Status = "skipped"
	StatusCheck   Status = "check"
)

// Changed reports whether the outcome modified the release.
func (s Status) Changed() bool { return s == StatusRan }

type Step interface {
	Name() string
	Run(ctx context.Context, sctx *StepContext) (Status, error)
}

// TaskRunner executes a rake task and reports whether it changed anything.
type TaskRunner interface {
	Run(ctx context.Context, task string) (bool, error)
}

// Options are the validated parameters of one invocation.
type Options struct {
	Path      string
	Current   string
	RailsEnv  string
	Bundled   bool
	Migrate   bool
	Assets    bool
	Force     bool
	CheckMode bool
}

// SkipHeuristics reports whether the previous release may be used to
// skip work.
func (o Options) SkipHeuristics() bool {
	return o.Current != "" && !o.Force
}

type StepContext struct {
	Options Options
	Runner  TaskRunner
	Tree    tree.Comparer
	Logger  *logging.TaskLogger
}
