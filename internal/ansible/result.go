package ansible

import (
	"encoding/json"
	"io"

	"github.com/reviewapps-dev/railstasks/internal/deploy"
)

// Result is the JSON object a module prints on stdout.
type Result struct {
	Changed  bool                `json:"changed"`
	Failed   bool                `json:"failed,omitempty"`
	Msg      string              `json:"msg,omitempty"`
	Tasks    []deploy.TaskResult `json:"tasks"`
	LogLines []string            `json:"log_lines,omitempty"`
}

// NewResult builds the result for a finished run. A nil report (failure
// before any step ran) yields an empty task list.
func NewResult(report *deploy.Report, runErr error, lines []string) Result {
	r := Result{
		Tasks:    []deploy.TaskResult{},
		LogLines: lines,
	}
	if report != nil {
		r.Changed = report.Changed
		r.Tasks = report.Tasks
	}
	if runErr != nil {
		r.Failed = true
		r.Msg = runErr.Error()
	}
	return r
}

// Fail builds the result for an invocation that never reached the pipeline.
func Fail(err error) Result {
	return Result{Failed: true, Msg: err.Error(), Tasks: []deploy.TaskResult{}}
}

func (r Result) Write(w io.Writer) error {
	enc := json.NewEncoder(w)
	return enc.Encode(r)
}

// ExitCode is the process status Ansible expects for r.
func (r Result) ExitCode() int {
	if r.Failed {
		return 1
	}
	return 0
}
