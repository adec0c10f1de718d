// Package rake runs Rails rake tasks in a release directory, optionally
// through `bundle exec`.
package rake

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"reflect"
	"strings"
	"sync"

	"github.com/reviewapps-dev/railstasks/internal/env"
	"github.com/reviewapps-dev/railstasks/internal/logging"
)

// Finder resolves an executable name to an absolute path.
type Finder interface {
	Find(ctx context.Context, name string) (string, error)
}

type Runner struct {
	Finder    Finder
	Logger    *logging.TaskLogger
	Dir       string
	RailsEnv  string
	Bundled   bool
	CheckMode bool

	// Executable names handed to Finder.
	BundleName string
	RakeName   string

	// Child output is copied here; nil discards it.
	Stdout io.Writer
	Stderr io.Writer
}

// Command builds the command line for task: `<bundle> exec rake <task>`
// when bundled, `<rake> <task>` otherwise.
func (r *Runner) Command(ctx context.Context, task string) ([]string, error) {
	if r.Bundled {
		bundle, err := r.Finder.Find(ctx, nameOr(r.BundleName, "bundle"))
		if err != nil {
			return nil, err
		}
		return []string{bundle, "exec", "rake", task}, nil
	}

	rake, err := r.Finder.Find(ctx, nameOr(r.RakeName, "rake"))
	if err != nil {
		return nil, err
	}
	return []string{rake, task}, nil
}

// Run executes task and reports whether anything changed. In check mode
// nothing runs and the result is unchanged; otherwise a successful run
// is always a change and a non-zero exit is an error.
func (r *Runner) Run(ctx context.Context, task string) (bool, error) {
	if r.CheckMode {
		r.Logger.Log("check mode: would run %s", task)
		return false, nil
	}

	args, err := r.Command(ctx, task)
	if err != nil {
		return false, fmt.Errorf("%s: %w", task, err)
	}

	r.Logger.Log("running: %s (dir=%s)", strings.Join(args, " "), r.Dir)

	captured := &lockedBuffer{}
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Dir = r.Dir
	cmd.Env = append(os.Environ(), env.Slice(env.Build(r.RailsEnv, nil))...)
	cmd.Stdout = teeTo(captured, r.Stdout)
	if sameWriter(r.Stdout, r.Stderr) {
		// One writer value for both streams makes os/exec use a single pipe.
		cmd.Stderr = cmd.Stdout
	} else {
		cmd.Stderr = teeTo(captured, r.Stderr)
	}

	if err := cmd.Run(); err != nil {
		return false, fmt.Errorf("%s: %w\n%s", task, err, strings.TrimSpace(captured.String()))
	}

	r.Logger.Log("%s complete", task)
	return true, nil
}

func teeTo(buf *lockedBuffer, w io.Writer) io.Writer {
	if w == nil {
		return buf
	}
	return io.MultiWriter(buf, w)
}

func sameWriter(a, b io.Writer) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return reflect.TypeOf(a).Comparable() && a == b
}

// lockedBuffer collects output from the stdout and stderr copy goroutines.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func nameOr(name, fallback string) string {
	if name == "" {
		return fallback
	}
	return name
}
