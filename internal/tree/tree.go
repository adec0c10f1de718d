// Package tree compares and copies release directories using the
// system diff and cp tools.
package tree

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/reviewapps-dev/railstasks/internal/logging"
)

type Comparer interface {
	// Differs reports whether a and b differ. A comparison that cannot be
	// completed (missing path, unreadable file) counts as a difference.
	Differs(ctx context.Context, a, b string) bool

	// CopyTree copies the contents of from onto to, creating to if needed
	// and overwriting files that already exist there.
	CopyTree(ctx context.Context, from, to string) error
}

type Shell struct {
	DiffBin string
	CopyBin string
	Logger  *logging.TaskLogger
}

func NewShell(diffBin, copyBin string, logger *logging.TaskLogger) *Shell {
	if diffBin == "" {
		diffBin = "diff"
	}
	if copyBin == "" {
		copyBin = "cp"
	}
	return &Shell{DiffBin: diffBin, CopyBin: copyBin, Logger: logger}
}

func (s *Shell) Differs(ctx context.Context, a, b string) bool {
	cmd := exec.CommandContext(ctx, s.DiffBin, "-r", "-q", a, b)
	out, err := cmd.CombinedOutput()
	if err == nil {
		return false
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
		return true
	}

	// diff exits 2 on trouble; that and spawn failures still count as "differs"
	msg := strings.TrimSpace(string(out))
	if msg == "" {
		msg = err.Error()
	}
	s.Logger.Warn("diff could not compare %s and %s, treating as changed: %s", a, b, msg)
	return true
}

func (s *Shell) CopyTree(ctx context.Context, from, to string) error {
	info, err := os.Stat(from)
	if err != nil {
		return fmt.Errorf("copy %s: %w", from, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("copy %s: not a directory", from)
	}

	if err := os.MkdirAll(to, 0755); err != nil {
		return fmt.Errorf("copy %s: create %s: %w", from, to, err)
	}

	// Copying "from/." onto "to" merges contents instead of nesting from inside to.
	cmd := exec.CommandContext(ctx, s.CopyBin, "-R", from+string(os.PathSeparator)+".", to)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("cp -R %s %s: %w\n%s", from, to, err, string(out))
	}
	return nil
}
