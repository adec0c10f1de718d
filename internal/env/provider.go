package env

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"sync"
)

// Provider supplies the login environment of the invoking user.
type Provider interface {
	Environ(ctx context.Context) (map[string]string, error)
}

// LoginShell sources InitFile in a subshell and captures the resulting
// environment. A missing InitFile yields an empty map.
type LoginShell struct {
	InitFile string
	Shell    string
}

func NewLoginShell(initFile, shell string) *LoginShell {
	if shell == "" {
		shell = "bash"
	}
	return &LoginShell{InitFile: initFile, Shell: shell}
}

func (s *LoginShell) Environ(ctx context.Context) (map[string]string, error) {
	if s.InitFile == "" {
		return map[string]string{}, nil
	}
	if _, err := os.Stat(s.InitFile); err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("stat %s: %w", s.InitFile, err)
	}

	// $1 is the init file; its own output is discarded so only `env` reaches stdout.
	script := `. "$1" >/dev/null 2>&1; env`
	cmd := exec.CommandContext(ctx, s.Shell, "-c", script, "railstasks-env", s.InitFile)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("source %s: %w\n%s", s.InitFile, err, stderr.String())
	}

	return Parse(bytes.NewReader(out))
}

// Static is a fixed environment, used when the login shell must not be
// consulted (tests, or callers that already know the paths).
type Static map[string]string

func (s Static) Environ(ctx context.Context) (map[string]string, error) {
	cp := make(map[string]string, len(s))
	for k, v := range s {
		cp[k] = v
	}
	return cp, nil
}

// Cached resolves the wrapped provider at most once.
type Cached struct {
	Provider Provider

	once sync.Once
	vars map[string]string
	err  error
}

func (c *Cached) Environ(ctx context.Context) (map[string]string, error) {
	c.once.Do(func() {
		c.vars, c.err = c.Provider.Environ(ctx)
	})
	return c.vars, c.err
}
