// Package locate finds the bundle and rake executables, looking in the
// package home advertised by the user's login environment before PATH.
package locate

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/reviewapps-dev/railstasks/internal/env"
)

var ErrNotFound = errors.New("executable not found")

type Locator struct {
	Env            env.Provider
	PackageHomeVar string

	// Path is the search path; empty means $PATH at lookup time.
	Path string
}

func New(provider env.Provider, packageHomeVar string) *Locator {
	return &Locator{
		Env:            provider,
		PackageHomeVar: packageHomeVar,
	}
}

// ExtraDirs returns the directories searched ahead of PATH.
func (l *Locator) ExtraDirs(ctx context.Context) ([]string, error) {
	if l.Env == nil || l.PackageHomeVar == "" {
		return nil, nil
	}

	vars, err := l.Env.Environ(ctx)
	if err != nil {
		return nil, fmt.Errorf("load login environment: %w", err)
	}

	home := vars[l.PackageHomeVar]
	if home == "" {
		return nil, nil
	}
	return []string{filepath.Join(home, "bin")}, nil
}

// Find returns the absolute path of name. A name containing a path
// separator is checked as-is.
func (l *Locator) Find(ctx context.Context, name string) (string, error) {
	if strings.ContainsRune(name, os.PathSeparator) {
		if isExecutable(name) {
			return filepath.Abs(name)
		}
		return "", fmt.Errorf("%s: %w", name, ErrNotFound)
	}

	extra, err := l.ExtraDirs(ctx)
	if err != nil {
		return "", err
	}

	path := l.Path
	if path == "" {
		path = os.Getenv("PATH")
	}
	dirs := append(extra, filepath.SplitList(path)...)

	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		candidate := filepath.Join(dir, name)
		if isExecutable(candidate) {
			return filepath.Abs(candidate)
		}
	}

	return "", fmt.Errorf("%s (searched %s): %w", name, strings.Join(dirs, string(os.PathListSeparator)), ErrNotFound)
}

func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular() && info.Mode().Perm()&0111 != 0
}
