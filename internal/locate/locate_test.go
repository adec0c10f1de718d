package locate

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reviewapps-dev/railstasks/internal/env"
)

func writeExecutable(t *testing.T, dir, name string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0755))
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte("#!/bin/sh\nexit 0\n"), 0755))
	return p
}

func TestFindPrefersPackageHome(t *testing.T) {
	root := t.TempDir()
	gemHome := filepath.Join(root, "gems")
	pathDir := filepath.Join(root, "usr", "bin")

	want := writeExecutable(t, filepath.Join(gemHome, "bin"), "bundle")
	writeExecutable(t, pathDir, "bundle")

	l := New(env.Static{"GEM_HOME": gemHome}, "GEM_HOME")
	l.Path = pathDir

	got, err := l.Find(context.Background(), "bundle")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestFindFallsBackToPath(t *testing.T) {
	pathDir := t.TempDir()
	want := writeExecutable(t, pathDir, "rake")

	l := New(env.Static{}, "GEM_HOME")
	l.Path = pathDir

	got, err := l.Find(context.Background(), "rake")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestFindMissing(t *testing.T) {
	l := New(env.Static{"GEM_HOME": t.TempDir()}, "GEM_HOME")
	l.Path = t.TempDir()

	_, err := l.Find(context.Background(), "rake")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestFindSkipsNonExecutable(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "rake"), []byte("x"), 0644))

	l := New(nil, "")
	l.Path = dir

	_, err := l.Find(context.Background(), "rake")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFindExplicitPath(t *testing.T) {
	want := writeExecutable(t, t.TempDir(), "rake")

	l := New(nil, "")
	got, err := l.Find(context.Background(), want)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = l.Find(context.Background(), want+".missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

type failingProvider struct{}

func (failingProvider) Environ(ctx context.Context) (map[string]string, error) {
	return nil, errors.New("bashrc exploded")
}

func TestFindPropagatesEnvironmentFailure(t *testing.T) {
	l := New(failingProvider{}, "GEM_HOME")
	_, err := l.Find(context.Background(), "rake")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bashrc exploded")
	assert.NotErrorIs(t, err, ErrNotFound)
}
