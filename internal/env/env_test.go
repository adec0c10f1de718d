package env

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSplitsOnFirstEquals(t *testing.T) {
	in := strings.Join([]string{
		"GEM_HOME=/home/deploy/.gem",
		"OPTS=a=b=c",
		"EMPTY=",
		"continuation of a multi-line value",
		"=orphan",
	}, "\n")

	vars, err := Parse(strings.NewReader(in))
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"GEM_HOME": "/home/deploy/.gem",
		"OPTS":     "a=b=c",
		"EMPTY":    "",
	}, vars)
}

func TestBuildRailsEnvWins(t *testing.T) {
	got := Build("production", map[string]string{"RAILS_ENV": "staging", "FOO": "bar"})
	assert.Equal(t, map[string]string{"RAILS_ENV": "production", "FOO": "bar"}, got)

	got = Build("", nil)
	assert.Empty(t, got)
}

func TestSliceIsSorted(t *testing.T) {
	got := Slice(map[string]string{"B": "2", "A": "1"})
	assert.Equal(t, []string{"A=1", "B=2"}, got)
}

func TestLoginShellMissingInitFile(t *testing.T) {
	s := NewLoginShell(filepath.Join(t.TempDir(), "nope"), "")
	vars, err := s.Environ(context.Background())
	require.NoError(t, err)
	assert.Empty(t, vars)
}

func TestLoginShellSourcesInitFile(t *testing.T) {
	if _, err := os.Stat("/bin/sh"); err != nil {
		t.Skip("no /bin/sh")
	}
	rc := filepath.Join(t.TempDir(), ".bashrc")
	require.NoError(t, os.WriteFile(rc, []byte("echo noisy\nexport GEM_HOME=/opt/gems\n"), 0644))

	s := NewLoginShell(rc, "/bin/sh")
	vars, err := s.Environ(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/opt/gems", vars["GEM_HOME"])
}

type countingProvider struct{ calls int }

func (p *countingProvider) Environ(ctx context.Context) (map[string]string, error) {
	p.calls++
	return map[string]string{"N": "1"}, nil
}

func TestCachedResolvesOnce(t *testing.T) {
	inner := &countingProvider{}
	c := &Cached{Provider: inner}

	for i := 0; i < 3; i++ {
		vars, err := c.Environ(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "1", vars["N"])
	}
	assert.Equal(t, 1, inner.calls)
}

func TestStaticReturnsCopy(t *testing.T) {
	s := Static{"A": "1"}
	vars, err := s.Environ(context.Background())
	require.NoError(t, err)
	vars["A"] = "2"
	assert.Equal(t, "1", s["A"])
}
