package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWhenMissing(t *testing.T) {
	t.Setenv(EnvVar, "")
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverlaysFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(p, []byte(`
[executables]
package_home_var = "RBENV_ROOT"

[tools]
diff = "/usr/bin/diff"
`), 0644))

	cfg, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, "RBENV_ROOT", cfg.Executables.PackageHomeVar)
	assert.Equal(t, "/usr/bin/diff", cfg.Tools.Diff)
	assert.Equal(t, "rake", cfg.Executables.Rake)
	assert.Equal(t, "cp", cfg.Tools.Copy)
}

func TestLoadFromEnvVar(t *testing.T) {
	p := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(p, []byte("[log]\nlevel = \"debug\"\n"), 0644))
	t.Setenv(EnvVar, p)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadRejectsBadTOML(t *testing.T) {
	p := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(p, []byte("[shell\n"), 0644))

	_, err := Load(p)
	assert.Error(t, err)
}

func TestInitFilePath(t *testing.T) {
	cfg := Default()
	assert.Equal(t, filepath.Join("/home/deploy", ".bashrc"), cfg.InitFilePath("/home/deploy"))

	cfg.Shell.InitFile = "/etc/profile"
	assert.Equal(t, "/etc/profile", cfg.InitFilePath("/home/deploy"))
	assert.Equal(t, "/etc/profile", cfg.InitFilePath(""))
}

func TestInitFilePathUnknownHome(t *testing.T) {
	cfg := Default()
	assert.Empty(t, cfg.InitFilePath(""))
}

func TestLoadStatFailure(t *testing.T) {
	dir := t.TempDir()
	notADir := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(notADir, []byte("x"), 0644))

	_, err := Load(filepath.Join(notADir, "config.toml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config:")
}
