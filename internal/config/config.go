package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// EnvVar names the environment variable consulted when --config is not given.
const EnvVar = "RAILSTASKS_CONFIG"

type Config struct {
	Shell       ShellConfig       `toml:"shell"`
	Executables ExecutablesConfig `toml:"executables"`
	Tools       ToolsConfig       `toml:"tools"`
	Log         LogConfig         `toml:"log"`
}

type ShellConfig struct {
	InitFile string `toml:"init_file"`
	Shell    string `toml:"shell"`
}

type ExecutablesConfig struct {
	PackageHomeVar string `toml:"package_home_var"`
	Bundle         string `toml:"bundle"`
	Rake           string `toml:"rake"`
}

type ToolsConfig struct {
	Diff string `toml:"diff"`
	Copy string `toml:"cp"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

func Default() *Config {
	return &Config{
		Shell: ShellConfig{
			InitFile: "~/.bashrc",
			Shell:    "bash",
		},
		Executables: ExecutablesConfig{
			PackageHomeVar: "GEM_HOME",
			Bundle:         "bundle",
			Rake:           "rake",
		},
		Tools: ToolsConfig{
			Diff: "diff",
			Copy: "cp",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load returns the defaults overlaid with the TOML file at path.
// An empty path falls back to $RAILSTASKS_CONFIG; a missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(EnvVar)
	}

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			if os.IsNotExist(err) {
				return cfg, nil
			}
			return nil, fmt.Errorf("config: %w", err)
		}
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	return cfg, nil
}

// InitFilePath expands a leading "~/" in Shell.InitFile against home.
// It returns "" when the file is home-relative and home is unknown.
func (c *Config) InitFilePath(home string) string {
	p := c.Shell.InitFile
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	if home == "" {
		return ""
	}
	if p == "~" {
		return home
	}
	return filepath.Join(home, p[2:])
}
