// Package ansible implements the binary-module side of the Ansible
// protocol: the arguments file handed to the module and the JSON
// result it prints.
package ansible

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/reviewapps-dev/railstasks/internal/deploy"
)

var (
	ErrMissingParam = errors.New("missing required argument")
	ErrUnknownParam = errors.New("unsupported parameter")
)

// internalPrefix marks keys Ansible adds to every module's arguments.
const internalPrefix = "_ansible_"

type Params struct {
	Path     string `yaml:"path"`
	Current  string `yaml:"current"`
	RailsEnv string `yaml:"rails_env"`
	Bundled  Bool   `yaml:"bundled"`
	Migrate  Bool   `yaml:"migrate"`
	Assets   Bool   `yaml:"assets"`
	Force    Bool   `yaml:"force"`

	CheckMode Bool `yaml:"_ansible_check_mode"`
}

var knownParams = map[string]bool{
	"path":      true,
	"current":   true,
	"rails_env": true,
	"bundled":   true,
	"migrate":   true,
	"assets":    true,
	"force":     true,
}

// LoadArgs reads the arguments file Ansible passes as the module's only
// argument. The file is JSON; YAML is accepted as well.
func LoadArgs(path string) (*Params, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("args file: %w", err)
	}
	return ParseArgs(data)
}

func ParseArgs(data []byte) (*Params, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("args parse: %w", err)
	}

	var unknown []string
	for k := range raw {
		if !knownParams[k] && !strings.HasPrefix(k, internalPrefix) {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, fmt.Errorf("%w: %s", ErrUnknownParam, strings.Join(unknown, ", "))
	}

	var p Params
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("args parse: %w", err)
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

func (p *Params) Validate() error {
	if strings.TrimSpace(p.Path) == "" {
		return fmt.Errorf("%w: path", ErrMissingParam)
	}
	return nil
}

func (p *Params) Options() deploy.Options {
	return deploy.Options{
		Path:      p.Path,
		Current:   p.Current,
		RailsEnv:  p.RailsEnv,
		Bundled:   bool(p.Bundled),
		Migrate:   bool(p.Migrate),
		Assets:    bool(p.Assets),
		Force:     bool(p.Force),
		CheckMode: bool(p.CheckMode),
	}
}

// Bool accepts the boolean spellings Ansible does: true/false, yes/no,
// on/off, 1/0 and y/n, as native booleans, strings or integers.
type Bool bool

func (b *Bool) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected a boolean", node.Line)
	}
	switch strings.ToLower(strings.TrimSpace(node.Value)) {
	case "true", "yes", "on", "1", "y", "t":
		*b = true
	case "false", "no", "off", "0", "n", "f", "", "null", "~":
		*b = false
	default:
		return fmt.Errorf("line %d: %q is not a valid boolean", node.Line, node.Value)
	}
	return nil
}
