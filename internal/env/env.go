package env

import (
	"bufio"
	"io"
	"sort"
	"strings"
)

// Build returns the variables a child task runs with on top of the
// inherited process environment. The caller's environment is never
// modified; the map is applied per command.
func Build(railsEnv string, extra map[string]string) map[string]string {
	env := make(map[string]string, len(extra)+1)

	for k, v := range extra {
		env[k] = v
	}

	// Explicit rails_env wins over anything passed in extra
	if railsEnv != "" {
		env["RAILS_ENV"] = railsEnv
	}

	return env
}

// Slice renders m as KEY=VALUE pairs sorted by key, ready for exec.Cmd.Env.
func Slice(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	result := make([]string, 0, len(m))
	for _, k := range keys {
		result = append(result, k+"="+m[k])
	}
	return result
}

// Parse reads `env`-style output. Each line is split on its first "=";
// lines without one (continuations of multi-line values) are ignored.
func Parse(r io.Reader) (map[string]string, error) {
	vars := make(map[string]string)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		key, value, ok := strings.Cut(scanner.Text(), "=")
		if !ok || key == "" {
			continue
		}
		vars[key] = value
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return vars, nil
}
