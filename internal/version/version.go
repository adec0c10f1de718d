// Package version carries the build metadata stamped into the railstasks
// binary, e.g.
//
//	go build -ldflags "-X github.com/reviewapps-dev/railstasks/internal/version.Version=1.2.0"
package version

import (
	"fmt"
	"runtime"
)

var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// String is the one-line banner printed by `railstasks version`.
func String() string {
	return fmt.Sprintf("railstasks %s (%s) built %s with %s", Version, Commit, BuildDate, runtime.Version())
}
