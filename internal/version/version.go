// Package version provides build-time version information.
package version

import "fmt"

// Set at build time with -ldflags "-X pose-editor/internal/version.Version=...".
var (
	Version   = "0.1.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String returns a one-line description of the build.
func String() string {
	return fmt.Sprintf("pose-editor %s (commit %s, built %s)", Version, GitCommit, BuildTime)
}
