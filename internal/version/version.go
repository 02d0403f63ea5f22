// Package version provides version information for the crudgen CLI.
//
// Usage:
//
//	version.GetVersionString()
package version

import (
	"fmt"
	"runtime"
)

// Version is the CLI version, set with -ldflags during release builds.
var Version = "v0.1.0"

// Commit is the git commit hash, set with -ldflags during release builds.
var Commit = "unknown"

// BuildTime is the build timestamp in RFC3339 format.
var BuildTime = "unknown"

// GetVersionString returns the one-line version string in the format:
// crudgen version v0.1.0 (commit 4a9b2c1, built 2025-10-31T12:10:00Z)
func GetVersionString() string {
	return fmt.Sprintf("crudgen version %s (commit %s, built %s)", Version, Commit, BuildTime)
}

// GetFullVersionInfo returns the version string plus Go runtime details.
func GetFullVersionInfo() string {
	return fmt.Sprintf("%s\ngo version %s (%s/%s)",
		GetVersionString(), runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
