// Package version holds build information injected with -ldflags.
package version

// Version is the release of dpu.
var Version = "dev"

// Commit is the git commit dpu was built from.
var Commit = "unknown"
