// Package version exposes the build metadata stamped into the binary.
package version

// Overwritten by the release build via -ldflags "-X ...".
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)
