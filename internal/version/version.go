// Package version carries build metadata injected at link time.
package version

// Set via -ldflags "-X linesheet-extractor/internal/version.Version=..."
// and friends by the release build.
var (
	Version   = "0.1.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)
