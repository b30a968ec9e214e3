// Package version holds the build metadata of the flnk binary.
package version

// Build information set by ldflags
var (
	Version = "dev"     // -X github.com/arthur-debert/flnk/internal/version.Version={{.Version}}
	Commit  = "unknown" // -X github.com/arthur-debert/flnk/internal/version.Commit={{.Commit}}
	Date    = "unknown" // -X github.com/arthur-debert/flnk/internal/version.Date={{.Date}}
)
