// Package version carries build metadata injected through ldflags:
//
//	go build -ldflags "-X git.home.luguber.info/inful/docapply/internal/version.Version=v0.3.0"
package version

import "fmt"

// Version is the release the binary was built from.
var Version = "dev"

// Build metadata.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String renders the full version line shown by the CLI.
func String() string {
	return fmt.Sprintf("docapply %s (commit %s, built %s)", Version, GitCommit, BuildTime)
}
