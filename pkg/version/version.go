// Package version exposes the build version of the steelcalc binary.
package version

import (
	"fmt"
	"runtime"
)

// Build variables set by ldflags:
//
//	go build -ldflags "-X github.com/rshade/steelcalc/pkg/version.version=v1.2.0"
var (
	version   = "" //nolint:gochecknoglobals // set by ldflags
	gitCommit = "" //nolint:gochecknoglobals // set by ldflags
	buildDate = "" //nolint:gochecknoglobals // set by ldflags
)

const devVersion = "0.0.0-dev"

// GetVersion returns the semantic version of the binary, or a dev placeholder.
func GetVersion() string {
	if version == "" {
		return devVersion
	}
	return version
}

// GetDetailedVersion returns a multi-line description of the build.
func GetDetailedVersion() string {
	commit := gitCommit
	if commit == "" {
		commit = "unknown"
	} else if len(commit) > 7 {
		commit = commit[:7]
	}
	built := buildDate
	if built == "" {
		built = "unknown"
	}

	return fmt.Sprintf(`steelcalc %s
Commit:     %s
Built:      %s
Go version: %s
OS/Arch:    %s/%s`,
		GetVersion(), commit, built,
		runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
